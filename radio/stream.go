package radio

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/demod"
	"github.com/jrwynneiii/airspyrx/pool"
	"github.com/jrwynneiii/airspyrx/usbfs"
)

// transferSize is the number of octets asked of the device per bulk read.
func (a *Airspy) transferSize(pack bool) int {
	if pack {
		return a.conf.PacketSize * 3 / 4
	}
	return a.conf.PacketSize
}

// PacketSize is the size of one packet on the queue the consumer reads: the
// transfer size in raw mode, the unpacked size otherwise.
func (a *Airspy) PacketSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rawMode {
		return a.transferSize(a.packing)
	}
	return a.conf.PacketSize
}

// SamplesPerPacket is the length of each converted buffer.
func (a *Airspy) SamplesPerPacket() int {
	return a.conf.PacketSize / 2
}

func (a *Airspy) PacketCounter() uint64 {
	return a.packetCounter.Load()
}

// ReceivingTime is the time since the last StartRX, or zero before the first.
func (a *Airspy) ReceivingTime() time.Duration {
	start := a.startTime.Load()
	if start == 0 {
		return 0
	}
	return time.Since(time.Unix(0, start))
}

// AverageReceiveRate is in octets per second.
func (a *Airspy) AverageReceiveRate() float64 {
	elapsed := a.ReceivingTime().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(a.PacketCounter()) * float64(a.PacketSize()) / elapsed
}

// Converted and Dropped report the converter of the current or last stream.
func (a *Airspy) Converted() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.converter == nil {
		return 0
	}
	return a.converter.Converted()
}

func (a *Airspy) Dropped() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.converter == nil {
		return 0
	}
	return a.converter.Dropped()
}

// Done is closed once the stream started by the last StartRX has fully shut
// down. It is nil before the first start.
func (a *Airspy) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Err is the reason the last stream ended, or nil after a clean Stop.
func (a *Airspy) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.err
}

func (a *Airspy) setErr(err error) {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	if a.err == nil {
		a.err = err
	}
}

// RawQueue delivers device packets when raw mode is on. Every buffer taken
// from it goes back through RawReturnPool.
func (a *Airspy) RawQueue() (*pool.Queue[[]byte], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rawQueue == nil || !a.streamRaw {
		return nil, fmt.Errorf("raw queue: %w", ErrUnavailable)
	}
	return a.rawQueue, nil
}

func (a *Airspy) RawReturnPool() (*pool.Queue[[]byte], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rawPool == nil || !a.streamRaw {
		return nil, fmt.Errorf("raw return pool: %w", ErrUnavailable)
	}
	return a.rawPool, nil
}

func (a *Airspy) Int16Queue() (*pool.Queue[[]int16], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.int16Queue == nil {
		return nil, fmt.Errorf("int16 queue: %w", ErrUnavailable)
	}
	return a.int16Queue, nil
}

func (a *Airspy) Int16ReturnPool() (*pool.Queue[[]int16], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.int16Pool == nil {
		return nil, fmt.Errorf("int16 return pool: %w", ErrUnavailable)
	}
	return a.int16Pool, nil
}

func (a *Airspy) FloatQueue() (*pool.Queue[[]float32], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.floatQueue == nil {
		return nil, fmt.Errorf("float queue: %w", ErrUnavailable)
	}
	return a.floatQueue, nil
}

func (a *Airspy) FloatReturnPool() (*pool.Queue[[]float32], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.floatPool == nil {
		return nil, fmt.Errorf("float return pool: %w", ErrUnavailable)
	}
	return a.floatPool, nil
}

// StartRX allocates the queues for the current settings, submits every
// transfer and switches the device to receive. The stream runs until Stop,
// Close or a fatal error; Done and Err report the end.
func (a *Airspy) StartRX() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		if a.Mode() != ModeOff {
			return fmt.Errorf("start rx: %w", ErrReceiving)
		}
		if !a.busy() {
			break
		}
		// The previous loop is off and cancelled but still draining.
		done := a.done
		a.mu.Unlock()
		<-done
		a.mu.Lock()
	}

	conf := a.conf
	size := a.transferSize(a.packing)
	slots := conf.Transfers

	rawPool := pool.New(slots+conf.RawQueueSize, func() []byte { return make([]byte, size) })
	rawQueue := pool.NewQueue[[]byte](conf.RawQueueSize)

	var (
		conv       worker
		int16Queue *pool.Queue[[]int16]
		int16Pool  *pool.Queue[[]int16]
		floatQueue *pool.Queue[[]float32]
		floatPool  *pool.Queue[[]float32]
	)
	if !a.rawMode {
		samples := a.SamplesPerPacket()
		if a.sampleType.IsFloat() {
			floatQueue = pool.NewQueue[[]float32](conf.ConvertedQueueSize)
			floatPool = pool.New(conf.ConvertedQueueSize, func() []float32 { return make([]float32, samples) })
			c, err := demod.NewFloatConverter(a.sampleType, a.packing, rawQueue, rawPool, floatQueue, floatPool)
			if err != nil {
				return fmt.Errorf("start rx: %w", err)
			}
			c.PollTimeout = conf.ConverterTimeout
			conv = c
		} else {
			int16Queue = pool.NewQueue[[]int16](conf.ConvertedQueueSize)
			int16Pool = pool.New(conf.ConvertedQueueSize, func() []int16 { return make([]int16, samples) })
			c, err := demod.NewInt16Converter(a.sampleType, a.packing, rawQueue, rawPool, int16Queue, int16Pool)
			if err != nil {
				return fmt.Errorf("start rx: %w", err)
			}
			c.PollTimeout = conf.ConverterTimeout
			conv = c
		}
	}

	bufs := make([][]byte, slots)
	for i := range bufs {
		b, ok := rawPool.PollTimeout(conf.PoolAcquireTimeout)
		if !ok {
			return fmt.Errorf("start rx: %w", ErrPoolExhausted)
		}
		bufs[i] = b
	}

	stream, err := a.conn.OpenStream(endpointIn, slots)
	if err != nil {
		return fmt.Errorf("start rx: open stream: %w: %w", ErrTransport, err)
	}

	if err := a.SetReceiverMode(ModeReceive); err != nil {
		a.mode.Store(int32(ModeOff))
		stream.Close()
		return fmt.Errorf("start rx: %w", err)
	}

	for i, b := range bufs {
		if err := stream.Submit(i, b); err != nil {
			log.Errorf("[radio] submit transfer %d: %v", i, err)
			if offErr := a.SetReceiverMode(ModeOff); offErr != nil {
				log.Errorf("[radio] %v", offErr)
			}
			a.mode.Store(int32(ModeOff))
			stream.Close()
			return fmt.Errorf("start rx: submit transfer %d: %w: %w", i, ErrTransport, err)
		}
	}

	a.streamRaw = a.rawMode
	a.rawQueue, a.rawPool = rawQueue, rawPool
	a.int16Queue, a.int16Pool = int16Queue, int16Pool
	a.floatQueue, a.floatPool = floatQueue, floatPool
	a.converter = conv
	a.done = make(chan struct{})
	a.errMu.Lock()
	a.err = nil
	a.errMu.Unlock()
	a.packetCounter.Store(0)
	a.startTime.Store(time.Now().UnixNano())

	a.activeMu.Lock()
	a.active = stream
	a.activeMu.Unlock()
	if a.Mode() != ModeReceive {
		// Switched off before the stream was published.
		stream.Cancel()
	}

	if conv != nil {
		go conv.Run()
	}
	go a.receiveLoop(stream, bufs, rawQueue, rawPool, conv, a.done)

	log.Infof("[radio] receiving: %d transfers of %d octets, type %v, packing %v, raw %v",
		slots, size, a.sampleType, a.packing, a.rawMode)
	return nil
}

// Stop switches the device off and cancels outstanding transfers. The
// receive loop finishes asynchronously; wait on Done.
func (a *Airspy) Stop() error {
	if err := a.SetReceiverMode(ModeOff); err != nil {
		return fmt.Errorf("stop rx: %w", err)
	}
	return nil
}

func (a *Airspy) receiveLoop(stream BulkStream, bufs [][]byte, rawQueue, rawPool *pool.Queue[[]byte], conv worker, done chan struct{}) {
	defer close(done)
	conf := a.conf
	log.Debugf("[radio] receive loop started")

	for {
		slot, n, err := stream.Wait()
		if err != nil {
			if slot >= 0 {
				rawPool.Offer(bufs[slot][:cap(bufs[slot])])
				bufs[slot] = nil
			}
			if errors.Is(err, usbfs.ErrCancelled) || errors.Is(err, usbfs.ErrClosed) {
				if a.Mode() == ModeReceive {
					a.setErr(fmt.Errorf("receive: %w: transfers cancelled while receiving", ErrTransport))
				}
			} else {
				a.setErr(fmt.Errorf("receive: %w: %w", ErrTransport, err))
			}
			break
		}

		buf := bufs[slot]
		bufs[slot] = nil
		if a.Mode() != ModeReceive {
			rawPool.Offer(buf)
			break
		}
		if n != len(buf) {
			rawPool.Offer(buf)
			a.setErr(fmt.Errorf("receive: %w: short transfer of %d/%d octets", ErrTransport, n, len(buf)))
			break
		}
		a.packetCounter.Add(1)

		if !rawQueue.OfferTimeout(buf, conf.QueueOfferTimeout) {
			log.Errorf("[radio] raw queue full for %v, stopping", conf.QueueOfferTimeout)
			rawPool.Offer(buf)
			a.setErr(fmt.Errorf("receive: %w", ErrQueueFull))
			break
		}

		next, ok := rawPool.PollTimeout(conf.PoolRefillTimeout)
		if !ok {
			log.Errorf("[radio] no free buffer for %v, stopping", conf.PoolRefillTimeout)
			a.setErr(fmt.Errorf("receive: %w", ErrPoolExhausted))
			break
		}
		next = next[:cap(next)]
		if err := stream.Submit(slot, next); err != nil {
			rawPool.Offer(next)
			if !errors.Is(err, usbfs.ErrCancelled) {
				a.setErr(fmt.Errorf("receive: resubmit: %w: %w", ErrTransport, err))
			}
			break
		}
		bufs[slot] = next
	}

	a.activeMu.Lock()
	a.active = nil
	a.activeMu.Unlock()
	stream.Cancel()
	if err := stream.Close(); err != nil {
		log.Errorf("[radio] closing stream: %v", err)
	} else {
		for i, b := range bufs {
			if b != nil {
				rawPool.Offer(b[:cap(b)])
				bufs[i] = nil
			}
		}
	}

	if a.Mode() == ModeReceive {
		if err := a.SetReceiverMode(ModeOff); err != nil {
			log.Errorf("[radio] %v", err)
		}
	}
	a.mode.Store(int32(ModeOff))

	if conv != nil {
		conv.Stop()
		<-conv.Done()
	}

	if err := a.Err(); err != nil {
		log.Errorf("[radio] receive loop stopped: %v", err)
	} else {
		log.Debugf("[radio] receive loop stopped after %d packets", a.PacketCounter())
	}
}
