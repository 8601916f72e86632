package radio

import (
	"errors"
	"sync"
	"time"

	"github.com/jrwynneiii/airspyrx/config"
	"github.com/jrwynneiii/airspyrx/usbfs"
)

type ctrlCall struct {
	requestType, request uint8
	value, index         uint16
	data                 []byte
}

// fakeConn answers control requests through reply and hands out fakeStreams.
type fakeConn struct {
	mu     sync.Mutex
	calls  []ctrlCall
	reply  func(c ctrlCall, data []byte) (int, error)
	stream *fakeStream
	closed bool

	// ready is how many submitted transfers complete on their own.
	ready int
	fill  func(seq int, buf []byte)
}

func newFakeConn() *fakeConn {
	return &fakeConn{ready: -1}
}

func (f *fakeConn) Control(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	f.mu.Lock()
	c := ctrlCall{requestType, request, value, index, append([]byte(nil), data...)}
	f.calls = append(f.calls, c)
	reply := f.reply
	f.mu.Unlock()

	if reply != nil {
		return reply(c, data)
	}
	if requestType&usbfs.DirIn != 0 {
		for i := range data {
			data[i] = 0
		}
	}
	return len(data), nil
}

func (f *fakeConn) OpenStream(endpoint uint8, slots int) (BulkStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stream = &fakeStream{
		bufs:    make([][]byte, slots),
		pending: make([]bool, slots),
		events:  make(chan fakeEvent, 2*slots),
		ready:   f.ready,
		fill:    f.fill,
	}
	return f.stream, nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) Calls() []ctrlCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ctrlCall(nil), f.calls...)
}

func (f *fakeConn) modeCalls() []uint16 {
	var modes []uint16
	for _, c := range f.Calls() {
		if c.request == reqReceiverMode {
			modes = append(modes, c.value)
		}
	}
	return modes
}

// fakeEvent completes slot. A positive n reports that many octets instead
// of the whole buffer.
type fakeEvent struct {
	slot int
	n    int
	err  error
}

// fakeStream completes the first ready submissions immediately and keeps
// the rest pending until Cancel.
type fakeStream struct {
	mu        sync.Mutex
	bufs      [][]byte
	pending   []bool
	inFlight  int
	cancelled bool
	events    chan fakeEvent
	ready     int
	seq       int
	fill      func(seq int, buf []byte)
}

func (s *fakeStream) Submit(slot int, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.bufs) {
		return usbfs.ErrSlot
	}
	if s.cancelled {
		return usbfs.ErrCancelled
	}
	if s.pending[slot] {
		return usbfs.ErrBusy
	}
	s.bufs[slot] = buf
	s.pending[slot] = true
	s.inFlight++
	if s.ready != 0 {
		if s.ready > 0 {
			s.ready--
		}
		if s.fill != nil {
			s.fill(s.seq, buf)
		}
		s.seq++
		s.events <- fakeEvent{slot: slot}
	}
	return nil
}

func (s *fakeStream) Wait() (int, int, error) {
	for {
		s.mu.Lock()
		if s.inFlight == 0 {
			cancelled := s.cancelled
			s.mu.Unlock()
			if cancelled {
				return -1, 0, usbfs.ErrCancelled
			}
			return -1, 0, usbfs.ErrClosed
		}
		s.mu.Unlock()

		ev := <-s.events
		s.mu.Lock()
		if !s.pending[ev.slot] {
			s.mu.Unlock()
			continue
		}
		s.pending[ev.slot] = false
		n := len(s.bufs[ev.slot])
		s.bufs[ev.slot] = nil
		s.inFlight--
		s.mu.Unlock()
		if ev.err != nil {
			return ev.slot, 0, ev.err
		}
		if ev.n > 0 {
			n = ev.n
		}
		return ev.slot, n, nil
	}
}

func (s *fakeStream) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	for i, p := range s.pending {
		if p {
			s.events <- fakeEvent{slot: i, err: usbfs.ErrCancelled}
		}
	}
}

func (s *fakeStream) Close() error {
	s.Cancel()
	for {
		slot, _, err := s.Wait()
		if slot < 0 {
			if errors.Is(err, usbfs.ErrCancelled) {
				return nil
			}
			return err
		}
	}
}

func testStreamConf() config.StreamConf {
	c := config.DefaultStream()
	c.PacketSize = 2048
	c.Transfers = 4
	c.RawQueueSize = 4
	c.ConvertedQueueSize = 4
	c.PoolAcquireTimeout = 100 * time.Millisecond
	c.QueueOfferTimeout = 20 * time.Millisecond
	c.PoolRefillTimeout = 100 * time.Millisecond
	c.ConverterTimeout = 20 * time.Millisecond
	c.ControlTimeout = 100 * time.Millisecond
	return c
}
