package demod

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/packing"
	"github.com/jrwynneiii/airspyrx/pool"
)

var (
	ErrSampleType = errors.New("invalid sample type")
	ErrBufferSize = errors.New("buffer too small")
)

const DefaultPollTimeout = time.Second

type Sample interface {
	int16 | float32
}

// Converter drains raw packets, converts them to T and hands them on. Raw
// buffers go back to inReturn, converted ones come from outPool and go to out.
type Converter[T Sample] struct {
	SampleType  SampleType
	Packing     bool
	PollTimeout time.Duration

	in       *pool.Queue[[]byte]
	inReturn *pool.Queue[[]byte]
	out      *pool.Queue[[]T]
	outPool  *pool.Queue[[]T]

	convert func(src []byte, dst []T, count int) error
	process func([]T)

	packingBuffer []byte
	stopping      atomic.Bool
	done          chan struct{}
	converted     atomic.Uint64
	dropped       atomic.Uint64
}

func newConverter[T Sample](stype SampleType, pack bool, in, inReturn *pool.Queue[[]byte], out, outPool *pool.Queue[[]T]) *Converter[T] {
	return &Converter[T]{
		SampleType:  stype,
		Packing:     pack,
		PollTimeout: DefaultPollTimeout,
		in:          in,
		inReturn:    inReturn,
		out:         out,
		outPool:     outPool,
		done:        make(chan struct{}),
	}
}

// NewInt16Converter accepts Int16IQ, Int16Real and Uint16Real.
func NewInt16Converter(stype SampleType, pack bool, in, inReturn *pool.Queue[[]byte], out, outPool *pool.Queue[[]int16]) (*Converter[int16], error) {
	c := newConverter(stype, pack, in, inReturn, out, outPool)
	switch stype {
	case Int16IQ:
		c.convert = ConvertInt16
		c.process = NewInt16QSD().Process
	case Int16Real:
		c.convert = ConvertInt16
	case Uint16Real:
		c.convert = ConvertUint16
	default:
		log.Errorf("[demod] int16 converter cannot produce %v", stype)
		return nil, fmt.Errorf("%w for int16 converter: %v", ErrSampleType, stype)
	}
	return c, nil
}

// NewFloatConverter accepts Float32IQ and Float32Real.
func NewFloatConverter(stype SampleType, pack bool, in, inReturn *pool.Queue[[]byte], out, outPool *pool.Queue[[]float32]) (*Converter[float32], error) {
	c := newConverter(stype, pack, in, inReturn, out, outPool)
	switch stype {
	case Float32IQ:
		c.convert = ConvertFloat
		c.process = NewFloatQSD().Process
	case Float32Real:
		c.convert = ConvertFloat
	default:
		log.Errorf("[demod] float converter cannot produce %v", stype)
		return nil, fmt.Errorf("%w for float converter: %v", ErrSampleType, stype)
	}
	return c, nil
}

// Run converts packets until Stop is called or the input queue stays empty
// for PollTimeout.
func (c *Converter[T]) Run() {
	defer close(c.done)
	log.Debugf("[demod] %v converter started (packing=%v)", c.SampleType, c.Packing)

	for !c.stopping.Load() {
		outBuf, ok := c.outPool.PollTimeout(c.PollTimeout)
		if !ok {
			// The consumer is behind. Upstream fails first if this persists.
			log.Warnf("[demod] no output buffers available, polling again")
			continue
		}

		raw, ok := c.in.PollTimeout(c.PollTimeout)
		if !ok {
			log.Errorf("[demod] no input packets for %v, stopping", c.PollTimeout)
			c.outPool.Offer(outBuf)
			break
		}

		err := c.work(raw, outBuf)
		c.inReturn.Offer(raw)
		if err != nil {
			log.Errorf("[demod] dropping %d octet packet: %v", len(raw), err)
			c.outPool.Offer(outBuf)
			continue
		}
		if c.out.Offer(outBuf) {
			c.converted.Add(1)
		} else {
			c.dropped.Add(1)
			c.outPool.Offer(outBuf)
		}
	}
	log.Debugf("[demod] %v converter stopped after %d packets", c.SampleType, c.converted.Load())
}

// work fills outBuf from raw. On error outBuf holds nothing usable.
func (c *Converter[T]) work(raw []byte, outBuf []T) error {
	input := raw
	if c.Packing {
		n := packing.UnpackedSize(len(raw))
		if len(c.packingBuffer) != n {
			c.packingBuffer = make([]byte, n)
		}
		if err := packing.Unpack(raw, c.packingBuffer, n); err != nil {
			return err
		}
		input = c.packingBuffer
	}

	if err := c.convert(input, outBuf, len(outBuf)); err != nil {
		return err
	}
	if c.process != nil {
		c.process(outBuf)
	}
	return nil
}

// Stop asks Run to return at its next polling point.
func (c *Converter[T]) Stop() {
	c.stopping.Store(true)
}

func (c *Converter[T]) Done() <-chan struct{} {
	return c.done
}

// Converted is the number of buffers delivered to the output queue.
func (c *Converter[T]) Converted() uint64 {
	return c.converted.Load()
}

// Dropped counts converted buffers that found the output queue full.
func (c *Converter[T]) Dropped() uint64 {
	return c.dropped.Load()
}
