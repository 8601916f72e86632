// Package consumer drains the sample queues of a running receiver, hands
// every buffer back to its pool and keeps running statistics about what went
// through.
package consumer

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/pool"
)

// ErrStreamEnded is returned by Drain when the producer side finished.
var ErrStreamEnded = errors.New("stream ended")

type Element interface {
	~byte | ~int16 | ~float32
}

// Drain takes buffers from queue, passes them to fn and returns them to ret
// until ctx is cancelled or done is closed. Buffers already queued when done
// closes are still delivered.
func Drain[T Element](ctx context.Context, done <-chan struct{}, queue, ret *pool.Queue[[]T], fn func([]T)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case buf := <-queue.C():
			fn(buf)
			ret.Offer(buf)
		case <-done:
			for {
				buf, ok := queue.Poll()
				if !ok {
					return ErrStreamEnded
				}
				fn(buf)
				ret.Offer(buf)
			}
		}
	}
}

// Level describes one buffer relative to full scale.
type Level struct {
	Mean float64
	RMS  float64
	Peak float64
}

// DBFS is the RMS level in dB relative to full scale.
func (l Level) DBFS() float64 {
	if l.RMS <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(l.RMS)
}

type Stats struct {
	Buffers uint64
	Samples uint64
	Octets  uint64
	Level   Level
}

// Monitor accumulates statistics for one stream. IQ selects whether
// converted buffers are read as interleaved I/Q pairs for the spectrum.
type Monitor struct {
	IQ       bool
	Spectrum *Spectrum

	buffers atomic.Uint64
	samples atomic.Uint64
	octets  atomic.Uint64

	mu    sync.RWMutex
	level Level

	scratch []complex128
}

func NewMonitor(iq bool, spectrum *Spectrum) *Monitor {
	return &Monitor{IQ: iq, Spectrum: spectrum}
}

// Raw records a packet from the raw queue. Raw packets are only counted.
func (m *Monitor) Raw(buf []byte) {
	m.buffers.Add(1)
	m.octets.Add(uint64(len(buf)))
}

func (m *Monitor) Int16(buf []int16) {
	m.record(len(buf), len(buf)*2)
	var sum, sq, peak float64
	for _, v := range buf {
		x := float64(v) / 32768
		sum += x
		sq += x * x
		peak = max(peak, math.Abs(x))
	}
	m.setLevel(sum, sq, peak, len(buf))

	if m.Spectrum != nil {
		m.feed(len(buf), func(i int) float64 { return float64(buf[i]) / 32768 })
	}
}

func (m *Monitor) Float(buf []float32) {
	m.record(len(buf), len(buf)*4)
	var sum, sq, peak float64
	for _, v := range buf {
		x := float64(v)
		sum += x
		sq += x * x
		peak = max(peak, math.Abs(x))
	}
	m.setLevel(sum, sq, peak, len(buf))

	if m.Spectrum != nil {
		m.feed(len(buf), func(i int) float64 { return float64(buf[i]) })
	}
}

func (m *Monitor) record(samples, octets int) {
	m.buffers.Add(1)
	m.samples.Add(uint64(samples))
	m.octets.Add(uint64(octets))
}

func (m *Monitor) setLevel(sum, sq, peak float64, n int) {
	if n == 0 {
		return
	}
	l := Level{
		Mean: sum / float64(n),
		RMS:  math.Sqrt(sq / float64(n)),
		Peak: peak,
	}
	m.mu.Lock()
	m.level = l
	m.mu.Unlock()
}

func (m *Monitor) feed(n int, at func(int) float64) {
	size := m.Spectrum.Size
	if m.IQ {
		n /= 2
	}
	if n < size {
		log.Debugf("[consumer] buffer of %d samples is shorter than the %d point spectrum", n, size)
		return
	}
	if len(m.scratch) != size {
		m.scratch = make([]complex128, size)
	}
	for i := range m.scratch {
		if m.IQ {
			m.scratch[i] = complex(at(2*i), at(2*i+1))
		} else {
			m.scratch[i] = complex(at(i), 0)
		}
	}
	m.Spectrum.Feed(m.scratch)
}

func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	l := m.level
	m.mu.RUnlock()
	return Stats{
		Buffers: m.buffers.Load(),
		Samples: m.samples.Load(),
		Octets:  m.octets.Load(),
		Level:   l,
	}
}
