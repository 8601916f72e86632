package consumer

import (
	"math"
	"sync"

	"github.com/racerxdl/segdsp/tools"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum keeps a power spectrum in dB of the most recent block it was fed.
// Only one FFT runs at a time; blocks arriving while it works are skipped.
type Spectrum struct {
	Size int
	Bins int

	fft *fourier.CmplxFFT

	mu      sync.RWMutex
	working bool
	current []float64
}

func NewSpectrum(size, bins int) *Spectrum {
	if bins > size {
		bins = size
	}
	return &Spectrum{
		Size: size,
		Bins: bins,
		fft:  fourier.NewCmplxFFT(size),
	}
}

// Feed copies up to Size samples and starts an FFT in the background unless
// one is already running. The caller keeps ownership of samples.
func (s *Spectrum) Feed(samples []complex128) bool {
	if len(samples) < s.Size {
		return false
	}
	s.mu.Lock()
	if s.working {
		s.mu.Unlock()
		return false
	}
	s.working = true
	s.mu.Unlock()

	input := make([]complex128, s.Size)
	copy(input, samples)
	go func() {
		out := s.compute(input)
		s.mu.Lock()
		s.current = out
		s.working = false
		s.mu.Unlock()
	}()
	return true
}

// compute returns Bins values, DC in the middle, each the mean power of
// Size/Bins adjacent FFT bins.
func (s *Spectrum) compute(input []complex128) []float64 {
	coeff := s.fft.Coefficients(nil, input)
	group := s.Size / s.Bins
	norm := 1.0 / float64(s.Size) / float64(s.Size)

	out := make([]float64, s.Bins)
	for b := range out {
		var sum float64
		for k := b * group; k < (b+1)*group; k++ {
			v := tools.ComplexAbsSquared(complex64(coeff[s.fft.ShiftIdx(k)]))
			sum += float64(v)
		}
		p := sum / float64(group) * norm
		if p < 1e-20 {
			p = 1e-20
		}
		out[b] = 10 * math.Log10(p)
	}
	return out
}

// Current returns the last finished spectrum, or nil.
func (s *Spectrum) Current() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
