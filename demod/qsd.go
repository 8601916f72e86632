package demod

// Half-band Hilbert kernel with the zero taps removed, scaled by 2^15.
var hbKernelInt16 = [...]int32{
	-33, 56, -100, 166, -259, 389, -571, 829, -1220, 1885, -3353, 10389,
	10389, -3353, 1885, -1220, 829, -571, 389, -259, 166, -100, 56, -33,
}

var hbKernelFloat = [...]float32{
	-0.000998606272947510, 0.001695637278417295, -0.003054430179754289, 0.005055504379767936,
	-0.007901319195893647, 0.011873357051047719, -0.017411159379930066, 0.025304817427568772,
	-0.037225225204559217, 0.057533286997004301, -0.102327462004259350, 0.317034472508947400,
	0.317034472508947400, -0.102327462004259350, 0.057533286997004301, -0.037225225204559217,
	0.025304817427568772, -0.017411159379930066, 0.011873357051047719, -0.007901319195893647,
	0.005055504379767936, -0.003054430179754289, 0.001695637278417295, -0.000998606272947510,
}

const (
	hbTaps = len(hbKernelInt16)
	// The FIR history is this many kernels long so the tail copy happens
	// once every (historyFactor-1)*hbTaps samples.
	historyFactor = 16
	delayLen      = hbTaps / 2

	dcPole  = 32100
	dcShift = 15

	dcScale = float32(0.01)
	hbc     = float32(0.5)
)

// Int16QSD turns a real 4x oversampled int16 stream into interleaved I/Q. The
// filter state carries across calls to Process.
type Int16QSD struct {
	firQueue   [hbTaps * historyFactor]int32
	firIndex   int
	delayLine  [delayLen]int16
	delayIndex int

	oldX int16
	oldY int16
	oldE int32
}

func NewInt16QSD() *Int16QSD {
	return &Int16QSD{}
}

// Process runs DC removal, Fs/4 translation, the Hilbert filter on I and the
// matching delay on Q. len(samples) must be a multiple of 4.
func (q *Int16QSD) Process(samples []int16) {
	q.removeDC(samples)
	q.translateFs4(samples)
	q.firInterleaved(samples)
	q.delayInterleaved(samples)
}

func (q *Int16QSD) removeDC(samples []int16) {
	for i, x := range samples {
		w := x - q.oldX
		u := q.oldE + int32(q.oldY)*dcPole
		s := int16(u >> dcShift)
		y := w + s
		q.oldE = u - int32(s)<<dcShift
		q.oldX = x
		q.oldY = y
		samples[i] = y
	}
}

func (q *Int16QSD) translateFs4(samples []int16) {
	for i := 0; i+3 < len(samples); i += 4 {
		samples[i] = -samples[i]
		samples[i+1] = int16(-int32(samples[i+1]) >> 1)
		samples[i+3] >>= 1
	}
}

func (q *Int16QSD) firInterleaved(samples []int16) {
	for i := 0; i < len(samples); i += 2 {
		q.firQueue[q.firIndex] = int32(samples[i])
		hist := q.firQueue[q.firIndex : q.firIndex+hbTaps]
		var acc int32
		for j, k := range hbKernelInt16 {
			acc += k * hist[j]
		}
		q.firIndex--
		if q.firIndex < 0 {
			q.firIndex = hbTaps * (historyFactor - 1)
			copy(q.firQueue[q.firIndex+1:], q.firQueue[:hbTaps-1])
		}
		samples[i] = int16(acc >> 15)
	}
}

func (q *Int16QSD) delayInterleaved(samples []int16) {
	for i := 1; i < len(samples); i += 2 {
		samples[i], q.delayLine[q.delayIndex] = q.delayLine[q.delayIndex], samples[i]
		q.delayIndex++
		if q.delayIndex >= delayLen {
			q.delayIndex = 0
		}
	}
}

// FloatQSD is the float32 counterpart of Int16QSD.
type FloatQSD struct {
	firQueue   [hbTaps * historyFactor]float32
	firIndex   int
	delayLine  [delayLen]float32
	delayIndex int

	avg float32
}

func NewFloatQSD() *FloatQSD {
	return &FloatQSD{}
}

func (q *FloatQSD) Process(samples []float32) {
	q.removeDC(samples)
	q.translateFs4(samples)
	q.firInterleaved(samples)
	q.delayInterleaved(samples)
}

func (q *FloatQSD) removeDC(samples []float32) {
	for i := range samples {
		samples[i] -= q.avg
		q.avg += float32(dcScale * samples[i])
	}
}

func (q *FloatQSD) translateFs4(samples []float32) {
	for i := 0; i+3 < len(samples); i += 4 {
		samples[i] = -samples[i]
		samples[i+1] = float32(-samples[i+1] * hbc)
		samples[i+3] = float32(samples[i+3] * hbc)
	}
}

// The kernel is symmetric so each coefficient is applied to the sum of its
// mirrored history pair. Products are rounded to float32 before summing so
// results do not depend on FMA fusion.
func (q *FloatQSD) firInterleaved(samples []float32) {
	const half = hbTaps / 2
	for i := 0; i < len(samples); i += 2 {
		q.firQueue[q.firIndex] = samples[i]
		h := q.firQueue[q.firIndex : q.firIndex+hbTaps]
		k := hbKernelFloat[:half]
		var acc float32
		j := 0
		for ; j < half-4; j += 4 {
			t := float32(k[j] * (h[j] + h[hbTaps-1-j]))
			t += float32(k[j+1] * (h[j+1] + h[hbTaps-2-j]))
			t += float32(k[j+2] * (h[j+2] + h[hbTaps-3-j]))
			t += float32(k[j+3] * (h[j+3] + h[hbTaps-4-j]))
			acc += t
		}
		for ; j < half; j++ {
			acc += float32(k[j] * (h[j] + h[hbTaps-1-j]))
		}
		q.firIndex--
		if q.firIndex < 0 {
			q.firIndex = hbTaps * (historyFactor - 1)
			copy(q.firQueue[q.firIndex+1:], q.firQueue[:hbTaps-1])
		}
		samples[i] = acc
	}
}

func (q *FloatQSD) delayInterleaved(samples []float32) {
	for i := 1; i < len(samples); i += 2 {
		samples[i], q.delayLine[q.delayIndex] = q.delayLine[q.delayIndex], samples[i]
		q.delayIndex++
		if q.delayIndex >= delayLen {
			q.delayIndex = 0
		}
	}
}
