package tdr

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rf/internal/fftutil"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/trace"
)

// Errors returned by time-domain analysis.
var (
	ErrEmptyTrace = errors.New("tdr: trace is empty")
	ErrGrid       = errors.New("tdr: frequency grid must be f_k = k·Δf without a DC point")
	ErrPorts      = errors.New("tdr: only 1-port and 2-port networks are supported")
)

// onsetRatio is the fraction of the impulse peak that marks the arrival.
const onsetRatio = 0.1

// Response is a real time-domain waveform. Time runs from -m·dt to
// (m-1)·dt for a spectrum of m points; index m is t = 0.
type Response struct {
	Time   []float64
	Values []float64
}

// zero returns the index of t = 0.
func (r Response) zero() int { return len(r.Values) / 2 }

// Metrics holds the time-domain summary of a network.
type Metrics struct {
	Delay        float64 // time of the S21 impulse peak in seconds
	Onset        float64 // first time the S21 impulse reaches 10 % of its peak
	MinImpedance float64 // port 1 TDR impedance extremes up to the round trip
	MaxImpedance float64
	PeakIndex    int // index of the S21 impulse peak in the Response
}

// Analyzer derives impulse, step and impedance responses from S-parameter
// traces sampled on a harmonic grid.
type Analyzer struct {
	// Z0 is the reference for impedance profiles. Zero uses the port-1
	// reference of the analysed network.
	Z0 float64
	// Window applies a half Hann taper to the spectrum to suppress
	// truncation ringing.
	Window bool
}

// NewAnalyzer returns an analyzer with the taper enabled.
func NewAnalyzer(z0 float64) *Analyzer {
	return &Analyzer{Z0: z0, Window: true}
}

// Impulse returns the impulse response of trace tr on freq.
func (a *Analyzer) Impulse(freq frequency.Frequency, tr []complex128) (Response, error) {
	if len(tr) == 0 {
		return Response{}, ErrEmptyTrace
	}
	if len(tr) != freq.Len() {
		return Response{}, fmt.Errorf("tdr: %d samples on a %d point grid", len(tr), freq.Len())
	}
	df, err := harmonicStep(freq)
	if err != nil {
		return Response{}, err
	}

	m := len(tr)
	half := make([]complex128, m+1)
	half[0] = complex(trace.DCValue(tr), 0)
	copy(half[1:], tr)
	if a.Window {
		for k := range half {
			half[k] *= complex(0.5*(1+math.Cos(math.Pi*float64(k)/float64(m))), 0)
		}
	}

	h, err := fftutil.IRFFT(half)
	if err != nil {
		return Response{}, err
	}
	h = fftutil.FFTShift(h)

	dt := 1 / (2 * float64(m) * df)
	t := make([]float64, len(h))
	for i := range t {
		t[i] = float64(i-m) * dt
	}
	return Response{Time: t, Values: h}, nil
}

// Step returns the step response, the running sum of the impulse
// response.
func (a *Analyzer) Step(freq frequency.Frequency, tr []complex128) (Response, error) {
	r, err := a.Impulse(freq, tr)
	if err != nil {
		return Response{}, err
	}
	r.Values = fftutil.CumSum(r.Values)
	return r, nil
}

// Impedance converts the step response of a reflection trace into an
// impedance profile z0·(1+ρ)/(1-ρ).
func (a *Analyzer) Impedance(freq frequency.Frequency, s11 []complex128, z0 float64) (Response, error) {
	r, err := a.Step(freq, s11)
	if err != nil {
		return Response{}, err
	}
	for i, rho := range r.Values {
		if rho >= 1 {
			r.Values[i] = math.Inf(1)
			continue
		}
		r.Values[i] = z0 * (1 + rho) / (1 - rho)
	}
	return r, nil
}

// Analyze summarises a 1-port or 2-port. For 2-ports the impedance
// extremes are taken between t = 0 and the round trip 2·Delay.
func (a *Analyzer) Analyze(n network.Network) (Metrics, error) {
	if p := n.Ports(); p != 1 && p != 2 {
		return Metrics{}, fmt.Errorf("%w: got %d", ErrPorts, p)
	}
	z0 := a.Z0
	if z0 <= 0 {
		z0 = n.Z0[0]
	}
	n, err := n.Renormalize(z0)
	if err != nil {
		return Metrics{}, err
	}

	z, err := a.Impedance(n.Freq, n.At(0, 0), z0)
	if err != nil {
		return Metrics{}, err
	}
	start := z.zero()
	end := len(z.Values) - 1

	var m Metrics
	if n.Ports() == 2 {
		h, err := a.Impulse(n.Freq, n.At(1, 0))
		if err != nil {
			return Metrics{}, err
		}
		m.PeakIndex = findPeak(h.Values[start:]) + start
		m.Delay = h.Time[m.PeakIndex]
		m.Onset = h.Time[start+findOnset(h.Values[start:], onsetRatio)]
		end = min(end, start+2*(m.PeakIndex-start))
	}

	m.MinImpedance, m.MaxImpedance = math.Inf(1), math.Inf(-1)
	for _, v := range z.Values[start : end+1] {
		m.MinImpedance = math.Min(m.MinImpedance, v)
		m.MaxImpedance = math.Max(m.MaxImpedance, v)
	}
	return m, nil
}

// harmonicStep returns Δf when every point is a multiple k·Δf, k = 1..m.
func harmonicStep(freq frequency.Frequency) (float64, error) {
	m := freq.Len()
	df := freq.Stop() / float64(m)
	if df <= 0 {
		return 0, ErrGrid
	}
	for k := range m {
		if math.Abs(freq.At(k)-float64(k+1)*df) > 1e-6*df {
			return 0, fmt.Errorf("%w: point %d is %g Hz", ErrGrid, k, freq.At(k))
		}
	}
	return df, nil
}

// findOnset returns the first index whose magnitude reaches ratio times
// the peak magnitude.
func findOnset(h []float64, ratio float64) int {
	peak := 0.0
	for _, v := range h {
		peak = math.Max(peak, math.Abs(v))
	}
	threshold := peak * ratio
	for i, v := range h {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}

func findPeak(h []float64) int {
	idx, best := 0, 0.0
	for i, v := range h {
		if av := math.Abs(v); av > best {
			idx, best = i, av
		}
	}
	return idx
}
