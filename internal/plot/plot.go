// Package plot renders insertion and return loss charts with IEEE 370
// FER mask lines.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/trace"
)

// Mask levels from the IEEE 370 fixture electrical requirements.
const (
	FER1InsertionLossDB = -15.0
	FER2ReturnLossDB    = -10.0
)

// floorDB replaces -Inf for zero-valued traces so the axis range stays finite.
const floorDB = -200.0

// ErrPorts is returned for networks that are neither 2-ports nor 4-ports.
var ErrPorts = errors.New("plot: only 2-port and 4-port networks are supported")

// Config sets the size of each panel and the pairing used for 4-ports.
type Config struct {
	Width  int
	Height int
	Order  mixedmode.Order
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 800x480 panels with side-by-side pairing.
func DefaultConfig() Config {
	return Config{Width: 800, Height: 480, Order: mixedmode.OrderSides}
}

// WithSize sets the pixel size of one panel.
func WithSize(width, height int) Option {
	return func(cfg *Config) {
		if width > 0 && height > 0 {
			cfg.Width, cfg.Height = width, height
		}
	}
}

// WithOrder sets the port pairing used to derive SDD parameters.
func WithOrder(order mixedmode.Order) Option {
	return func(cfg *Config) { cfg.Order = order }
}

// InsertionReturn renders n as one PNG with two panels: insertion loss
// with the FER1 mask and return loss with the FER2 mask. 4-ports are shown
// as differential SDD21 and SDD11.
func InsertionReturn(n network.Network, title string, opts ...Option) ([]byte, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	label := "S"
	switch n.Ports() {
	case 2:
	case 4:
		mm, err := mixedmode.ToMixedMode(n, cfg.Order)
		if err != nil {
			return nil, err
		}
		if n, err = mixedmode.SDD(mm); err != nil {
			return nil, err
		}
		label = "SDD"
	default:
		return nil, fmt.Errorf("%w: got %d", ErrPorts, n.Ports())
	}

	mhz := n.Freq.Hz()
	for i := range mhz {
		mhz[i] /= 1e6
	}

	il, err := panel(cfg, title+" "+label+"21", label+"21", mhz, n.At(1, 0), FER1InsertionLossDB, "FER1")
	if err != nil {
		return nil, err
	}
	rl, err := panel(cfg, title+" "+label+"11", label+"11", mhz, n.At(0, 0), FER2ReturnLossDB, "FER2")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sideBySide(il, rl)); err != nil {
		return nil, fmt.Errorf("plot: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders n and writes the PNG to path.
func WriteFile(path string, n network.Network, title string, opts ...Option) error {
	data, err := InsertionReturn(n, title, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func panel(cfg Config, title, name string, mhz []float64, tr []complex128, mask float64, maskName string) (image.Image, error) {
	db := trace.DB(tr)
	for i, v := range db {
		if math.IsInf(v, -1) || v < floorDB {
			db[i] = floorDB
		}
	}

	maskX := []float64{mhz[0], mhz[len(mhz)-1]}
	if maskX[0] == maskX[1] {
		maskX[1] = maskX[0] + 1
	}

	ch := chart.Chart{
		Title:      title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Frequency (MHz)"},
		YAxis:      chart.YAxis{Name: "dB"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: mhz,
				YValues: db,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    maskName,
				XValues: maskX,
				YValues: []float64{mask, mask},
				Style: chart.Style{
					StrokeColor:     chart.ColorRed,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{6, 4},
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("plot: render %s: %w", name, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("plot: decode %s: %w", name, err)
	}
	return img, nil
}

func sideBySide(left, right image.Image) image.Image {
	lb, rb := left.Bounds(), right.Bounds()
	h := max(lb.Dy(), rb.Dy())
	out := image.NewRGBA(image.Rect(0, 0, lb.Dx()+rb.Dx(), h))
	draw.Draw(out, image.Rect(0, 0, lb.Dx(), lb.Dy()), left, lb.Min, draw.Src)
	draw.Draw(out, image.Rect(lb.Dx(), 0, lb.Dx()+rb.Dx(), rb.Dy()), right, rb.Min, draw.Src)
	return out
}
