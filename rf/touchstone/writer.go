package touchstone

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

// pairsPerLine bounds the value pairs written on one line for networks
// with more than two ports.
const pairsPerLine = 4

// WriteConfig controls the text layout produced by [Write].
type WriteConfig struct {
	Format   Format
	Unit     frequency.Unit
	Comments []string
	// Version2 forces a version 2.0 file. It is implied when the ports have
	// different reference impedances.
	Version2 bool
}

// WriteOption mutates a WriteConfig.
type WriteOption func(*WriteConfig)

// DefaultWriteConfig writes RI data with frequencies in Hz.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{Format: RI, Unit: frequency.Hz}
}

// ApplyWriteOptions applies opts on top of the defaults.
func ApplyWriteOptions(opts ...WriteOption) WriteConfig {
	cfg := DefaultWriteConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithFormat selects RI, MA or DB output.
func WithFormat(f Format) WriteOption {
	return func(cfg *WriteConfig) { cfg.Format = f }
}

// WithUnit selects the frequency unit of the option line.
func WithUnit(u frequency.Unit) WriteOption {
	return func(cfg *WriteConfig) { cfg.Unit = u }
}

// WithComments appends header comment lines after the network's own.
func WithComments(lines ...string) WriteOption {
	return func(cfg *WriteConfig) { cfg.Comments = append(cfg.Comments, lines...) }
}

// WithVersion2 forces the version 2.0 keyword layout.
func WithVersion2() WriteOption {
	return func(cfg *WriteConfig) { cfg.Version2 = true }
}

// Write serialises n as Touchstone text. Two-ports are written in the
// conventional S11 S21 S12 S22 order, larger networks row by row.
func Write(w io.Writer, n network.Network, opts ...WriteOption) error {
	cfg := ApplyWriteOptions(opts...)
	nports := n.Ports()
	if nports == 0 || n.Len() == 0 {
		return fmt.Errorf("%w: empty network", ErrPortCount)
	}
	if cfg.Format < RI || cfg.Format > DB {
		return fmt.Errorf("%w: %v", ErrFormat, cfg.Format)
	}
	v2 := cfg.Version2 || !uniform(n.Z0)

	bw := bufio.NewWriter(w)
	for _, c := range append(append([]string(nil), n.Comments...), cfg.Comments...) {
		fmt.Fprintf(bw, "! %s\n", c)
	}
	if v2 {
		fmt.Fprintln(bw, "[Version] 2.0")
	}
	fmt.Fprintf(bw, "# %s S %s R %s\n", cfg.Unit, cfg.Format, formatValue(n.Z0[0]))
	if v2 {
		fmt.Fprintf(bw, "[Number of Ports] %d\n", nports)
		if nports == 2 {
			fmt.Fprintln(bw, "[Two-Port Data Order] 21_12")
		}
		fmt.Fprintf(bw, "[Number of Frequencies] %d\n", n.Len())
		ref := make([]string, nports)
		for i, z := range n.Z0 {
			ref[i] = formatValue(z)
		}
		fmt.Fprintf(bw, "[Reference] %s\n", strings.Join(ref, " "))
		fmt.Fprintln(bw, "[Network Data]")
	}

	mult := cfg.Unit.Multiplier()
	for k, s := range n.S {
		fmt.Fprint(bw, formatFrequency(n.Freq.At(k)/mult))
		if nports == 2 {
			for _, ij := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
				writePair(bw, cfg.Format, s.At(ij[0], ij[1]))
			}
			fmt.Fprintln(bw)
			continue
		}
		for i := range nports {
			for j := range nports {
				if j > 0 && j%pairsPerLine == 0 {
					fmt.Fprint(bw, "\n")
				}
				writePair(bw, cfg.Format, s.At(i, j))
			}
			fmt.Fprintln(bw)
		}
	}
	if v2 {
		fmt.Fprintln(bw, "[End]")
	}
	return bw.Flush()
}

// WriteFile writes n to path, creating or truncating the file.
func WriteFile(path string, n network.Network, opts ...WriteOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, n, opts...)
}

func writePair(w io.Writer, f Format, z complex128) {
	a, b := f.encode(z)
	fmt.Fprintf(w, " %s %s", formatValue(a), formatValue(b))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// formatFrequency avoids exponent notation so the column stays readable.
func formatFrequency(v float64) string {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func uniform(z0 []float64) bool {
	for _, z := range z0 {
		if z != z0[0] {
			return false
		}
	}
	return true
}
