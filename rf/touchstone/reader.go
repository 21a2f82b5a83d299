package touchstone

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

type matrixFormat int

const (
	matrixFull matrixFormat = iota
	matrixLower
	matrixUpper
)

type parser struct {
	nports int
	line   int

	comments   []string
	opt        options
	seenOption bool

	v2        bool
	order1221 bool
	nfreq     int
	matrix    matrixFormat
	reference []float64
	refOpen   bool
	inData    bool
	inInfo    bool
	done      bool

	cur    []float64
	points [][]float64
}

// Read parses Touchstone data from r. nports is required for version 1
// files and may be 0 for version 2 files, which declare their port count.
func Read(r io.Reader, nports int) (network.Network, error) {
	p := &parser{nports: nports, opt: defaultOptions()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() && !p.done {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return network.Network{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return network.Network{}, fmt.Errorf("touchstone: read: %w", err)
	}
	return p.build()
}

// ReadFile reads a .sNp or .ts file. The network is named after the file
// stem.
func ReadFile(path string) (network.Network, error) {
	nports, err := PortsFromPath(path)
	if err != nil && !strings.EqualFold(filepath.Ext(path), ".ts") {
		return network.Network{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return network.Network{}, err
	}
	defer f.Close()

	n, err := Read(f, nports)
	if err != nil {
		return network.Network{}, fmt.Errorf("%s: %w", path, err)
	}
	n.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return n, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) parseLine(raw string) error {
	text := raw
	comment := ""
	if i := strings.IndexByte(text, '!'); i >= 0 {
		comment = strings.TrimSpace(text[i+1:])
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		if comment != "" && !p.seenOption {
			p.comments = append(p.comments, comment)
		}
		return nil
	}

	if p.inInfo {
		if strings.EqualFold(text, "[End Information]") {
			p.inInfo = false
		}
		return nil
	}

	switch {
	case strings.HasPrefix(text, "#"):
		if p.seenOption {
			return nil
		}
		opt, err := parseOptionLine(text)
		if err != nil {
			return p.errorf("%v", err)
		}
		p.opt, p.seenOption = opt, true
		return nil
	case strings.HasPrefix(text, "["):
		return p.parseKeyword(text)
	}

	fields := strings.Fields(text)
	if p.refOpen {
		return p.appendReference(fields)
	}
	if p.v2 && !p.inData {
		return p.errorf("data before [Network Data]")
	}
	if p.nports <= 0 {
		return fmt.Errorf("%w: port count unknown", ErrPortCount)
	}
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return p.errorf("invalid number %q", tok)
		}
		p.push(v)
		if p.done {
			break
		}
	}
	return nil
}

func (p *parser) parseKeyword(text string) error {
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return p.errorf("unterminated keyword %q", text)
	}
	key := strings.ToLower(strings.TrimSpace(text[1:end]))
	arg := strings.TrimSpace(text[end+1:])

	switch key {
	case "version":
		if !strings.HasPrefix(arg, "2") {
			return p.errorf("unsupported version %q", arg)
		}
		p.v2 = true
	case "number of ports":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: line %d: %q", ErrPortCount, p.line, arg)
		}
		if p.nports > 0 && p.nports != n {
			return fmt.Errorf("%w: file declares %d ports, expected %d", ErrPortCount, n, p.nports)
		}
		p.nports = n
	case "two-port data order":
		switch arg {
		case "12_21":
			p.order1221 = true
		case "21_12":
			p.order1221 = false
		default:
			return p.errorf("invalid two-port data order %q", arg)
		}
	case "number of frequencies":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return p.errorf("invalid number of frequencies %q", arg)
		}
		p.nfreq = n
	case "reference":
		p.refOpen = true
		return p.appendReference(strings.Fields(arg))
	case "matrix format":
		switch strings.ToLower(arg) {
		case "full":
			p.matrix = matrixFull
		case "lower":
			p.matrix = matrixLower
		case "upper":
			p.matrix = matrixUpper
		default:
			return p.errorf("invalid matrix format %q", arg)
		}
	case "mixed-mode order":
		return fmt.Errorf("%w: mixed-mode data (line %d)", ErrUnsupportedParameter, p.line)
	case "network data":
		p.inData = true
	case "begin information":
		p.inInfo = true
	case "noise data", "end":
		p.done = true
	case "number of noise frequencies":
	default:
		return p.errorf("unknown keyword [%s]", text[1:end])
	}
	return nil
}

func (p *parser) appendReference(fields []string) error {
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || !(v > 0) {
			return p.errorf("invalid reference impedance %q", tok)
		}
		p.reference = append(p.reference, v)
	}
	if p.nports <= 0 || len(p.reference) >= p.nports {
		p.refOpen = false
	}
	return nil
}

func (p *parser) perPoint() int {
	n := p.nports
	if p.matrix != matrixFull {
		return 1 + n*(n+1)
	}
	return 1 + 2*n*n
}

func (p *parser) push(v float64) {
	if len(p.cur) == 0 && len(p.points) > 0 {
		// Version 1 two-port files append noise parameters after the
		// network data; they start with a frequency at or below the last.
		if last := p.points[len(p.points)-1][0]; v <= last && !p.v2 && p.nports == 2 {
			p.done = true
			return
		}
	}
	p.cur = append(p.cur, v)
	if len(p.cur) == p.perPoint() {
		p.points = append(p.points, p.cur)
		p.cur = nil
	}
}

func (p *parser) build() (network.Network, error) {
	if p.nports <= 0 {
		return network.Network{}, fmt.Errorf("%w: port count unknown", ErrPortCount)
	}
	if len(p.cur) != 0 {
		return network.Network{}, fmt.Errorf("%w: incomplete data point at end of file (%d of %d values)", ErrSyntax, len(p.cur), p.perPoint())
	}
	if len(p.points) == 0 {
		return network.Network{}, fmt.Errorf("%w: no network data", ErrSyntax)
	}
	if p.nfreq > 0 && p.nfreq != len(p.points) {
		return network.Network{}, fmt.Errorf("%w: [Number of Frequencies] is %d, found %d points", ErrSyntax, p.nfreq, len(p.points))
	}
	if p.opt.param == ParamH || p.opt.param == ParamG {
		return network.Network{}, fmt.Errorf("%w: %c", ErrUnsupportedParameter, p.opt.param)
	}

	n := p.nports
	mult := p.opt.unit.Multiplier()
	hz := make([]float64, len(p.points))
	mats := make([]cmat.Matrix, len(p.points))
	for k, pt := range p.points {
		hz[k] = pt[0] * mult
		mats[k] = p.matrixAt(pt[1:])
	}
	freq, err := frequency.New(hz, p.opt.unit)
	if err != nil {
		return network.Network{}, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	z0 := []float64{p.opt.r}
	if len(p.reference) > 0 {
		if len(p.reference) != n {
			return network.Network{}, fmt.Errorf("%w: [Reference] has %d values for %d ports", ErrSyntax, len(p.reference), n)
		}
		z0 = p.reference
	}

	var out network.Network
	switch p.opt.param {
	case ParamZ:
		if !p.v2 {
			scale(mats, complex(p.opt.r, 0))
		}
		out, err = network.FromZ("", freq, mats, z0...)
	case ParamY:
		if !p.v2 {
			scale(mats, complex(1/p.opt.r, 0))
		}
		out, err = network.FromY("", freq, mats, z0...)
	default:
		out, err = network.New("", freq, mats, z0...)
	}
	if err != nil {
		return network.Network{}, err
	}
	out.Comments = p.comments
	return out, nil
}

func scale(mats []cmat.Matrix, s complex128) {
	for i, m := range mats {
		mats[i] = m.Scale(s)
	}
}

// matrixAt decodes the value pairs of one frequency point.
func (p *parser) matrixAt(v []float64) cmat.Matrix {
	n := p.nports
	m := cmat.New(n, n)
	val := func(k int) complex128 { return p.opt.format.decode(v[2*k], v[2*k+1]) }

	switch {
	case p.matrix == matrixLower:
		k := 0
		for i := range n {
			for j := 0; j <= i; j++ {
				m.Set(i, j, val(k))
				m.Set(j, i, val(k))
				k++
			}
		}
	case p.matrix == matrixUpper:
		k := 0
		for i := range n {
			for j := i; j < n; j++ {
				m.Set(i, j, val(k))
				m.Set(j, i, val(k))
				k++
			}
		}
	case n == 2 && !p.order1221:
		m.Set(0, 0, val(0))
		m.Set(1, 0, val(1))
		m.Set(0, 1, val(2))
		m.Set(1, 1, val(3))
	default:
		for i := range n {
			for j := range n {
				m.Set(i, j, val(i*n+j))
			}
		}
	}
	return m
}
