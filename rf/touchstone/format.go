package touchstone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-rf/rf/core"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

// Errors returned by the codec.
var (
	ErrSyntax               = errors.New("touchstone: syntax error")
	ErrFormat               = errors.New("touchstone: unknown data format")
	ErrUnsupportedParameter = errors.New("touchstone: unsupported parameter type")
	ErrPortCount            = errors.New("touchstone: invalid port count")
)

// Format is the numeric representation of complex values.
type Format int

const (
	// RI is real and imaginary part.
	RI Format = iota
	// MA is linear magnitude and angle in degrees.
	MA
	// DB is 20·log10 magnitude and angle in degrees.
	DB
)

// String returns the option-line spelling.
func (f Format) String() string {
	switch f {
	case RI:
		return "RI"
	case MA:
		return "MA"
	case DB:
		return "DB"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat accepts "ri", "ma" or "db" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RI":
		return RI, nil
	case "MA":
		return MA, nil
	case "DB":
		return DB, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

func (f Format) decode(a, b float64) complex128 {
	switch f {
	case MA:
		return core.FromPolar(a, b)
	case DB:
		return core.FromDB(a, b)
	default:
		return complex(a, b)
	}
}

func (f Format) encode(z complex128) (a, b float64) {
	switch f {
	case MA:
		return core.ToPolar(z)
	case DB:
		return core.ToDB(z)
	default:
		return real(z), imag(z)
	}
}

// Parameter is the network parameter type named on the option line.
type Parameter byte

// Parameter types. Only S, Y and Z can be read.
const (
	ParamS Parameter = 'S'
	ParamY Parameter = 'Y'
	ParamZ Parameter = 'Z'
	ParamH Parameter = 'H'
	ParamG Parameter = 'G'
)

// options is the content of a "# <unit> <param> <format> R <z0>" line.
type options struct {
	unit   frequency.Unit
	param  Parameter
	format Format
	r      float64
}

func defaultOptions() options {
	return options{unit: frequency.GHz, param: ParamS, format: MA, r: 50}
}

func parseOptionLine(line string) (options, error) {
	opt := defaultOptions()
	fields := strings.Fields(strings.TrimPrefix(line, "#"))
	for i := 0; i < len(fields); i++ {
		tok := strings.ToUpper(fields[i])
		switch tok {
		case "HZ", "KHZ", "MHZ", "GHZ", "THZ":
			u, err := frequency.ParseUnit(tok)
			if err != nil {
				return options{}, err
			}
			opt.unit = u
		case "S", "Y", "Z", "H", "G":
			opt.param = Parameter(tok[0])
		case "RI", "MA", "DB":
			opt.format, _ = ParseFormat(tok)
		case "R":
			if i+1 >= len(fields) {
				return options{}, fmt.Errorf("missing reference resistance after R")
			}
			r, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil || !(r > 0) {
				return options{}, fmt.Errorf("invalid reference resistance %q", fields[i+1])
			}
			opt.r = r
			i++
		default:
			return options{}, fmt.Errorf("unknown option %q", fields[i])
		}
	}
	return opt, nil
}
