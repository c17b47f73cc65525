package format

import "github.com/arnodel/jsonrepair/token"

// A Colorizer surrounds scalars with terminal escape codes.  A nil
// *Colorizer prints scalars as they are.
type Colorizer struct {
	KeyColorCode     []byte
	ScalarColorCodes [4][]byte
	ResetCode        []byte
}

func (c *Colorizer) ScalarColorCode(scalar *token.Scalar) []byte {
	if scalar.IsKey() {
		return c.KeyColorCode
	}
	return c.ScalarColorCodes[scalar.Type()]
}

func (c *Colorizer) PrintScalar(p Printer, scalar *token.Scalar) {
	if c != nil {
		p.PrintBytes(c.ScalarColorCode(scalar))
	}
	p.PrintBytes(scalar.Bytes)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

// Some ANSI color codes
var (
	Reset = []byte("\033[0m")

	Yellow     = []byte("\033[33m")
	White      = []byte("\033[37m")
	Green      = []byte("\033[32m")
	DimWhite   = []byte("\033[37;2m")
	BrightBlue = []byte("\033[34;1m")
)

// DefaultColorizer colors keys bright blue, strings green, numbers white and
// booleans yellow.
var DefaultColorizer = Colorizer{
	ScalarColorCodes: [4][]byte{DimWhite, Yellow, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}
