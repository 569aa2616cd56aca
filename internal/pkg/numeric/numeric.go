package numeric

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidNumber is returned by Input.Parse when the text is not a finite number.
var ErrInvalidNumber = errors.New("invalid numeric input")

// Input is a numeric form field kept as the text the user typed.
// An empty or unparsable Input counts as zero wherever a number is needed.
type Input string

// FromInt builds an Input from an integer value.
func FromInt(v int64) Input {
	return Input(decimal.NewFromInt(v).String())
}

// FromDecimal builds an Input from a decimal value.
func FromDecimal(d decimal.Decimal) Input {
	return Input(d.String())
}

// Parse converts the text to a decimal. Surrounding whitespace is ignored and
// blank text parses as zero.
func (n Input) Parse() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}

// Decimal returns the parsed value, or zero when the text does not parse.
func (n Input) Decimal() decimal.Decimal {
	d, err := n.Parse()
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IsZero reports whether the value coerces to zero.
func (n Input) IsZero() bool {
	return n.Decimal().IsZero()
}

// IsBlank reports whether no text was entered. "0" is not blank.
func (n Input) IsBlank() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Valid reports whether the text is blank or a number.
func (n Input) Valid() bool {
	_, err := n.Parse()
	return err == nil
}

// UnmarshalJSON accepts a JSON number, a JSON string or null. Any other JSON
// value is kept as empty text.
func (n *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*n = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Input(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*n = Input(data)
	default:
		*n = ""
	}
	return nil
}

// MarshalJSON writes the raw text as a JSON string.
func (n Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// UnmarshalYAML keeps the scalar text of the node regardless of its tag.
func (n *Input) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = Input(value.Value)
	return nil
}
