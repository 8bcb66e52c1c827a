package dto

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Count is an integer figure coming from an untyped form. It accepts JSON
// numbers, numeric strings and null. Missing or malformed input decodes to an
// unset zero value instead of failing the request.
type Count struct {
	value int64
	set   bool
}

func NewCount(v int64) Count {
	return Count{value: v, set: true}
}

func (c Count) Int64() int64 {
	return c.value
}

func (c Count) IsSet() bool {
	return c.set
}

// Ptr returns nil for unset values, used for optional counters.
func (c Count) Ptr() *int64 {
	if !c.set {
		return nil
	}
	v := c.value
	return &v
}

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}

	d, ok := parseDecimal(data)
	if !ok {
		return nil
	}

	*c = Count{value: d.IntPart(), set: true}
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.value, 10)), nil
}

// Rate is a percentage coming from an untyped form, same decoding rules as Count.
type Rate struct {
	value decimal.Decimal
	set   bool
}

func NewRate(v float64) Rate {
	return Rate{value: decimal.NewFromFloat(v), set: true}
}

func (r Rate) Decimal() decimal.Decimal {
	return r.value
}

func (r Rate) Float64() float64 {
	return r.value.InexactFloat64()
}

func (r Rate) IsSet() bool {
	return r.set
}

func (r Rate) Null() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: r.value, Valid: r.set}
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	*r = Rate{}

	d, ok := parseDecimal(data)
	if !ok {
		return nil
	}

	*r = Rate{value: d, set: true}
	return nil
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return []byte(r.value.String()), nil
}

// Flag is a boolean that also accepts "true"/"1"/"yes" style strings.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw, quoted := unquote(data)
	if raw == "" || raw == "null" && !quoted {
		*f = false
		return nil
	}

	v, err := cast.ToBoolE(strings.ToLower(raw))
	if err != nil {
		switch strings.ToLower(raw) {
		case "yes", "y", "on":
			v = true
		default:
			v = false
		}
	}
	*f = Flag(v)
	return nil
}

func parseDecimal(data []byte) (decimal.Decimal, bool) {
	raw, quoted := unquote(data)
	if raw == "" || raw == "null" && !quoted {
		return decimal.Zero, false
	}

	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, "\u00a0", "")
	raw = strings.ReplaceAll(raw, ",", ".")

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func unquote(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return "", true
		}
		return strings.TrimSpace(s), true
	}
	return string(data), false
}
