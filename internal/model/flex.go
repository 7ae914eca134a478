package model

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Lenient JSON scalars. Both the property dataset and LLM output mix numbers and
// strings for the same field, so these types decode either form instead of failing
// the whole record.

var leadingDigits = regexp.MustCompile(`\d+`)

// FlexString decodes a JSON string, number or bool into a string.
// null, objects and arrays leave it empty.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		*f = ""
		return nil
	}
	// numbers and bools keep their literal text
	*f = FlexString(string(data))
	return nil
}

// String returns the decoded value
func (f FlexString) String() string {
	return string(f)
}

// FlexFloat decodes a number or a formatted price string ("₹1,20,00,000", "$450,000").
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(ParsePrice(s))
	return nil
}

// ParsePrice strips currency markers and separators and parses what is left.
// Unparseable text yields 0.
func ParsePrice(s string) float64 {
	r := strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", "$", "", " ", "")
	v, err := strconv.ParseFloat(r.Replace(strings.TrimSpace(s)), 64)
	if err != nil {
		return 0
	}
	return v
}

// FlexInt decodes a number or the first run of digits in a string ("3 BHK").
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(ParseCount(s))
	return nil
}

// ParseCount returns the first integer found in s, or 0.
func ParseCount(s string) int {
	m := leadingDigits.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}

// FlexBool decodes true/false as well as "yes"/"no" style strings.
// Anything else leaves the value unset.
type FlexBool struct {
	Value bool
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	*f = FlexBool{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool{Value: b, Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y":
		*f = FlexBool{Value: true, Set: true}
	case "false", "no", "n":
		*f = FlexBool{Value: false, Set: true}
	}
	return nil
}

// MarshalJSON writes the bool, or null when unset
func (f FlexBool) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// FlexStrings decodes a JSON array of scalars, or a single comma-separated string.
// Blank entries are dropped.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	*f = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var items []FlexString
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
	} else {
		var s FlexString
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s.String(), ",") {
			items = append(items, FlexString(part))
		}
	}

	for _, item := range items {
		if v := strings.TrimSpace(item.String()); v != "" {
			*f = append(*f, v)
		}
	}
	return nil
}
