package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat decodes JSON numbers, numeric strings, null, and anything else
// (which becomes 0). Client payloads are not trusted to send clean numbers.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

var _ json.Unmarshaler = (*FlexFloat)(nil)
