package dto

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number decodes from a JSON number or a numeric string. HTML form inputs post
// numbers as strings, so both shapes are accepted.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%q is not a number", string(data))
	}
	*n = Number(f)
	return nil
}

// Float returns the value as float64; a nil Number is zero.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setNumber(dst *float64, src *Number) {
	if src != nil {
		*dst = src.Float()
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
