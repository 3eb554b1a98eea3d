package utils

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// groupedNumber matches numbers written with comma thousands separators,
// e.g. "1,200" or "12,500.50".
var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseAmount reads a number from form input. Commas are accepted only as
// thousands separators. Anything that does not parse as a finite number
// becomes 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		if !groupedNumber.MatchString(s) {
			return 0
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FlexString accepts either a JSON string or a bare JSON value (number,
// boolean) and keeps its text. It never fails to decode, so malformed numeric
// input reaches ParseAmount instead of rejecting the whole request.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(raw)
	return nil
}

func (f FlexString) String() string { return string(f) }
