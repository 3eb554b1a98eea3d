package utils

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"12", 12},
		{" 2.5 ", 2.5},
		{"1,200", 1200},
		{"1,234,567.5", 1234567.5},
		{"-1,200", -1200},
		{"2,5", 0},
		{"12,00", 0},
		{"1,2000", 0},
		{"-40", -40},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e3", 1000},
	}
	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	var body struct {
		Quantity FlexString `json:"quantity"`
		Price    FlexString `json:"price"`
		Paid     FlexString `json:"paid"`
		Notes    FlexString `json:"notes"`
	}
	raw := `{"quantity": 2, "price": "2500", "paid": null, "notes": true}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Quantity != "2" || body.Price != "2500" || body.Paid != "" || body.Notes != "true" {
		t.Errorf("decoded = %+v", body)
	}
	if ParseAmount(body.Notes.String()) != 0 {
		t.Error("non-numeric flex value should parse as 0")
	}
}
