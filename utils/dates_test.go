package utils

import (
	"testing"
	"time"
)

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"  ", "", false},
		{"2024-06-01", "2024-06-01", false},
		{"2024-06-01T15:04:05Z", "2024-06-01", false},
		{"2024-06-01T08:30", "2024-06-01", false},
		{"2024-06-01 08:30:00", "2024-06-01", false},
		{"2024/06/01", "2024-06-01", false},
		{"01/06/2024", "", true},
		{"2024-02-30", "", true},
		{"tomorrow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CanonicalDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanonicalDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CanonicalDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(start, end); got != 1 {
		t.Errorf("DaysBetween = %d, want 1", got)
	}
	if got := FormatDate(end); got != "2024-06-01" {
		t.Errorf("FormatDate = %q", got)
	}
}
