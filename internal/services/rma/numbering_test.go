package rma

import (
	"regexp"
	"testing"
)

func TestFormatRMANumber(t *testing.T) {
	cases := []struct {
		period string
		seq    int64
		want   string
	}{
		{"202608", 1, "RMA-202608-0001"},
		{"202612", 42, "RMA-202612-0042"},
		{"202701", 9999, "RMA-202701-9999"},
		{"202701", 10000, "RMA-202701-10000"},
	}
	for _, tc := range cases {
		if got := FormatRMANumber(tc.period, tc.seq); got != tc.want {
			t.Errorf("FormatRMANumber(%q, %d) = %q, want %q", tc.period, tc.seq, got, tc.want)
		}
	}

	pattern := regexp.MustCompile(`^RMA-\d{6}-\d{4}$`)
	if !pattern.MatchString(FormatRMANumber("202608", 7)) {
		t.Error("Formatted number does not match the published pattern")
	}
}
