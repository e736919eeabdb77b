package ai

import (
	"testing"

	"github.com/asseto/trackgo/internal/models"
)

func TestParsePriority(t *testing.T) {
	cases := []struct {
		answer string
		want   models.RMAPriority
	}{
		{"high", models.RMAPriorityHigh},
		{"  Medium \n", models.RMAPriorityMedium},
		{"CRITICAL", models.RMAPriorityCritical},
		{"low.", models.RMAPriorityLow},
		{"\"high\"", models.RMAPriorityHigh},
	}
	for _, tc := range cases {
		got, err := parsePriority(tc.answer)
		if err != nil {
			t.Errorf("parsePriority(%q) failed: %v", tc.answer, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePriority(%q) = %q, want %q", tc.answer, got, tc.want)
		}
	}

	for _, bad := range []string{"", "urgent", "the priority is high"} {
		if _, err := parsePriority(bad); err == nil {
			t.Errorf("parsePriority(%q) should fail", bad)
		}
	}
}
