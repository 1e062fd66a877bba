package term

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReporterPhasesAndDone(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Phase("stable/4.2.1", "downloading")
	r.Progress("stable/4.2.1", progressStep+1, 4*progressStep)
	r.Done("stable/4.2.1", nil)
	r.Done("stable/4.2.2", errors.New("boom"))

	got := out.String()
	for _, want := range []string{
		"stable/4.2.1: downloading",
		"stable/4.2.1: done",
		"stable/4.2.2: failed: boom",
		"(25%)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestReporterThrottlesProgress(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Progress("x", 1, 100)
	r.Progress("x", 2, 100)
	if out.Len() != 0 {
		t.Error("small increments should not be printed")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 << 20, "5.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
