package webterm_test

import (
	"slices"
	"testing"

	"fortio.org/webterm"
)

func TestHistoryBounded(t *testing.T) {
	h := webterm.NewHistory(4)
	for _, c := range []string{"a", "b", "c"} {
		h.Add(c)
	}
	if h.Len() != 3 || h.String() != "abc" {
		t.Errorf("history = %q (%d)", h.String(), h.Len())
	}
	for _, c := range []string{"d", "e", "é"} {
		h.Add(c)
	}
	if !slices.Equal(h.Entries(), []string{"c", "d", "e", "é"}) || h.Len() != h.Cap() {
		t.Errorf("history = %q", h.Entries())
	}
	h.Reset()
	if h.Len() != 0 || h.String() != "" {
		t.Errorf("after reset %q", h.String())
	}
	h.Add("z")
	if h.String() != "z" {
		t.Errorf("after reset and add %q", h.String())
	}
}

func TestHistoryDisabled(t *testing.T) {
	if h := webterm.NewHistory(0); h != nil {
		t.Errorf("NewHistory(0) = %v, want nil", h)
	}
}
