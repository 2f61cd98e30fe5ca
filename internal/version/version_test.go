package version

import "testing"

func TestString(t *testing.T) {
	if got, want := String(), "artwatch dev (commit unknown, built unknown)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
