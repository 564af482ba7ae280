package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()

	if !strings.HasPrefix(got, "order-service ") {
		t.Errorf("expected service name prefix, got %q", got)
	}
	if !strings.Contains(got, "commit ") || !strings.Contains(got, "built ") {
		t.Errorf("expected commit and build date in %q", got)
	}
}
