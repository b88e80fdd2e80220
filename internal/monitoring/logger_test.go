package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("iteration %d", 1)
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op
	called = false
	SetLogger(nil)
	Logf("iteration %d", 2)
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()
	Logf("test message: %s", "value")
}

func TestCapture(t *testing.T) {
	original := Logf
	entries, restore := Capture()

	Logf("iteration %d, error %.8f", 3, 0.5)
	Logf("done")
	restore()

	if len(*entries) != 2 {
		t.Fatalf("captured %d entries, want 2", len(*entries))
	}
	first := (*entries)[0]
	if first[0] != "iteration %d, error %.8f" || first[1] != 3 || first[2] != 0.5 {
		t.Errorf("unexpected first entry %v", first)
	}
	Logf("after restore")
	if len(*entries) != 2 {
		t.Error("Capture kept recording after restore")
	}
	if Logf == nil || original == nil {
		t.Error("restore left Logf nil")
	}
}
