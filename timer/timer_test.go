package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_After(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.After(60*time.Millisecond, func() {
		fired.Add(1)
	})

	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("Task fired before its delay elapsed")
	}

	time.Sleep(200 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("Expected task to fire exactly once, fired %d times", fired.Load())
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.After(80*time.Millisecond, func() {
		fired.Add(1)
	})
	m.Cancel(id)

	time.Sleep(200 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("Cancelled task should never fire")
	}
}

func TestManager_Every(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.Every(50*time.Millisecond, func() {
		fired.Add(1)
	})

	time.Sleep(300 * time.Millisecond)
	m.Cancel(id)

	if fired.Load() < 2 {
		t.Errorf("Expected a repeating task to fire at least twice, fired %d times", fired.Load())
	}
}
