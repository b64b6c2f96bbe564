package testsuite

import (
	"bytes"
	"runtime"
	"runtime/pprof"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// GoroutineMark contains the number of goroutines when it was created.
type GoroutineMark struct {
	t    testing.TB
	then int
}

// MarkGoroutines is used to mark the current number of goroutines,
// call Compare() at the test end to check goroutine leaks.
func MarkGoroutines(t testing.TB) *GoroutineMark {
	return &GoroutineMark{
		t:    t,
		then: runtime.NumGoroutine(),
	}
}

// Compare is used to compare the number of goroutines with the mark.
// Scheduler and garbage collector need some time to release dead
// goroutines, so retry before report leak.
func (m *GoroutineMark) Compare() {
	for i := 0; i < 300; i++ {
		if runtime.NumGoroutine() <= m.then {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	buf := bytes.NewBuffer(make([]byte, 0, 4096))
	_ = pprof.Lookup("goroutine").WriteTo(buf, 1)
	m.t.Fatalf("goroutine leak: mark %d, now %d\n%s",
		m.then, runtime.NumGoroutine(), buf)
}

// IsDestroyed is used to check if the object can be collected
// by the garbage collector, it used to find reference leaks.
func IsDestroyed(t testing.TB, object interface{}) {
	require.True(t, Destroyed(object), "object is not destroyed")
}

// Destroyed is used to check if the object was collected by
// the garbage collector.
func Destroyed(object interface{}) bool {
	destroyed := make(chan struct{})
	runtime.SetFinalizer(object, func(interface{}) {
		close(destroyed)
	})
	// total 3 seconds
	for i := 0; i < 12; i++ {
		runtime.GC()
		select {
		case <-destroyed:
			return true
		case <-time.After(250 * time.Millisecond):
		}
	}
	return false
}
