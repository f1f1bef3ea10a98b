package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestSimpleProgress(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	progress := NewProgressReporter(&buf).(*SimpleProgress)
	progress.now = fixedClock(start, start, start.Add(2*time.Second))

	progress.Start(4)
	progress.Update(2)
	progress.Finish()

	out := buf.String()
	for _, want := range []string{"(0/4 files)", "(2/4 files) 1.0 files/s", "100% (4/4 files)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish() did not end the line")
	}
}

func TestSimpleProgressZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressReporter(&buf)

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing for zero total", buf.String())
	}
}

func TestSimpleProgressError(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressReporter(&buf)

	progress.Start(10)
	progress.Error(errors.New("test error"))

	if !strings.Contains(buf.String(), "error: test error") {
		t.Errorf("output = %q, want error line", buf.String())
	}
}

func TestSimpleProgressConcurrent(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressReporter(&buf)
	progress.Start(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				progress.Update(int64(base*10 + j))
			}
		}(i)
	}
	wg.Wait()
	progress.Finish()

	if !strings.Contains(buf.String(), "(100/100 files)") {
		t.Error("final render missing")
	}
}

func TestNopProgress(t *testing.T) {
	var p ProgressReporter = NopProgress{}
	p.Start(10)
	p.Update(5)
	p.Error(errors.New("ignored"))
	p.Finish()
}
