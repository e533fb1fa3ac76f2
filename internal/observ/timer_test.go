package observ

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTimerSumsByPhase(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", 2*time.Millisecond)
	tm.Add("check", time.Millisecond)
	tm.Add("parse", 3*time.Millisecond)

	want := Report{
		TotalMS: 6,
		Phases: []PhaseReport{
			{Name: "parse", DurationMS: 5, Count: 2},
			{Name: "check", DurationMS: 1, Count: 1},
		},
	}
	if diff := cmp.Diff(want, tm.Report()); diff != "" {
		t.Fatalf("report (-want +got):\n%s", diff)
	}
}

func TestTimerConcurrentAdds(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("parse", time.Millisecond)
		}()
	}
	wg.Wait()
	if got := tm.Report().Phases[0].Count; got != 16 {
		t.Fatalf("count = %d", got)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	tm.Add("parse", time.Second)
	tm.Track("check")()
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("report = %+v", r)
	}
}

func TestSummaryFormat(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", 1500*time.Microsecond)
	want := "timings:\n  parse             1.50 ms  x1\n  total             1.50 ms\n"
	if got := tm.Summary(); got != want {
		t.Fatalf("summary = %q", got)
	}
}
