// Package inflight coalesces duplicate remote requests. Callers of the
// same session and kind that send the same input while a call runs share
// its result; a different input gets its own call. Busy flags are tracked
// per session and kind, and kinds are independent of each other.
package inflight

import (
	"hash/fnv"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Request kinds with independent in-flight flags.
const (
	KindAnalyze   = "analyze"
	KindSpamCheck = "spam_check"
	KindShare     = "share"
	KindGenerate  = "generate"
)

// Group tracks in-flight calls.
type Group struct {
	sf     singleflight.Group
	mu     sync.Mutex
	active map[string]int
}

// New creates an empty group.
func New() *Group {
	return &Group{active: make(map[string]int)}
}

func key(session, kind string) string {
	return session + ":" + kind
}

func digest(input string) string {
	h := fnv.New64a()
	h.Write([]byte(input))
	return strconv.FormatUint(h.Sum64(), 16)
}

// Busy reports whether a call of kind is running for session.
func (g *Group) Busy(session, kind string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active[key(session, kind)] > 0
}

// Flags returns the busy state of every kind for session.
func (g *Group) Flags(session string) map[string]bool {
	return map[string]bool{
		KindAnalyze:   g.Busy(session, KindAnalyze),
		KindSpamCheck: g.Busy(session, KindSpamCheck),
		KindShare:     g.Busy(session, KindShare),
		KindGenerate:  g.Busy(session, KindGenerate),
	}
}

// Do runs fn unless a call for the same session, kind and input is already
// in flight, in which case it waits for that call and returns its result.
// shared is true when the result came from another caller's call. The
// busy flag is cleared whatever fn returns.
func Do[T any](g *Group, session, kind, input string, fn func() (T, error)) (v T, shared bool, err error) {
	k := key(session, kind)
	res, err, shared := g.sf.Do(k+":"+digest(input), func() (any, error) {
		g.mu.Lock()
		g.active[k]++
		g.mu.Unlock()
		defer func() {
			g.mu.Lock()
			if g.active[k]--; g.active[k] <= 0 {
				delete(g.active, k)
			}
			g.mu.Unlock()
		}()
		return fn()
	})
	if res != nil {
		v, _ = res.(T)
	}
	return v, shared, err
}
