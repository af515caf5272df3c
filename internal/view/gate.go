package view

import "sync"

// Gate defers work until a one-shot readiness signal. Work submitted before
// Ready runs in submission order inside the Ready call; later work runs
// immediately.
type Gate struct {
	mu       sync.Mutex
	ready    bool
	draining bool
	queue    []func()
}

// Do runs fn now if the gate is open, otherwise queues it.
func (g *Gate) Do(fn func()) {
	g.mu.Lock()
	if !g.ready {
		g.queue = append(g.queue, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	fn()
}

// Ready opens the gate and drains the queue. Subsequent calls do nothing.
func (g *Gate) Ready() {
	g.mu.Lock()
	if g.ready || g.draining {
		g.mu.Unlock()
		return
	}
	g.draining = true
	for len(g.queue) > 0 {
		fn := g.queue[0]
		g.queue = g.queue[1:]
		g.mu.Unlock()
		fn()
		g.mu.Lock()
	}
	g.ready = true
	g.draining = false
	g.mu.Unlock()
}

// IsReady reports whether the gate has opened.
func (g *Gate) IsReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

// Pending reports how much work is queued.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}
