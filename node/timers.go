package node

// timerRegistry implements the named-timer semantics of spec §4.3: a
// timer fires at most once per SetTimer call, and only if its name is
// still present in the registry at fire time. Cancellation (KillTimer)
// and re-arming (a second SetTimer before the first fires) both work
// by the same mechanism — replacing or deleting the registry entry —
// never by reaching into the kernel's event queue.
type timerRegistry struct {
	tokens map[string]uint64
	seq    uint64
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{tokens: make(map[string]uint64)}
}

// arm records a fresh token for name and returns it. The caller
// schedules a kernel callback that only runs its body if token is
// still the registry's current value for name when the callback fires.
func (t *timerRegistry) arm(name string) uint64 {
	t.seq++
	t.tokens[name] = t.seq
	return t.seq
}

// live reports whether token is still the current armed token for name
// (i.e. the timer has not been cancelled or superseded by a later
// SetTimer call).
func (t *timerRegistry) live(name string, token uint64) bool {
	return t.tokens[name] == token
}

// kill removes name from the registry, making any in-flight callback
// for it a no-op when it fires.
func (t *timerRegistry) kill(name string) {
	delete(t.tokens, name)
}

// killAll clears the registry.
func (t *timerRegistry) killAll() {
	t.tokens = make(map[string]uint64)
}

// SetTimer arms a single firing of name after delay, invoking fn if
// the timer is still live when the kernel delivers it.
func (n *Node) SetTimer(name string, delay float64, fn func()) {
	token := n.timers.arm(name)
	n.sim.ScheduleAfter(delay, func() {
		if n.timers.live(name, token) {
			fn()
		}
	})
}

// KillTimer cancels a pending named timer.
func (n *Node) KillTimer(name string) {
	n.timers.kill(name)
}

// KillAllTimers clears every pending named timer.
func (n *Node) KillAllTimers() {
	n.timers.killAll()
}
