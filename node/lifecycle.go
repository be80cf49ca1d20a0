package node

// Kill puts the node to sleep immediately: Deliver drops every packet
// until Wake, so no message handler runs. Timers already armed keep
// firing, and their handlers still run and transmit while the node is
// asleep (spec §3, "Lifecycles"; supplemented from
// original_source/wsnlab/repairing_network.py's scripted DEATH events).
func (n *Node) Kill() {
	n.isSleep = true
}

// Wake clears the sleep flag and, if the node is UNDISCOVERED with no
// PROBE sent yet, runs the ARRIVAL handler immediately so it starts
// probing from scratch.
// Supplemented from repairing_network.py's scripted WAKEUP events.
func (n *Node) Wake() {
	n.isSleep = false
	if n.role == Undiscovered && n.probeCounter == 0 {
		n.onArrival()
	}
}

// ScheduleDeath arms a one-off DEATH event at delay, putting n to sleep
// (spec §3; SPEC_FULL.md "Scripted lifecycle events"). It lives beside
// Node rather than on engine.Simulation because flipping sleep state is
// node-level behavior and engine must never import node.
func (n *Node) ScheduleDeath(delay float64) {
	n.sim.ScheduleAfter(delay, n.Kill)
}

// ScheduleWakeup arms a one-off WAKEUP event at delay.
func (n *Node) ScheduleWakeup(delay float64) {
	n.sim.ScheduleAfter(delay, n.Wake)
}
