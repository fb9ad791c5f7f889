package monitor

// samplingGate holds two independent one-shot flags that let the next
// matching event through for display, then disarm. Re-arming is the
// periodic reporter's job. Loop-confined; not safe for concurrent use.
type samplingGate struct {
	armedForGenerated   bool
	armedForInteresting bool
}

// arm arms both flags.
func (g *samplingGate) arm() {
	g.armedForGenerated = true
	g.armedForInteresting = true
}

// fireGenerated reports whether a generated-sample display should
// happen, disarming the flag if it was armed.
func (g *samplingGate) fireGenerated() bool {
	fired := g.armedForGenerated
	g.armedForGenerated = false
	return fired
}

// fireInteresting reports whether an interesting-sample display should
// happen, disarming the flag if it was armed.
func (g *samplingGate) fireInteresting() bool {
	fired := g.armedForInteresting
	g.armedForInteresting = false
	return fired
}
