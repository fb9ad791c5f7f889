package monitor

import "testing"

func TestSamplingGate_FireDisarms(t *testing.T) {
	var g samplingGate

	g.arm()
	if !g.fireGenerated() {
		t.Fatal("expected first fire after arm to succeed")
	}
	if g.fireGenerated() {
		t.Fatal("expected second fire to find gate disarmed")
	}

	// The interesting flag is independent and still armed.
	if !g.fireInteresting() {
		t.Fatal("expected interesting flag to still be armed")
	}
	if g.fireInteresting() {
		t.Fatal("expected interesting flag disarmed after firing")
	}
}

func TestSamplingGate_UnarmedNeverFires(t *testing.T) {
	var g samplingGate

	for i := 0; i < 3; i++ {
		if g.fireGenerated() || g.fireInteresting() {
			t.Fatal("unarmed gate must not fire")
		}
	}
}

func TestSamplingGate_RearmAfterFire(t *testing.T) {
	var g samplingGate

	g.arm()
	g.fireGenerated()
	g.arm()
	if !g.fireGenerated() {
		t.Fatal("expected re-armed gate to fire again")
	}
}
