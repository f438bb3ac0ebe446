package telemetry

import "testing"

func speedWindow(end int64, speed float64) WindowStats {
	return WindowStats{WindowEndTick: end, SpeedMean: speed, Particles: 1000}
}

func interactionWindow(end int64, speed, perTick float64) WindowStats {
	w := speedWindow(end, speed)
	w.InteractionsPerTick = perTick
	return w
}

func TestRegimeDetector_Freeze(t *testing.T) {
	rd := NewRegimeDetector(10)

	for i := int64(1); i <= 5; i++ {
		if got := rd.Check(speedWindow(i*120, 1.0)); len(got) != 0 {
			t.Fatalf("window %d: unexpected regimes %v", i, got)
		}
	}

	got := rd.Check(speedWindow(720, 0.001))
	if len(got) != 1 || got[0].Type != RegimeFreeze {
		t.Fatalf("got %v, want a single freeze", got)
	}
	if got[0].Tick != 720 {
		t.Errorf("freeze tick = %d, want 720", got[0].Tick)
	}

	// A persistent freeze stays quiet during the cooldown
	for i := int64(7); i <= 9; i++ {
		if got := rd.Check(speedWindow(i*120, 0.001)); len(got) != 0 {
			t.Fatalf("window %d: refired during cooldown: %v", i, got)
		}
	}
}

func TestRegimeDetector_FreezeNeedsPriorMotion(t *testing.T) {
	rd := NewRegimeDetector(10)

	// A system that never moved cannot freeze
	for i := int64(1); i <= 8; i++ {
		if got := rd.Check(speedWindow(i*120, 0.0001)); len(got) != 0 {
			t.Fatalf("window %d: unexpected regimes %v", i, got)
		}
	}
}

func TestRegimeDetector_BlowUp(t *testing.T) {
	rd := NewRegimeDetector(10)

	for i := int64(1); i <= 5; i++ {
		if got := rd.Check(speedWindow(i*120, 0.5)); len(got) != 0 {
			t.Fatalf("window %d: unexpected regimes %v", i, got)
		}
	}

	got := rd.Check(speedWindow(720, 10))
	if len(got) != 1 || got[0].Type != RegimeBlowUp {
		t.Fatalf("got %v, want a single blow_up", got)
	}
}

func TestRegimeDetector_BlowUpNeedsAbsoluteSpeed(t *testing.T) {
	rd := NewRegimeDetector(10)

	// 6x the average but still crawling: not a blow-up
	for i := int64(1); i <= 5; i++ {
		rd.Check(speedWindow(i*120, 0.1))
	}
	if got := rd.Check(speedWindow(720, 0.6)); len(got) != 0 {
		t.Fatalf("got %v, want none below the absolute floor", got)
	}
}

func TestRegimeDetector_Clustering(t *testing.T) {
	rd := NewRegimeDetector(10)

	for i := int64(1); i <= 5; i++ {
		if got := rd.Check(interactionWindow(i*120, 0.5, 600)); len(got) != 0 {
			t.Fatalf("window %d: unexpected regimes %v", i, got)
		}
	}

	got := rd.Check(interactionWindow(720, 0.5, 2500))
	if len(got) != 1 || got[0].Type != RegimeClustering {
		t.Fatalf("got %v, want a single clustering", got)
	}
}

func TestRegimeDetector_ClusteringNeedsDensity(t *testing.T) {
	rd := NewRegimeDetector(10)

	// Jump is relative but below one pair per particle
	for i := int64(1); i <= 5; i++ {
		rd.Check(interactionWindow(i*120, 0.5, 100))
	}
	if got := rd.Check(interactionWindow(720, 0.5, 300)); len(got) != 0 {
		t.Fatalf("got %v, want none below one pair per particle", got)
	}
}

func TestRegimeDetector_SteadyStateFiresOnce(t *testing.T) {
	rd := NewRegimeDetector(10)

	var steady []Regime
	for i := int64(1); i <= 14; i++ {
		for _, r := range rd.Check(speedWindow(i*120, 0.5)) {
			if r.Type != RegimeSteadyState {
				t.Fatalf("window %d: unexpected regime %v", i, r)
			}
			steady = append(steady, r)
		}
	}

	if len(steady) != 1 {
		t.Fatalf("steady_state fired %d times, want exactly once", len(steady))
	}
	if steady[0].Tick != 9*120 {
		t.Errorf("steady_state tick = %d, want %d", steady[0].Tick, 9*120)
	}
}

func TestRegimeDetector_FirstWindowIsQuiet(t *testing.T) {
	rd := NewRegimeDetector(10)
	if got := rd.Check(speedWindow(120, 50)); len(got) != 0 {
		t.Fatalf("got %v with no history", got)
	}
}
