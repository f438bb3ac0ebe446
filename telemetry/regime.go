package telemetry

import (
	"fmt"
	"log/slog"
)

// RegimeType identifies the kind of regime change.
type RegimeType string

const (
	RegimeFreeze      RegimeType = "freeze"
	RegimeBlowUp      RegimeType = "blow_up"
	RegimeClustering  RegimeType = "clustering"
	RegimeSteadyState RegimeType = "steady_state"
)

// Regime represents an automatically detected change in the population
// dynamics.
type Regime struct {
	Type        RegimeType `csv:"type"`
	Tick        int64      `csv:"tick"`
	Description string     `csv:"description"`
}

// LogRegime logs the regime change using slog.
func (r Regime) LogRegime() {
	slog.Info("regime",
		"type", string(r.Type),
		"tick", r.Tick,
		"description", r.Description,
	)
}

// RegimeDetector detects qualitative shifts in the simulation dynamics
// from the window stats stream.
type RegimeDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	windowCount   int64
	firedAt       map[RegimeType]int64
	stableWindows int // consecutive windows with low speed variance
}

// NewRegimeDetector creates a detector with the given history size.
func NewRegimeDetector(historySize int) *RegimeDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &RegimeDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		firedAt:     make(map[RegimeType]int64),
	}
}

// Check analyzes the latest stats and returns any detected regime changes.
func (rd *RegimeDetector) Check(stats WindowStats) []Regime {
	var regimes []Regime

	if rd.historyFull || rd.historyIdx > 0 {
		// Freeze: mean speed collapses below 10% of the rolling average
		if r := rd.checkFreeze(stats); r != nil {
			regimes = append(regimes, *r)
		}

		// Blow-up: mean speed explodes past 5x the rolling average
		if r := rd.checkBlowUp(stats); r != nil {
			regimes = append(regimes, *r)
		}

		// Clustering onset: interaction rate jumps past 2x the rolling average
		if r := rd.checkClustering(stats); r != nil {
			regimes = append(regimes, *r)
		}

		// Steady state: low speed variance over consecutive windows
		if r := rd.checkSteadyState(stats); r != nil {
			regimes = append(regimes, *r)
		}
	}

	rd.addToHistory(stats)
	rd.windowCount++

	return regimes
}

func (rd *RegimeDetector) addToHistory(stats WindowStats) {
	rd.history[rd.historyIdx] = stats
	rd.historyIdx = (rd.historyIdx + 1) % rd.historySize
	if rd.historyIdx == 0 {
		rd.historyFull = true
	}
}

func (rd *RegimeDetector) getHistory() []WindowStats {
	if rd.historyFull {
		return rd.history
	}
	return rd.history[:rd.historyIdx]
}

// fire records a trigger and suppresses the same type for a full
// history length, so a persistent condition reports once.
func (rd *RegimeDetector) fire(t RegimeType) bool {
	if at, ok := rd.firedAt[t]; ok && rd.windowCount-at < int64(rd.historySize) {
		return false
	}
	rd.firedAt[t] = rd.windowCount
	return true
}

func (rd *RegimeDetector) checkFreeze(stats WindowStats) *Regime {
	history := rd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedMean
	}
	avg := total / float64(len(history))

	// No prior motion means nothing to collapse from
	if avg < 0.01 {
		return nil
	}

	if stats.SpeedMean < avg*0.1 && rd.fire(RegimeFreeze) {
		return &Regime{
			Type:        RegimeFreeze,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed collapsed to %.4f from a rolling average of %.4f", stats.SpeedMean, avg),
		}
	}

	return nil
}

func (rd *RegimeDetector) checkBlowUp(stats WindowStats) *Regime {
	history := rd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedMean
	}
	avg := total / float64(len(history))

	if avg == 0 {
		return nil
	}

	if stats.SpeedMean > avg*5 && stats.SpeedMean > 1 && rd.fire(RegimeBlowUp) {
		return &Regime{
			Type:        RegimeBlowUp,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed %.2f is %.1fx the rolling average (%.4f)", stats.SpeedMean, stats.SpeedMean/avg, avg),
		}
	}

	return nil
}

func (rd *RegimeDetector) checkClustering(stats WindowStats) *Regime {
	history := rd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.InteractionsPerTick
	}
	avg := total / float64(len(history))

	if avg == 0 {
		return nil
	}

	// Require at least one accepted pair per particle so sparse noise
	// does not register as structure
	if stats.InteractionsPerTick > avg*2 && stats.InteractionsPerTick >= float64(stats.Particles) && rd.fire(RegimeClustering) {
		return &Regime{
			Type:        RegimeClustering,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Interactions per tick %.0f is %.1fx the rolling average (%.0f)", stats.InteractionsPerTick, stats.InteractionsPerTick/avg, avg),
		}
	}

	return nil
}

func (rd *RegimeDetector) checkSteadyState(stats WindowStats) *Regime {
	// A frozen system is not a steady state
	if stats.SpeedMean < 0.01 {
		rd.stableWindows = 0
		return nil
	}

	history := rd.getHistory()
	if len(history) < 4 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.SpeedMean
	}
	mean := sum / float64(len(history))

	var variance float64
	for _, h := range history {
		d := h.SpeedMean - mean
		variance += d * d
	}
	variance /= float64(len(history))

	// Low variance: coefficient of variation < 20%
	cv := 0.0
	if mean > 0 {
		cv = variance / (mean * mean)
	}

	if cv < 0.04 { // CV^2 < 0.04 means CV < 0.2
		rd.stableWindows++
	} else {
		rd.stableWindows = 0
	}

	if rd.stableWindows == 5 { // trigger exactly once at 5 windows
		return &Regime{
			Type:        RegimeSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed stable near %.4f over 5+ windows", mean),
		}
	}

	return nil
}
