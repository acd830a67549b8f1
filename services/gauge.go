package services

import (
	"math"

	"aura-report/models"
)

// Messbereich des Frequenz-Gauges in Hz.
const (
	FrequencyMinHz = 100
	FrequencyMaxHz = 1000
)

// Gauge-Farben.
const (
	ColorHigh    = "#22c55e"
	ColorMedium  = "#f59e0b"
	ColorLow     = "#ef4444"
	ColorUnknown = "#9ca3af"
	// ColorScore gilt im Score-Gauge für jedes Level.
	ColorScore = "#8b5cf6"
)

// Gauge ist die darstellungsfertige Auslenkung eines Metrics.
type Gauge struct {
	Percentage int     `json:"percentage"`
	Value      float64 `json:"value"`
	Label      string  `json:"label"`
	Level      string  `json:"level"`
	Color      string  `json:"color"`
}

// Ratio skaliert value linear von [domainMin, domainMax] auf [0,100] und klemmt an den Rändern.
// Ein leerer oder umgekehrter Bereich ergibt 0.
func Ratio(value, domainMin, domainMax float64) float64 {
	if domainMax <= domainMin || math.IsNaN(value) {
		return 0
	}
	// erst multiplizieren: für ganzzahlige S/M bleibt x.5 exakt
	pct := (value - domainMin) * 100 / (domainMax - domainMin)
	return math.Min(100, math.Max(0, pct))
}

// ToPercentage ist Ratio, gerundet nach round-half-up (52.5 -> 53, 52.4 -> 52).
func ToPercentage(value, domainMin, domainMax float64) int {
	return roundHalfUp(Ratio(value, domainMin, domainMax))
}

// roundHalfUp rundet .5 immer nach oben, auch bei negativen Werten (-0.5 -> 0).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FrequencyPercentage bildet Hz auf das Instrumentband [100, 1000] ab.
func FrequencyPercentage(hz float64) int {
	return ToPercentage(hz, FrequencyMinHz, FrequencyMaxHz)
}

// ScorePercentage bildet S von M auf [0,100] ab.
func ScorePercentage(score, maxScore float64) int {
	return ToPercentage(score, 0, maxScore)
}

// ScoreTextPercentage parst "S/M" und liefert den Prozentwert.
func ScoreTextPercentage(text string) (int, bool) {
	s, m, ok := ParseScore(text)
	if !ok {
		return 0, false
	}
	return ScorePercentage(s, m), true
}

// LevelColor liefert die Farbe des Frequenz-Gauges je Level.
func LevelColor(level string) string {
	switch level {
	case models.LevelHigh:
		return ColorHigh
	case models.LevelMedium:
		return ColorMedium
	case models.LevelLow:
		return ColorLow
	default:
		return ColorUnknown
	}
}

// FrequencyGauge baut den Frequenz-Gauge eines Metrics.
func FrequencyGauge(m models.Metric) Gauge {
	return Gauge{
		Percentage: FrequencyPercentage(m.FrequencyHz),
		Value:      m.FrequencyHz,
		Label:      formatHz(m.FrequencyHz),
		Level:      m.Level,
		Color:      LevelColor(m.Level),
	}
}

// ScoreGauge baut den Score-Gauge. Ohne strukturierten Score gibt es keinen.
// Die Farbe ist für alle Level gleich.
func ScoreGauge(m models.Metric) (Gauge, bool) {
	if !m.HasScore() {
		return Gauge{}, false
	}
	return Gauge{
		Percentage: ScorePercentage(m.NumericScore, m.MaxScore),
		Value:      m.NumericScore,
		Label:      formatScore(m.NumericScore, m.MaxScore),
		Level:      m.Level,
		Color:      ColorScore,
	}, true
}
