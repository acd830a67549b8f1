package models

// Energie-Level eines Metrics.
const (
	LevelHigh    = "High"
	LevelMedium  = "Medium"
	LevelLow     = "Low"
	LevelUnknown = "Unknown"
)

// Metric ist das normalisierte {score, frequency, level}-Tripel für Gauge-Darstellungen.
// Ohne strukturierten Score bleiben NumericScore und MaxScore 0.
type Metric struct {
	NumericScore float64 `json:"numeric_score"`
	MaxScore     float64 `json:"max_score"`
	FrequencyHz  float64 `json:"frequency_hz"`
	Level        string  `json:"level"`
}

// HasScore meldet, ob ein Score im Format "S/M" geparst wurde.
func (m Metric) HasScore() bool {
	return m.MaxScore > 0
}
