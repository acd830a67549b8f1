package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"aura-report/models"
)

// Defaults, wenn weder strukturierte Felder noch der Freitext etwas liefern.
const (
	DefaultFrequencyHz = 528
	DefaultLevel       = models.LevelHigh
)

// Source beschreibt, woher ein Metric-Feld stammt.
type Source string

const (
	SourceStructured Source = "structured"
	SourceText       Source = "text"
	SourceDefault    Source = "default"
	SourceMissing    Source = "missing"
)

var (
	scoreFieldPattern     = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d+)\s*$`)
	frequencyFieldPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*hz\s*$`)
	frequencyTextPattern  = regexp.MustCompile(`(?i)\b(\d+)\s*hz\b`)
	// Level-Wort nur zwischen Nicht-Buchstaben: "low_energy" zählt, "flow" nicht
	levelTextPattern = regexp.MustCompile(`(?i)(?:^|[^a-z])(high|medium|low)(?:[^a-z]|$)`)
)

// Feldnamen, unter denen Produzenten die strukturierten Werte ablegen, in Prioritätsreihenfolge.
var (
	scoreKeys     = []string{"vf_score", "score", "vibrational_score", "overall_score"}
	frequencyKeys = []string{"hz_frequency", "frequency_hz", "frequency", "vibrational_frequency"}
	levelKeys     = []string{"energy_level", "level", "vibration_level"}
)

// Extraction ist das Metric samt Herkunft jedes Feldes.
// Alles außer SourceStructured ist ein ParseFallback, kein Fehler.
type Extraction struct {
	Metric          models.Metric
	ScoreSource     Source
	FrequencySource Source
	LevelSource     Source
}

// Fallbacks listet die Felder, die nicht strukturiert geparst werden konnten.
func (e Extraction) Fallbacks() []string {
	var out []string
	if e.ScoreSource != SourceStructured {
		out = append(out, "score")
	}
	if e.FrequencySource != SourceStructured {
		out = append(out, "frequency")
	}
	if e.LevelSource != SourceStructured {
		out = append(out, "level")
	}
	return out
}

// ExtractMetric leitet das Metric aus einem Assessment-Objekt oder Freitext ab. Pure und total.
func ExtractMetric(assessment gjson.Result) models.Metric {
	return Extract(assessment).Metric
}

// Extract arbeitet in drei Stufen: strukturierte Felder, Regex über den serialisierten Text, Defaults.
func Extract(assessment gjson.Result) Extraction {
	ex := Extraction{ScoreSource: SourceMissing, FrequencySource: SourceDefault, LevelSource: SourceDefault}
	m := models.Metric{FrequencyHz: DefaultFrequencyHz, Level: DefaultLevel}

	if assessment.IsObject() {
		if score, maxScore, ok := structuredScore(assessment); ok {
			m.NumericScore, m.MaxScore = score, maxScore
			ex.ScoreSource = SourceStructured
		}
		if hz, ok := structuredFrequency(assessment); ok {
			m.FrequencyHz = hz
			ex.FrequencySource = SourceStructured
		}
		if level, ok := structuredLevel(assessment); ok {
			m.Level = level
			ex.LevelSource = SourceStructured
		}
	}

	if ex.FrequencySource != SourceStructured || ex.LevelSource != SourceStructured {
		text := serialize(assessment)
		if ex.FrequencySource != SourceStructured {
			if match := frequencyTextPattern.FindStringSubmatch(text); match != nil {
				if hz, err := strconv.ParseFloat(match[1], 64); err == nil {
					m.FrequencyHz = hz
					ex.FrequencySource = SourceText
				}
			}
		}
		if ex.LevelSource != SourceStructured {
			if match := levelTextPattern.FindStringSubmatch(text); match != nil {
				m.Level = capitalize(match[1])
				ex.LevelSource = SourceText
			}
		}
	}

	ex.Metric = m
	return ex
}

// ExtractReport wählt das Assessment eines Reports: current_assessment, vitality_assessment oder report_data selbst.
func ExtractReport(reportData json.RawMessage) Extraction {
	if len(reportData) == 0 || !gjson.ValidBytes(reportData) {
		return Extract(gjson.Result{})
	}
	data := gjson.ParseBytes(reportData)
	if data.IsObject() {
		fields := orderedFields(data)
		for _, key := range []string{"current_assessment", "vitality_assessment"} {
			for _, f := range fields {
				if f.Key == key && !isEmptyValue(f.Value) {
					return Extract(f.Value)
				}
			}
		}
	}
	return Extract(data)
}

// ExtractReportMetric ist ExtractReport ohne Herkunftsangaben.
func ExtractReportMetric(reportData json.RawMessage) models.Metric {
	return ExtractReport(reportData).Metric
}

// ParseScore parst "S/M". Ungültig sind M == 0 und S > M.
func ParseScore(text string) (score, maxScore float64, ok bool) {
	match := scoreFieldPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, 0, false
	}
	s, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.ParseFloat(match[2], 64)
	if err != nil || m <= 0 || s > m {
		return 0, 0, false
	}
	return s, m, true
}

func structuredScore(obj gjson.Result) (float64, float64, bool) {
	for _, key := range scoreKeys {
		if v := obj.Get(key); v.Type == gjson.String {
			if s, m, ok := ParseScore(v.Str); ok {
				return s, m, true
			}
		}
	}
	return 0, 0, false
}

func structuredFrequency(obj gjson.Result) (float64, bool) {
	for _, key := range frequencyKeys {
		v := obj.Get(key)
		if v.Type != gjson.String {
			continue
		}
		if match := frequencyFieldPattern.FindStringSubmatch(v.Str); match != nil {
			if hz, err := strconv.ParseFloat(match[1], 64); err == nil {
				return hz, true
			}
		}
	}
	return 0, false
}

func structuredLevel(obj gjson.Result) (string, bool) {
	for _, key := range levelKeys {
		v := obj.Get(key)
		if v.Type != gjson.String {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "high", "medium", "low":
			return capitalize(strings.TrimSpace(v.Str)), true
		}
	}
	return "", false
}

// serialize liefert den Text, über den die Regex-Stufe läuft.
func serialize(v gjson.Result) string {
	switch {
	case !v.Exists():
		return ""
	case v.Type == gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
