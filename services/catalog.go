package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// KoshaAssessmentTitle ist der reservierte Titel, unter dem eine Map als KoshaMap gerendert wird.
	KoshaAssessmentTitle = "Kosha Assessment"
	// DefaultIcon wird für unbekannte Schlüssel verwendet.
	DefaultIcon = "file-text"

	RawDataKey   = "raw_data"
	RawDataTitle = "Raw Data"
	RawDataIcon  = "database"

	UntitledReport = "Untitled Report"
)

// CatalogEntry beschreibt die Darstellung eines bekannten report_data-Schlüssels.
type CatalogEntry struct {
	Key   string
	Title string
	Icon  string
	Group string
}

// Katalog-Gruppen in Ausgabereihenfolge.
const (
	GroupGeneral    = "general"
	GroupPredictive = "predictive"
	GroupKosha      = "kosha"
	GroupOther      = "other"
)

// catalog ist die statische, geordnete Tabelle aller bekannten Abschnitte.
// Ein neues Report-Feld ist eine neue Zeile, kein neuer Code.
var catalog = []CatalogEntry{
	// Allgemeine Einschätzungen
	{"current_assessment", "Current Assessment", "activity", GroupGeneral},
	{"vitality_assessment", "Vitality Assessment", "heart-pulse", GroupGeneral},
	{"overall_assessment", "Overall Assessment", "clipboard-check", GroupGeneral},
	{"vibrational_frequency", "Vibrational Frequency", "waves", GroupGeneral},
	{"energy_analysis", "Energy Analysis", "zap", GroupGeneral},
	{"emotional_state", "Emotional State", "smile", GroupGeneral},
	{"physical_wellbeing", "Physical Wellbeing", "dumbbell", GroupGeneral},
	{"mental_clarity", "Mental Clarity", "brain", GroupGeneral},
	{"palm_reading", "Palm Reading", "hand", GroupGeneral},
	{"face_reading", "Face Reading", "scan-face", GroupGeneral},
	{"compatibility_summary", "Compatibility Summary", "heart-handshake", GroupGeneral},
	{"relationship_dynamics", "Relationship Dynamics", "users", GroupGeneral},

	// Prognosen und Wachstum
	{"future_predictions", "Future Predictions", "telescope", GroupPredictive},
	{"growth_opportunities", "Growth Opportunities", "sprout", GroupPredictive},
	{"strengths", "Strengths", "shield", GroupPredictive},
	{"challenges", "Challenges", "mountain", GroupPredictive},
	{"recommendations", "Recommendations", "lightbulb", GroupPredictive},
	{"action_plan", "Action Plan", "list-checks", GroupPredictive},

	// Kosha und Astrologie
	{"kosha_assessment", KoshaAssessmentTitle, "layers", GroupKosha},
	{"chakra_analysis", "Chakra Analysis", "circle-dot", GroupKosha},
	{"planetary_influences", "Planetary Influences", "orbit", GroupKosha},
	{"astrological_insights", "Astrological Insights", "star", GroupKosha},
	{"birth_chart", "Birth Chart", "compass", GroupKosha},
	{"numerology", "Numerology", "hash", GroupKosha},

	// Sonstiges
	{"key_insights", "Key Insights", "sparkles", GroupOther},
	{"remedies", "Remedies", "leaf", GroupOther},
	{"affirmations", "Affirmations", "quote", GroupOther},
	{"summary", "Summary", "file-text", GroupOther},
	{"conclusion", "Conclusion", "flag", GroupOther},
	{"disclaimer", "Disclaimer", "info", GroupOther},
}

var catalogIndex = func() map[string]CatalogEntry {
	idx := make(map[string]CatalogEntry, len(catalog))
	for _, e := range catalog {
		idx[e.Key] = e
	}
	return idx
}()

// Catalog liefert eine Kopie des geordneten Katalogs.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// LookupEntry löst Titel und Icon für einen Schlüssel auf.
// Unbekannte Schlüssel bekommen einen synthetisierten Titel und das Default-Icon.
func LookupEntry(key string) (CatalogEntry, bool) {
	if e, ok := catalogIndex[key]; ok {
		return e, true
	}
	return CatalogEntry{Key: key, Title: SynthesizeTitle(key), Icon: DefaultIcon, Group: GroupOther}, false
}

// SynthesizeTitle ersetzt Unterstriche durch Leerzeichen und schreibt jedes Wort groß ("life_path" -> "Life Path").
func SynthesizeTitle(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	// Caser ist nicht goroutine-sicher, daher pro Aufruf
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.Join(words, " "))
}
