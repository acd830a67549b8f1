package services

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"aura-report/models"
)

// rawDataSentinels: ist einer dieser Schlüssel vorhanden, gilt das Schema als erkannt.
var rawDataSentinels = []string{"report_title", "current_assessment", "vitality_assessment"}

// Normalize baut aus report_data ein kanonisches Document.
// Die Funktion ist total: fehlende, null- oder Nicht-Objekt-Daten ergeben ein leeres Document.
func Normalize(reportData json.RawMessage) models.Document {
	doc := models.Document{Title: UntitledReport, Sections: []models.Section{}}

	if len(reportData) == 0 || !gjson.ValidBytes(reportData) {
		return doc
	}
	data := gjson.ParseBytes(reportData)
	if !data.IsObject() {
		return doc
	}

	fields := orderedFields(data)
	byKey := make(map[string]gjson.Result, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f.Value
	}

	if title, ok := byKey["report_title"]; ok && !isEmptyValue(title) {
		doc.Title = strings.TrimSpace(scalarText(title))
	}

	for _, entry := range catalog {
		value, ok := byKey[entry.Key]
		if !ok || isEmptyValue(value) {
			continue
		}
		doc.Sections = append(doc.Sections, BuildSection(entry.Key, value, ""))
	}

	if needsRawData(byKey) {
		raw := BuildSection(RawDataKey, data, RawDataTitle)
		raw.Icon = RawDataIcon
		doc.Sections = append(doc.Sections, raw)
	}
	return doc
}

// NormalizeReport normalisiert einen Report und übernimmt dessen Zeitstempel als GeneratedAt.
func NormalizeReport(r models.Report) models.Document {
	doc := Normalize(r.ReportData)
	doc.GeneratedAt = r.Time()
	return doc
}

// needsRawData erkennt ein unbekanntes Schema: mehr als zwei Schlüssel und kein Sentinel-Schlüssel.
func needsRawData(byKey map[string]gjson.Result) bool {
	if len(byKey) <= 2 {
		return false
	}
	for _, key := range rawDataSentinels {
		if _, ok := byKey[key]; ok {
			return false
		}
	}
	return true
}
