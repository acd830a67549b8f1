package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Report ist ein einzelner, zeitgestempelter Analyse-Datensatz des externen Analytics-Service.
// ReportData bleibt als rohes JSON erhalten, damit die Schlüsselreihenfolge der Quelle nicht verloren geht.
type Report struct {
	ID         int             `json:"id"`
	ReportType string          `json:"report_type"`
	Timestamp  string          `json:"timestamp"`
	ReportData json.RawMessage `json:"report_data"`
}

// Time parst den ISO-8601-Zeitstempel. Unbekannte Formate liefern die Nullzeit.
func (r Report) Time() time.Time {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
	}
	ts := strings.TrimSpace(r.Timestamp)
	for _, layout := range layouts {
		t, err := time.Parse(layout, ts)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReportList akzeptiert im Envelope sowohl ein einzelnes Report-Objekt als auch ein Array.
type ReportList []Report

func (l *ReportList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	switch trimmed[0] {
	case '[':
		var reports []Report
		if err := json.Unmarshal(trimmed, &reports); err != nil {
			return err
		}
		*l = reports
		return nil
	case '{':
		var report Report
		if err := json.Unmarshal(trimmed, &report); err != nil {
			return err
		}
		*l = ReportList{report}
		return nil
	default:
		return fmt.Errorf("data must be a report object or an array of reports")
	}
}

// Envelope ist die Antwortstruktur des Fetchers: {success, data, message?}.
type Envelope struct {
	Success bool       `json:"success"`
	Data    ReportList `json:"data"`
	Message string     `json:"message,omitempty"`
}
