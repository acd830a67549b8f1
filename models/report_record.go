package models

import (
	"encoding/json"
	"time"
)

// ReportRecord ist eine Zeile der vom Analytics-Service befüllten Tabelle.
// Dieser Service liest die Tabelle nur.
type ReportRecord struct {
	ID         int       `gorm:"primaryKey"`
	UserID     string    `gorm:"column:user_id;index"`
	ReportType string    `gorm:"column:report_type"`
	Timestamp  time.Time `gorm:"column:timestamp;index"`
	ReportData []byte    `gorm:"column:report_data;type:jsonb"`
}

// TableName gibt explizit den Tabellennamen an.
func (ReportRecord) TableName() string {
	return "analytics_reports"
}

// ToReport konvertiert die Zeile in das Report-Modell des Envelopes.
func (r ReportRecord) ToReport() Report {
	var data json.RawMessage
	if len(r.ReportData) > 0 {
		data = json.RawMessage(r.ReportData)
	}
	return Report{
		ID:         r.ID,
		ReportType: r.ReportType,
		Timestamp:  r.Timestamp.UTC().Format(time.RFC3339Nano),
		ReportData: data,
	}
}
