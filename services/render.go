package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"aura-report/models"
)

// SectionLines rendert einen Abschnitt als Textzeilen.
func SectionLines(s models.Section) []string {
	switch s.Kind {
	case models.KindList:
		return bullets(s.Items, "")
	case models.KindKoshaMap:
		lines := make([]string, 0, len(s.Children))
		for _, c := range s.Children {
			lines = append(lines, c.Text)
		}
		return lines
	case models.KindMap:
		var lines []string
		for _, c := range s.Children {
			if c.Kind == models.KindList {
				lines = append(lines, c.Title+":")
				lines = append(lines, bullets(c.Items, "  ")...)
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s", c.Title, c.Text))
		}
		return lines
	default:
		return []string{s.Text}
	}
}

func bullets(items []string, indent string) []string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, indent+"• "+it)
	}
	return lines
}

// RenderText schreibt eine ReportView als Klartext. Zugeklappte Abschnitte zeigen nur ihren Titel,
// außer showAll ist gesetzt.
func RenderText(w io.Writer, v ReportView, showAll bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", v.Document.Title)
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", len([]rune(v.Document.Title))))
	if !v.Document.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", v.Document.GeneratedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "Frequency: %s (%d%%, %s)\n", v.FrequencyGauge.Label, v.FrequencyGauge.Percentage, v.FrequencyGauge.Level)
	if v.ScoreGauge != nil {
		fmt.Fprintf(&b, "Score: %s (%d%%)\n", v.ScoreGauge.Label, v.ScoreGauge.Percentage)
	}

	for _, s := range v.Document.Sections {
		marker := "▸"
		if s.Expanded || showAll {
			marker = "▾"
		}
		fmt.Fprintf(&b, "\n%s %s\n", marker, s.Title)
		if !s.Expanded && !showAll {
			continue
		}
		for _, line := range SectionLines(s) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatHz(hz float64) string {
	return strconv.FormatFloat(hz, 'f', -1, 64) + " Hz"
}

func formatScore(score, maxScore float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/" + strconv.FormatFloat(maxScore, 'f', -1, 64)
}
