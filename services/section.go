package services

import (
	"fmt"

	"github.com/tidwall/gjson"

	"aura-report/models"
)

const (
	// ObjectPlaceholder ersetzt verschachtelte Objekte innerhalb einer generischen Map.
	ObjectPlaceholder = "(Object)"
	// MissingScore steht in einer KoshaMap für Einträge ohne score.
	MissingScore = "N/A"
)

// BuildSection baut aus einem (key, value)-Paar einen Abschnitt.
// titleHint überschreibt den Katalogtitel und steuert damit auch die KoshaMap-Erkennung.
func BuildSection(key string, value gjson.Result, titleHint string) models.Section {
	entry, _ := LookupEntry(key)
	title := entry.Title
	if titleHint != "" {
		title = titleHint
	}

	section := models.Section{
		Key:   key,
		Title: title,
		Icon:  entry.Icon,
		Kind:  Classify(value, title),
	}

	switch section.Kind {
	case models.KindScalar:
		section.Text = scalarText(value)
	case models.KindList:
		section.Items = listItems(value)
	case models.KindKoshaMap:
		section.Children = koshaChildren(value)
	case models.KindMap:
		section.Children = mapChildren(value)
	}
	return section
}

// listItems rendert jedes Element als eine Zeile. Objekte werden nicht weiter zerlegt.
func listItems(value gjson.Result) []string {
	var items []string
	for _, el := range value.Array() {
		items = append(items, scalarText(el))
	}
	return items
}

// koshaChildren rendert pro Kosha genau eine Zeile "<Name>: <score>", alle anderen Felder entfallen.
func koshaChildren(value gjson.Result) []models.Section {
	var children []models.Section
	for _, f := range orderedFields(value) {
		name := SynthesizeTitle(f.Key)
		score := MissingScore
		if f.Value.IsObject() {
			if s := f.Value.Get("score"); s.Exists() && s.Type != gjson.Null {
				score = scalarText(s)
			}
		}
		children = append(children, models.Section{
			Key:   f.Key,
			Title: name,
			Icon:  DefaultIcon,
			Kind:  models.KindScalar,
			Text:  fmt.Sprintf("%s: %s", name, score),
		})
	}
	return children
}

// mapChildren rendert die Einträge einer Map mit fester Tiefe 1.
func mapChildren(value gjson.Result) []models.Section {
	var children []models.Section
	for _, f := range orderedFields(value) {
		entry, _ := LookupEntry(f.Key)
		child := models.Section{
			Key:   f.Key,
			Title: entry.Title,
			Icon:  entry.Icon,
		}
		switch {
		case f.Value.IsArray():
			child.Kind = models.KindList
			child.Items = listItems(f.Value)
		case f.Value.IsObject():
			child.Kind = models.KindScalar
			child.Text = ObjectPlaceholder
		default:
			child.Kind = models.KindScalar
			child.Text = scalarText(f.Value)
		}
		children = append(children, child)
	}
	return children
}

// Toggle liefert eine Kopie des Abschnitts mit umgeschaltetem Expanded-Flag.
// Das Original und die Kinder bleiben unverändert.
func Toggle(s models.Section) models.Section {
	s.Expanded = !s.Expanded
	return s
}

// ToggleAt schaltet genau den über path (Schlüssel je Ebene) adressierten Abschnitt um.
// Entlang des Pfads werden neue Slices angelegt, alle anderen Abschnitte werden geteilt.
func ToggleAt(doc models.Document, path ...string) (models.Document, bool) {
	sections, ok := toggleIn(doc.Sections, path)
	if !ok {
		return doc, false
	}
	doc.Sections = sections
	return doc, true
}

func toggleIn(sections []models.Section, path []string) ([]models.Section, bool) {
	if len(path) == 0 {
		return sections, false
	}
	for i, s := range sections {
		if s.Key != path[0] {
			continue
		}
		next := s
		if len(path) == 1 {
			next = Toggle(s)
		} else {
			children, ok := toggleIn(s.Children, path[1:])
			if !ok {
				return sections, false
			}
			next.Children = children
		}
		out := make([]models.Section, len(sections))
		copy(out, sections)
		out[i] = next
		return out, true
	}
	return sections, false
}
