package services

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"aura-report/models"
)

// Classify ordnet einem Feldwert seine strukturelle Art zu.
// Der aufgelöste Titel entscheidet, ob ein Objekt als KoshaMap gilt.
func Classify(value gjson.Result, title string) models.Kind {
	switch {
	case value.Type == gjson.String:
		return models.KindScalar
	case value.IsArray():
		return models.KindList
	case value.IsObject() && title == KoshaAssessmentTitle:
		return models.KindKoshaMap
	case value.IsObject():
		return models.KindMap
	default:
		// Zahlen, Booleans, null
		return models.KindScalar
	}
}

// field ist ein Schlüssel-Wert-Paar eines Objekts in Quellreihenfolge.
type field struct {
	Key   string
	Value gjson.Result
}

// orderedFields liefert die Felder eines Objekts in Quellreihenfolge.
// Doppelte Schlüssel: Position des ersten Vorkommens, Wert des letzten (wie encoding/json).
func orderedFields(obj gjson.Result) []field {
	if !obj.IsObject() {
		return nil
	}
	var fields []field
	pos := map[string]int{}
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if i, ok := pos[k]; ok {
			fields[i].Value = value
			return true
		}
		pos[k] = len(fields)
		fields = append(fields, field{Key: k, Value: value})
		return true
	})
	return fields
}

// scalarText wandelt einen Skalar in Text um. Strings bleiben unverändert.
func scalarText(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return value.Str
	case gjson.JSON:
		return stableText(value)
	default:
		return value.String()
	}
}

// stableText serialisiert Objekte und Arrays mit sortierten Schlüsseln, damit die Ausgabe deterministisch ist.
func stableText(value gjson.Result) string {
	raw, err := json.Marshal(value.Value())
	if err != nil {
		return strings.TrimSpace(value.Raw)
	}
	return string(raw)
}

// isEmptyValue gilt für fehlende Werte, null, leere Strings, leere Arrays und leere Objekte.
func isEmptyValue(value gjson.Result) bool {
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return true
	case value.Type == gjson.String:
		return strings.TrimSpace(value.Str) == ""
	case value.IsArray():
		return len(value.Array()) == 0
	case value.IsObject():
		empty := true
		value.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	default:
		return false
	}
}
