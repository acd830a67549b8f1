package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind ist die strukturelle Art eines Abschnitts, wie sie der Classifier vergibt.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
	KindKoshaMap
)

var kindNames = map[Kind]string{
	KindScalar:   "scalar",
	KindList:     "list",
	KindMap:      "map",
	KindKoshaMap: "kosha_map",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown section kind %d", int(k))
	}
	return json.Marshal(name)
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown section kind %q", name)
}

// Section ist eine aufklappbare Einheit eines Documents.
// Text trägt den Wert eines Scalars, Items die Zeilen einer Liste, Children die Einträge einer Map/KoshaMap.
type Section struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Icon     string    `json:"icon"`
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Items    []string  `json:"items,omitempty"`
	Children []Section `json:"children,omitempty"`
	Expanded bool      `json:"expanded"`
}

// Document ist die kanonische, geordnete Darstellung eines Reports.
type Document struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}
