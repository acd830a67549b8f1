package services

import (
	"context"
	"sync/atomic"

	"aura-report/providers"
)

// ViewState ist ein unveränderlicher Snapshot einer View. Änderungen ersetzen den ganzen Snapshot.
type ViewState struct {
	Epoch   uint64
	UserID  string
	Loading bool
	Reports []ReportView
	Err     error
}

// ErrorKind liefert die Fehlerart des Snapshots oder "".
func (s ViewState) ErrorKind() string {
	return providers.Kind(s.Err)
}

// View hält den Zustand einer Report-Ansicht: höchstens ein ausstehender Fetch,
// Ergebnisse einer ersetzten Ansicht werden verworfen.
type View struct {
	builder ReportBuilder
	state   atomic.Pointer[ViewState]
}

// NewView erstellt eine leere View für userID.
func NewView(builder ReportBuilder, userID string) *View {
	v := &View{builder: builder}
	v.state.Store(&ViewState{UserID: userID})
	return v
}

// State liefert den aktuellen Snapshot.
func (v *View) State() ViewState {
	return *v.state.Load()
}

// Load startet die Pipeline. Läuft bereits ein Fetch, ist der Aufruf ein No-op und liefert false.
// Ein Ergebnis, das nach Replace eintrifft, wird verworfen.
func (v *View) Load(ctx context.Context) bool {
	var pending *ViewState
	for {
		cur := v.state.Load()
		if cur.Loading {
			return false
		}
		next := &ViewState{Epoch: cur.Epoch, UserID: cur.UserID, Loading: true}
		if v.state.CompareAndSwap(cur, next) {
			pending = next
			break
		}
	}

	reports, err := v.builder.Build(ctx, pending.UserID)
	result := &ViewState{Epoch: pending.Epoch, UserID: pending.UserID}
	if err != nil {
		result.Err = err
	} else {
		result.Reports = reports
	}
	// schlägt fehl, wenn die View inzwischen ersetzt wurde
	v.state.CompareAndSwap(pending, result)
	return true
}

// Reload verwirft den bisherigen Zustand und führt die Pipeline komplett neu aus.
func (v *View) Reload(ctx context.Context) bool {
	return v.Load(ctx)
}

// Replace ersetzt die Ansicht (z.B. Navigation zu einem anderen Nutzer). Ein laufender Fetch wird nicht
// abgebrochen, sein Ergebnis aber verworfen.
func (v *View) Replace(userID string) {
	for {
		cur := v.state.Load()
		if v.state.CompareAndSwap(cur, &ViewState{Epoch: cur.Epoch + 1, UserID: userID}) {
			return
		}
	}
}

// Toggle schaltet im Document docIndex den über path adressierten Abschnitt um.
func (v *View) Toggle(docIndex int, path ...string) bool {
	for {
		cur := v.state.Load()
		if docIndex < 0 || docIndex >= len(cur.Reports) {
			return false
		}
		doc, ok := ToggleAt(cur.Reports[docIndex].Document, path...)
		if !ok {
			return false
		}
		reports := make([]ReportView, len(cur.Reports))
		copy(reports, cur.Reports)
		reports[docIndex].Document = doc

		next := *cur
		next.Reports = reports
		if v.state.CompareAndSwap(cur, &next) {
			return true
		}
	}
}
