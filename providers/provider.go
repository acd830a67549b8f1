package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aura-report/models"
)

// Fehler-Taxonomie an der Fetcher-Grenze.
var (
	// ErrMalformedPayload: Envelope oder Report-Liste ist kein verwertbares Objekt.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNoData: der Fetcher hat eine leere Ergebnismenge geliefert.
	ErrNoData = errors.New("no data")
	// ErrNetworkFailure: Transport- oder Quellfehler, Nachricht wird unverändert weitergereicht.
	ErrNetworkFailure = errors.New("network failure")
)

// Error trägt eine Fehlerart der Taxonomie und die Nachricht der Quelle unverändert.
type Error struct {
	Kind    error
	Message string
}

// NewError erstellt einen Fehler der Art kind. Eine leere Nachricht fällt auf den Text der Art zurück.
func NewError(kind error, message string) error {
	if message == "" {
		message = kind.Error()
	}
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Kind liefert den Namen der Fehlerart für Logs, Metriken und API-Antworten.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrNoData):
		return "no_data"
	default:
		return "network_failure"
	}
}

// Provider ist das Interface, das jede Report-Quelle (Analytics-API, Postgres, Archiv) implementieren muss.
type Provider interface {
	// FetchReports holt alle Reports eines Nutzers. Die Nutzer-ID wird explizit übergeben.
	FetchReports(ctx context.Context, userID string) (*models.Envelope, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "analytics").
	Name() string
}

// DecodeEnvelope dekodiert die rohe Fetcher-Antwort. Fehler werden auf ErrMalformedPayload abgebildet.
func DecodeEnvelope(raw []byte) (*models.Envelope, error) {
	if !json.Valid(raw) {
		return nil, NewError(ErrMalformedPayload, "malformed payload: response is not valid JSON")
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, NewError(ErrMalformedPayload, "malformed payload: envelope is not an object")
	}
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, NewError(ErrMalformedPayload, fmt.Sprintf("malformed payload: %v", err))
	}
	return &env, nil
}
