package webhooks

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/getclientflow/clientflow-backend/pkg/enums"
)

// Envelope is the wire body POSTed to endpoints. It is marshaled exactly once
// per event so every endpoint and every retry receives byte-identical JSON.
type Envelope struct {
	ID      string             `json:"id"`
	Type    enums.WebhookEvent `json:"type"`
	Created string             `json:"created"`
	Data    any                `json:"data"`
}

// NewEnvelope assembles and serializes the delivery body for an event.
func NewEnvelope(event enums.WebhookEvent, data any) (*Envelope, []byte, error) {
	id, err := newEventID()
	if err != nil {
		return nil, nil, err
	}
	envelope := &Envelope{
		ID:      id,
		Type:    event,
		Created: time.Now().UTC().Format(time.RFC3339),
		Data:    data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling webhook envelope: %w", err)
	}
	return envelope, payload, nil
}

func newEventID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return "evt_" + hex.EncodeToString(buf), nil
}
