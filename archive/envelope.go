package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biograph-labs/episteme/core"
)

// Envelope wraps a stored trace with integrity metadata. The SHA256
// covers the serialized trace payload so tampering with an archived
// audit record is detectable on reload.
type Envelope struct {
	ID        string           `json:"id"`
	GapID     string           `json:"gap_id"`
	Status    core.TraceStatus `json:"status"`
	SHA256    string           `json:"sha256"`
	CreatedAt string           `json:"created_at"`
	Trace     json.RawMessage  `json:"trace"`
}

// NewEnvelope seals a trace into an envelope.
func NewEnvelope(id string, trace *core.Trace) (*Envelope, error) {
	payload, err := json.Marshal(trace)
	if err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	hash := sha256.Sum256(payload)
	return &Envelope{
		ID:        id,
		GapID:     trace.GapID,
		Status:    trace.Status,
		SHA256:    hex.EncodeToString(hash[:]),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Trace:     payload,
	}, nil
}

// Validate checks required fields and the payload checksum.
func (e *Envelope) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("envelope id is required")
	}
	if e.GapID == "" {
		return fmt.Errorf("envelope gap id is required")
	}
	if len(e.Trace) == 0 {
		return fmt.Errorf("envelope trace payload is required")
	}
	hash := sha256.Sum256(e.Trace)
	if actual := hex.EncodeToString(hash[:]); actual != e.SHA256 {
		return fmt.Errorf("SHA256 mismatch: expected %s, got %s", e.SHA256, actual)
	}
	return nil
}

// Open decodes the sealed trace.
func (e *Envelope) Open() (*core.Trace, error) {
	var trace core.Trace
	if err := json.Unmarshal(e.Trace, &trace); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &trace, nil
}

// ToJSON converts the envelope to JSON
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// FromJSON creates an envelope from JSON
func FromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
