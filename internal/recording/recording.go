// Package recording ships committed character selections to a training
// data collector.
//
// A selection is the final stroke collection, the candidate list it
// produced, and the character the user chose. Delivery is best effort:
// failures are logged and never reach the drawing session. A local
// journal keeps selections that could not be delivered.
package recording

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"inkpick/internal/geom"
	"inkpick/internal/matcher"
)

// Selection is one committed character choice.
type Selection struct {
	// ID is the hex BLAKE2b-256 digest of the selection content, so
	// replayed deliveries deduplicate on the collector side.
	ID string `json:"id"`

	// SessionID groups selections drawn in one session.
	SessionID string `json:"session_id"`

	// Character is the candidate the user committed.
	Character string `json:"character"`

	// Strokes is the final committed stroke collection.
	Strokes geom.Collection `json:"strokes"`

	// Candidates is the candidate list the character was chosen from.
	Candidates []matcher.Candidate `json:"candidates"`

	// RecordedAt is when the selection was committed.
	RecordedAt time.Time `json:"recorded_at"`
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewSelection builds a Selection with its content digest filled in.
func NewSelection(sessionID, character string, strokes geom.Collection, candidates []matcher.Candidate) (Selection, error) {
	sel := Selection{
		SessionID:  sessionID,
		Character:  character,
		Strokes:    strokes,
		Candidates: candidates,
		RecordedAt: time.Now().UTC(),
	}
	id, err := sel.digest()
	if err != nil {
		return Selection{}, err
	}
	sel.ID = id
	return sel, nil
}

// digest hashes the selection content, excluding the ID itself.
func (s Selection) digest() (string, error) {
	content := s
	content.ID = ""
	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("encode selection: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Recorder delivers selections. Implementations must treat delivery as
// fire and forget: an error is diagnostic, never fatal.
type Recorder interface {
	Record(ctx context.Context, sel Selection) error
	Close() error
}
