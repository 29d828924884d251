// Package reportlog keeps a redacted record of served requests. Entries
// never carry birth data or generated text.
package reportlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind is the request type an entry describes.
type Kind string

const (
	KindAnalyze       Kind = "analyze"
	KindCompatibility Kind = "compatibility"
	KindTranslate     Kind = "translate"
)

// AIStatus is the outcome of the completion call for a request.
type AIStatus string

const (
	AISkipped AIStatus = "skipped"
	AIOK      AIStatus = "ok"
	AIFailed  AIStatus = "failed"
)

// Entry is one redacted request record.
type Entry struct {
	ID            uuid.UUID `json:"id"`
	Kind          Kind      `json:"kind"`
	Language      string    `json:"language"`
	Mode          string    `json:"mode"`
	Zodiac        string    `json:"zodiac,omitempty"`
	ChineseZodiac string    `json:"chineseZodiac,omitempty"`
	MoonPhase     string    `json:"moonPhase,omitempty"`
	Degraded      bool      `json:"degraded"`
	AIStatus      AIStatus  `json:"aiStatus"`
	DurationMs    int64     `json:"durationMs"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store persists entries.
type Store interface {
	// Record stores e, assigning ID and CreatedAt when they are zero
	Record(ctx context.Context, e *Entry) error

	// Recent returns up to limit entries, newest first. limit <= 0 means
	// every entry the store still holds.
	Recent(ctx context.Context, limit int) ([]*Entry, error)
}

func stamp(e *Entry) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}
