package models

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotRecord is a persisted, serialized knowledge base generation.
type SnapshotRecord struct {
	Version  uuid.UUID `json:"version"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Document []byte    `json:"-"`
	BuiltAt  time.Time `json:"built_at"`
}
