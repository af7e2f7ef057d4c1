package memory

import (
	"context"
	"errors"
	"time"

	"github.com/harborview/maya/pkg"
)

// ErrNotFound is returned when a session has no record under a key.
var ErrNotFound = errors.New("memory record not found")

// Store is the per-session key/value memory contract. Writes are
// last-write-wins per key; Get increments the record's access count.
// Sessions never see each other's records.
type Store interface {
	Put(ctx context.Context, sessionID, key, value string, importance pkg.Importance) error
	Get(ctx context.Context, sessionID, key string) (*pkg.MemoryRecord, error)
	GetAll(ctx context.Context, sessionID string, maxAge time.Duration) ([]pkg.MemoryRecord, error)
	Sweep(ctx context.Context, olderThan time.Duration) (int, error)
}

// TurnLog is the append-only conversation log. Append assigns the next
// turn index for the session; indexes are strictly increasing.
type TurnLog interface {
	Append(ctx context.Context, turn pkg.ConversationTurn) (int, error)
	Recent(ctx context.Context, sessionID string, n int) ([]pkg.ConversationTurn, error)
}
