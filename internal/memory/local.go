package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/harborview/maya/pkg"
)

// sessionData holds one session's records and turn log.
type sessionData struct {
	mu      sync.Mutex
	records map[string]*pkg.MemoryRecord
	turns   []pkg.ConversationTurn
	nextIdx int
}

// LocalStore is the in-process implementation used for development and
// tests when Redis is not configured. Whole sessions are evicted LRU-style
// once the cap or the TTL is hit; this is a best-effort cache, losing a
// session on eviction is accepted.
type LocalStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *sessionData]
}

// NewLocalStore creates an in-process store capped at maxSessions with the
// given idle TTL.
func NewLocalStore(maxSessions int, ttl time.Duration) *LocalStore {
	return &LocalStore{
		sessions: expirable.NewLRU[string, *sessionData](maxSessions, nil, ttl),
	}
}

func (l *LocalStore) session(sessionID string) *sessionData {
	l.mu.Lock()
	defer l.mu.Unlock()

	if data, ok := l.sessions.Get(sessionID); ok {
		return data
	}
	data := &sessionData{records: make(map[string]*pkg.MemoryRecord)}
	l.sessions.Add(sessionID, data)
	return data
}

func (l *LocalStore) Put(ctx context.Context, sessionID, key, value string, importance pkg.Importance) error {
	data := l.session(sessionID)
	data.mu.Lock()
	defer data.mu.Unlock()

	data.records[key] = &pkg.MemoryRecord{
		Key:        key,
		Value:      value,
		Importance: importance,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (l *LocalStore) Get(ctx context.Context, sessionID, key string) (*pkg.MemoryRecord, error) {
	data := l.session(sessionID)
	data.mu.Lock()
	defer data.mu.Unlock()

	record, ok := data.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	record.AccessCount++

	copied := *record
	return &copied, nil
}

func (l *LocalStore) GetAll(ctx context.Context, sessionID string, maxAge time.Duration) ([]pkg.MemoryRecord, error) {
	data := l.session(sessionID)
	data.mu.Lock()
	defer data.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	records := make([]pkg.MemoryRecord, 0, len(data.records))
	for _, record := range data.records {
		if record.CreatedAt.Before(cutoff) {
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

func (l *LocalStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	l.mu.Lock()
	keys := l.sessions.Keys()
	l.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, sessionID := range keys {
		l.mu.Lock()
		data, ok := l.sessions.Get(sessionID)
		l.mu.Unlock()
		if !ok {
			continue
		}

		data.mu.Lock()
		for key, record := range data.records {
			if record.CreatedAt.Before(cutoff) {
				delete(data.records, key)
				removed++
			}
		}
		data.mu.Unlock()
	}
	return removed, nil
}

func (l *LocalStore) Append(ctx context.Context, turn pkg.ConversationTurn) (int, error) {
	data := l.session(turn.SessionID)
	data.mu.Lock()
	defer data.mu.Unlock()

	turn.TurnIndex = data.nextIdx
	data.nextIdx++

	data.turns = append(data.turns, turn)
	if len(data.turns) > maxLoggedTurns {
		data.turns = data.turns[len(data.turns)-maxLoggedTurns:]
	}
	return turn.TurnIndex, nil
}

func (l *LocalStore) Recent(ctx context.Context, sessionID string, n int) ([]pkg.ConversationTurn, error) {
	data := l.session(sessionID)
	data.mu.Lock()
	defer data.mu.Unlock()

	turns := data.turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}

	out := make([]pkg.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}
