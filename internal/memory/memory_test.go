package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/maya/pkg"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewRedisStoreFromClient(client)
}

func TestRedisStorePutGet(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", "pref_room_type", "Harbor Suite", pkg.ImportanceHigh))

	record, err := store.Get(ctx, "s1", "pref_room_type")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Suite", record.Value)
	assert.Equal(t, pkg.ImportanceHigh, record.Importance)

	// recall increments access count
	record, err = store.Get(ctx, "s1", "pref_room_type")
	require.NoError(t, err)
	assert.Equal(t, 2, record.AccessCount)
}

func TestRedisStoreLastWriteWins(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", "pref_budget", "100-200", pkg.ImportanceLow))
	require.NoError(t, store.Put(ctx, "s1", "pref_budget", "200-300", pkg.ImportanceHigh))

	record, err := store.Get(ctx, "s1", "pref_budget")
	require.NoError(t, err)
	assert.Equal(t, "200-300", record.Value)
	assert.Equal(t, pkg.ImportanceHigh, record.Importance)
}

func TestRedisStoreSessionIsolation(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", "pref_budget", "100-200", pkg.ImportanceLow))

	_, err := store.Get(ctx, "s2", "pref_budget")
	assert.ErrorIs(t, err, ErrNotFound)

	records, err := store.GetAll(ctx, "s2", 24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// writeAgedRecord plants a record with a back-dated CreatedAt.
func writeAgedRecord(t *testing.T, store *RedisStore, sessionID, key string, age time.Duration) {
	t.Helper()
	record := pkg.MemoryRecord{
		Key:       key,
		Value:     "stale",
		CreatedAt: time.Now().Add(-age),
	}
	data, err := sonic.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, store.client.HSet(context.Background(), memKey(sessionID), key, data).Err())
}

func TestRedisStoreHorizons(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", "fresh", "v", pkg.ImportanceLow))
	writeAgedRecord(t, store, "s1", "stale_day", 25*time.Hour)
	writeAgedRecord(t, store, "s1", "stale_week", 8*24*time.Hour)

	// the 24h horizon hides old records from context derivation
	records, err := store.GetAll(ctx, "s1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh", records[0].Key)

	// the 7d sweep removes them permanently
	removed, err := store.Sweep(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "s1", "stale_week")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "s1", "stale_day")
	assert.NoError(t, err)
}

func TestRedisTurnLogIndexes(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		idx, err := store.Append(ctx, pkg.ConversationTurn{SessionID: "s1", Utterance: "hi"})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	turns, err := store.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	for i, turn := range turns {
		assert.Equal(t, i, turn.TurnIndex)
	}
}

func TestLocalStorePutGetSweep(t *testing.T) {
	store := NewLocalStore(16, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", "pref_room_type", "Family Room", pkg.ImportanceMedium))

	record, err := store.Get(ctx, "s1", "pref_room_type")
	require.NoError(t, err)
	assert.Equal(t, "Family Room", record.Value)

	// back-date the record and sweep it out
	data := store.session("s1")
	data.mu.Lock()
	data.records["pref_room_type"].CreatedAt = time.Now().Add(-8 * 24 * time.Hour)
	data.mu.Unlock()

	removed, err := store.Sweep(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "s1", "pref_room_type")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalTurnLogIndexes(t *testing.T) {
	store := NewLocalStore(16, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		idx, err := store.Append(ctx, pkg.ConversationTurn{SessionID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
}

func TestManagerContextDerivation(t *testing.T) {
	store := NewLocalStore(16, time.Hour)
	mgr := NewManager(store, store, 24*time.Hour)
	ctx := context.Background()

	analysis := pkg.AnalysisResult{
		Intent:    pkg.IntentBookingImmediate,
		Sentiment: pkg.SentimentPositive,
		Entities: map[pkg.EntityKind]string{
			pkg.EntityRoomType:   "Deluxe King",
			pkg.EntityGuestCount: "2",
		},
	}
	mgr.RecordAnalysis(ctx, "s1", analysis)

	for i := 0; i < 3; i++ {
		mgr.LogTurn(ctx, pkg.ConversationTurn{
			SessionID: "s1",
			Utterance: "how much is the deluxe room",
			Analysis:  pkg.AnalysisResult{Intent: pkg.IntentPricingInquiry, Sentiment: pkg.SentimentNeutral},
			CreatedAt: time.Now(),
		})
	}

	mc := mgr.Context(ctx, "s1")
	assert.Equal(t, "Deluxe King", mc.Preferences.RoomType)
	assert.Equal(t, "2", mc.Preferences.GuestCount)
	assert.Equal(t, pkg.StageReadyToBook, mc.BookingStage)
	assert.Equal(t, 3, mc.TurnCount)
	assert.Len(t, mc.EmotionalJourney, 3)
	assert.Equal(t, 3, mc.RecurringTopics["pricing"])
}

func TestManagerStageNeverRegresses(t *testing.T) {
	store := NewLocalStore(16, time.Hour)
	mgr := NewManager(store, store, 24*time.Hour)
	ctx := context.Background()

	mgr.RecordAnalysis(ctx, "s1", pkg.AnalysisResult{Intent: pkg.IntentBookingImmediate, Entities: map[pkg.EntityKind]string{}})
	mc := mgr.Context(ctx, "s1")
	require.Equal(t, pkg.StageReadyToBook, mc.BookingStage)

	// a later greeting must not roll the stage back
	mgr.RecordAnalysis(ctx, "s1", pkg.AnalysisResult{Intent: pkg.IntentGreeting, Entities: map[pkg.EntityKind]string{}})
	mc = mgr.Context(ctx, "s1")
	assert.Equal(t, pkg.StageReadyToBook, mc.BookingStage)
}

func TestManagerEmotionalJourneyWindow(t *testing.T) {
	store := NewLocalStore(16, time.Hour)
	mgr := NewManager(store, store, 24*time.Hour)
	ctx := context.Background()

	sentiments := []pkg.SentimentLabel{
		pkg.SentimentNeutral, pkg.SentimentNeutral, pkg.SentimentNegative,
		pkg.SentimentNegative, pkg.SentimentNeutral, pkg.SentimentPositive,
		pkg.SentimentPositive,
	}
	for _, s := range sentiments {
		mgr.LogTurn(ctx, pkg.ConversationTurn{
			SessionID: "s1",
			Analysis:  pkg.AnalysisResult{Sentiment: s},
			CreatedAt: time.Now(),
		})
	}

	mc := mgr.Context(ctx, "s1")
	require.Len(t, mc.EmotionalJourney, 5)
	assert.Equal(t, pkg.SentimentPositive, mc.EmotionalJourney[4])
	assert.Equal(t, pkg.SentimentNegative, mc.EmotionalJourney[0])
}

func TestClassifyStyle(t *testing.T) {
	assert.Contains(t, classifyStyle("could you please show me the suites"), "formal")
	assert.Contains(t, classifyStyle("hey cool"), "casual")
	assert.Contains(t, classifyStyle("price?"), "direct")
	assert.Contains(t, classifyStyle("I am travelling with my family of four next month and would like a quiet room away from the elevator please"), "detailed")
}
