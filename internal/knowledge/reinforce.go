package knowledge

import (
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/pkg"
)

// quality heuristic thresholds for judging a generated reply "good"
const (
	goodReplyMinLength = 80
)

// Adjustment is one pending priority delta with its audit reason.
type Adjustment struct {
	EntryID string
	Delta   int
	Reason  string
}

// Reinforcer applies priority adjustments off the request path. Every
// adjustment is applied at least once: the worker pool handles the normal
// case and a failed submit falls back to applying inline.
type Reinforcer struct {
	store    *Store
	feedback *FeedbackLog
	pool     *ants.Pool
}

// NewReinforcer creates the reinforcement loop with the given worker count.
func NewReinforcer(store *Store, feedback *FeedbackLog, workers int) (*Reinforcer, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Reinforcer{store: store, feedback: feedback, pool: pool}, nil
}

// EvaluateTurn inspects a completed turn. A reply judged good by the
// length/structure heuristic earns its matched entry a priority bump; a
// turn with no matched entry is counted as a curation miss.
func (r *Reinforcer) EvaluateTurn(turn pkg.ConversationTurn, matched *pkg.KnowledgeEntry) {
	if matched == nil {
		if topic := string(turn.Analysis.Intent); topic != "" {
			r.store.RecordMiss(topic)
		}
		return
	}

	if isGoodReply(turn.Reply) {
		r.apply(Adjustment{EntryID: matched.ID, Delta: 1, Reason: "good_reply"})
	}
}

// RecordFeedback persists explicit user feedback and converts it into a
// priority adjustment for the entry matching the original query. A log
// write failure is logged and dropped, never fatal to the conversation.
func (r *Reinforcer) RecordFeedback(query, response string, satisfaction pkg.Satisfaction) {
	record := pkg.FeedbackRecord{
		Query:        query,
		Response:     response,
		Satisfaction: satisfaction,
		CreatedAt:    time.Now(),
	}
	if err := r.feedback.Append(record); err != nil {
		logger.Warn().Err(err).Msg("feedback append failed, dropping record")
	}

	var delta int
	switch satisfaction {
	case pkg.SatisfactionHelpful:
		delta = 1
	case pkg.SatisfactionUnhelpful:
		delta = -1
	default:
		return
	}

	matched := r.store.Lookup(query)
	if matched == nil {
		r.store.RecordMiss("feedback:" + string(satisfaction))
		return
	}
	r.apply(Adjustment{EntryID: matched.ID, Delta: delta, Reason: "feedback_" + string(satisfaction)})
}

// apply hands the adjustment to the pool, or runs it inline when the pool
// refuses, so no learning signal is silently lost.
func (r *Reinforcer) apply(adj Adjustment) {
	task := func() { r.applyNow(adj) }
	if err := r.pool.Submit(task); err != nil {
		r.applyNow(adj)
	}
}

func (r *Reinforcer) applyNow(adj Adjustment) {
	if err := r.store.AdjustPriority(adj.EntryID, adj.Delta); err != nil {
		logger.Warn().Err(err).Str("entry", adj.EntryID).Msg("priority adjustment failed")
		return
	}
	if err := r.store.Flush(); err != nil {
		logger.Warn().Err(err).Msg("knowledge flush failed, retrying once")
		if err := r.store.Flush(); err != nil {
			logger.Error().Err(err).Msg("knowledge flush retry failed")
		}
	}
	logger.Debug().
		Str("entry", adj.EntryID).
		Int("delta", adj.Delta).
		Str("reason", adj.Reason).
		Msg("knowledge priority adjusted")
}

// Close drains the worker pool.
func (r *Reinforcer) Close() {
	r.pool.Release()
}

// isGoodReply is the deterministic length/structure heuristic: long
// enough to carry information and structured as at least one paragraph.
func isGoodReply(reply string) bool {
	return len(reply) >= goodReplyMinLength && strings.Contains(reply, "<p>")
}
