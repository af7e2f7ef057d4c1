package nodes

import (
	"context"
	"errors"
	"time"

	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/knowledge"
	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/internal/provider"
	"github.com/harborview/maya/internal/responder"
	"github.com/harborview/maya/internal/strategy"
)

// defaultSnapshotTimeout bounds the live-data fetch so a slow property
// system cannot hold up the reply.
const defaultSnapshotTimeout = 3 * time.Second

// RespondNode selects a strategy and composes the actual reply
type RespondNode struct {
	generator       *responder.Generator
	kb              *knowledge.Store
	rooms           provider.RoomDataProvider
	snapshotTimeout time.Duration
}

// NewRespondNode creates a new response node
func NewRespondNode(gen *responder.Generator, kb *knowledge.Store, rooms provider.RoomDataProvider, snapshotTimeout time.Duration) *RespondNode {
	if snapshotTimeout <= 0 {
		snapshotTimeout = defaultSnapshotTimeout
	}
	return &RespondNode{
		generator:       gen,
		kb:              kb,
		rooms:           rooms,
		snapshotTimeout: snapshotTimeout,
	}
}

// Execute picks a strategy, consults the knowledge base and live room data,
// and generates the reply
func (n *RespondNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if input.Analysis == nil || input.Context == nil {
		return core.NodeOutput{}, errors.New("respond node requires analysis and context")
	}

	strat := strategy.Select(*input.Analysis, *input.Context)

	var kbResponse string
	matched := n.kb.Lookup(input.Analysis.Raw)
	if matched != nil {
		kbResponse = matched.Response
	}

	fetchCtx, cancel := context.WithTimeout(ctx, n.snapshotTimeout)
	snapshot := provider.FetchSnapshot(fetchCtx, n.rooms)
	cancel()

	result := n.generator.Generate(*input.Analysis, strat, *input.Context, snapshot, kbResponse)

	logger.GetLogger().Debug().
		Str("session_id", input.SessionID).
		Str("tone", string(strat.Tone)).
		Str("structure", string(strat.Structure)).
		Str("approach", string(strat.Approach)).
		Bool("kb_hit", matched != nil).
		Bool("live_data", snapshot.Live).
		Msg("reply generated")

	data := map[string]any{
		"strategy":      &strat,
		"reply":         result.Reply,
		"quick_actions": result.QuickActions,
		"follow_ups":    result.FollowUps,
	}
	if matched != nil {
		data["matched_entry"] = matched
	}

	return core.NodeOutput{
		Data: data,
	}, nil
}

// GetName returns the node name
func (n *RespondNode) GetName() string {
	return "respond"
}

// GetType returns the node type
func (n *RespondNode) GetType() core.NodeType {
	return core.NodeTypeRespond
}
