package nodes

import (
	"context"
	"errors"
	"time"

	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/knowledge"
	"github.com/harborview/maya/internal/memory"
	"github.com/harborview/maya/pkg"
)

// LearnNode records the finished turn and feeds it to the reinforcement loop
type LearnNode struct {
	memory     *memory.Manager
	reinforcer *knowledge.Reinforcer
}

// NewLearnNode creates a new learning node
func NewLearnNode(m *memory.Manager, r *knowledge.Reinforcer) *LearnNode {
	return &LearnNode{memory: m, reinforcer: r}
}

// Execute logs the conversation turn and rewards the matched knowledge entry
func (n *LearnNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if input.Analysis == nil {
		return core.NodeOutput{}, errors.New("learn node requires an analysis result")
	}

	turn := pkg.ConversationTurn{
		SessionID: input.SessionID,
		Utterance: input.Utterance,
		Analysis:  *input.Analysis,
		Reply:     input.Reply,
		CreatedAt: time.Now(),
	}
	if input.Strategy != nil {
		turn.Strategy = *input.Strategy
	}

	turn.TurnIndex = n.memory.LogTurn(ctx, turn)
	n.reinforcer.EvaluateTurn(turn, input.Matched)

	return core.NodeOutput{
		Data: map[string]any{
			"turn_index": turn.TurnIndex,
		},
		Complete: true,
	}, nil
}

// GetName returns the node name
func (n *LearnNode) GetName() string {
	return "learn"
}

// GetType returns the node type
func (n *LearnNode) GetType() core.NodeType {
	return core.NodeTypeLearn
}
