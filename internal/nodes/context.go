package nodes

import (
	"context"
	"errors"

	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/memory"
)

// ContextNode folds the turn's analysis into session memory and loads the
// derived conversation context for downstream nodes
type ContextNode struct {
	memory *memory.Manager
}

// NewContextNode creates a new context node
func NewContextNode(m *memory.Manager) *ContextNode {
	return &ContextNode{memory: m}
}

// Execute records the analysis and derives the memory context
func (n *ContextNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if input.Analysis == nil {
		return core.NodeOutput{}, errors.New("context node requires an analysis result")
	}

	n.memory.RecordAnalysis(ctx, input.SessionID, *input.Analysis)
	mc := n.memory.Context(ctx, input.SessionID)

	return core.NodeOutput{
		Data: map[string]any{
			"context": &mc,
		},
	}, nil
}

// GetName returns the node name
func (n *ContextNode) GetName() string {
	return "context"
}

// GetType returns the node type
func (n *ContextNode) GetType() core.NodeType {
	return core.NodeTypeContext
}
