package core

import (
	"context"

	"github.com/harborview/maya/pkg"
)

// Node represents a single processing unit in the dialogue flow
type Node interface {
	Execute(ctx context.Context, input NodeInput) (NodeOutput, error)
	GetName() string
	GetType() NodeType
}

// NodeType defines the different types of nodes in the flow
type NodeType string

const (
	NodeTypeAnalyze NodeType = "analyze"
	NodeTypeContext NodeType = "context"
	NodeTypeRespond NodeType = "respond"
	NodeTypeLearn   NodeType = "learn"
)

// NodeInput contains the input data for a node
type NodeInput struct {
	SessionID string                 `json:"session_id"`
	Utterance string                 `json:"utterance"`
	Analysis  *pkg.AnalysisResult    `json:"analysis,omitempty"`
	Context   *pkg.MemoryContext     `json:"context,omitempty"`
	Strategy  *pkg.Strategy          `json:"strategy,omitempty"`
	Matched   *pkg.KnowledgeEntry    `json:"matched,omitempty"`
	Reply     string                 `json:"reply,omitempty"`
	Metadata  map[string]any         `json:"metadata"`
}

// NodeOutput contains the output data from a node
type NodeOutput struct {
	Data     map[string]any `json:"data"`
	NextNode string         `json:"next_node,omitempty"`
	Error    error          `json:"error,omitempty"`
	Complete bool           `json:"complete"`
}

// Engine orchestrates the execution of nodes in a dialogue flow
type Engine interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessOutput, error)
	AddNode(node Node) error
	GetNode(name string) (Node, error)
	SetFlow(flow Flow) error
}

// ProcessInput is the main input for one dialogue turn
type ProcessInput struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ProcessOutput is the main output from one dialogue turn
type ProcessOutput struct {
	Reply          string              `json:"reply"`
	Analysis       *pkg.AnalysisResult `json:"analysis,omitempty"`
	Strategy       *pkg.Strategy       `json:"strategy,omitempty"`
	QuickActions   []pkg.QuickAction   `json:"quick_actions,omitempty"`
	FollowUps      []string            `json:"follow_ups,omitempty"`
	BookingStage   pkg.BookingStage    `json:"booking_stage,omitempty"`
	TurnIndex      int                 `json:"turn_index"`
	ProcessingTime int64               `json:"processing_time_ms"`
	Metadata       map[string]any      `json:"metadata"`
}

// Flow defines the execution flow between nodes
type Flow struct {
	StartNode string            `json:"start_node"`
	Edges     map[string][]Edge `json:"edges"` // node_name -> possible next nodes
}

// Edge represents a connection between two nodes with conditions
type Edge struct {
	To        string         `json:"to"`
	Condition map[string]any `json:"condition,omitempty"`
	Priority  int            `json:"priority"`
}

// DefaultFlow is the standard analyze -> context -> respond -> learn pipeline.
func DefaultFlow() Flow {
	return Flow{
		StartNode: "analyze",
		Edges: map[string][]Edge{
			"analyze": {{To: "context"}},
			"context": {{To: "respond"}},
			"respond": {{To: "learn"}},
			"learn":   {{To: "complete"}},
		},
	}
}
