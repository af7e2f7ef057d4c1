package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/harborview/maya/internal/analyzer"
	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/logger"
)

// maxUtteranceLength caps guest input so a pasted document cannot stall
// the lexical scan.
const maxUtteranceLength = 2000

// AnalyzeNode runs the lexical analysis pass over the guest utterance
type AnalyzeNode struct {
	analyzer *analyzer.Analyzer
}

// NewAnalyzeNode creates a new analysis node
func NewAnalyzeNode(a *analyzer.Analyzer) *AnalyzeNode {
	return &AnalyzeNode{analyzer: a}
}

// Execute classifies intent, sentiment and entities for the utterance
func (n *AnalyzeNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if strings.TrimSpace(input.Utterance) == "" {
		return core.NodeOutput{}, errors.New("utterance cannot be empty")
	}
	if len(input.Utterance) > maxUtteranceLength {
		return core.NodeOutput{}, fmt.Errorf("utterance too long: %d characters (max: %d)", len(input.Utterance), maxUtteranceLength)
	}
	if !utf8.ValidString(input.Utterance) {
		return core.NodeOutput{}, errors.New("utterance contains invalid UTF-8")
	}

	analysis := n.analyzer.Analyze(input.Utterance)

	logger.GetLogger().Debug().
		Str("session_id", input.SessionID).
		Str("intent", string(analysis.Intent)).
		Str("sentiment", string(analysis.Sentiment)).
		Int("entities", len(analysis.Entities)).
		Float64("complexity", analysis.Complexity).
		Msg("utterance analyzed")

	return core.NodeOutput{
		Data: map[string]any{
			"analysis": &analysis,
		},
	}, nil
}

// GetName returns the node name
func (n *AnalyzeNode) GetName() string {
	return "analyze"
}

// GetType returns the node type
func (n *AnalyzeNode) GetType() core.NodeType {
	return core.NodeTypeAnalyze
}
