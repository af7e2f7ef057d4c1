package core

import (
	"context"
	"fmt"
	"time"

	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/pkg"
)

// FallbackReply is returned whenever the flow cannot produce a proper answer.
// Guests always get something readable, never an error page.
const FallbackReply = "<p>I'm sorry, I'm having a little trouble right now. Could you try asking that again in a moment?</p>"

// DefaultEngine implements the Engine interface
type DefaultEngine struct {
	nodes map[string]Node
	flow  Flow
}

// NewEngine creates a new dialogue engine with the given flow
func NewEngine(flow Flow) *DefaultEngine {
	return &DefaultEngine{
		nodes: make(map[string]Node),
		flow:  flow,
	}
}

// Process runs the dialogue flow for one turn
func (e *DefaultEngine) Process(ctx context.Context, input ProcessInput) (*ProcessOutput, error) {
	startTime := time.Now()
	log := logger.GetLogger()

	log.Debug().
		Str("session_id", input.SessionID).
		Msg("starting dialogue flow")

	nodeInput := NodeInput{
		SessionID: input.SessionID,
		Utterance: input.Message,
		Metadata:  make(map[string]any),
	}

	currentNode := e.flow.StartNode
	output := &ProcessOutput{
		Metadata: make(map[string]any),
	}

	var executionPath []string

	for currentNode != "" && currentNode != "complete" {
		executionPath = append(executionPath, currentNode)

		node, exists := e.nodes[currentNode]
		if !exists {
			log.Error().Str("node", currentNode).Msg("node not found, aborting flow")
			break
		}

		nodeOutput, err := node.Execute(ctx, nodeInput)
		if err != nil {
			// A broken node never reaches the guest. Stop the flow and
			// fall back to whatever reply we have so far.
			log.Error().Err(err).Str("node", currentNode).Msg("node execution failed")
			output.Metadata["failed_node"] = currentNode
			break
		}

		if nodeOutput.Error != nil {
			log.Warn().Err(nodeOutput.Error).Str("node", currentNode).Msg("node reported a soft error")
			output.Metadata["errors"] = append(getStringSlice(output.Metadata, "errors"), nodeOutput.Error.Error())
		}

		e.processNodeOutput(currentNode, nodeOutput, output, &nodeInput)

		if nodeOutput.Complete {
			break
		}

		nextNode := nodeOutput.NextNode
		if nextNode == "" {
			nextNode = e.getNextNode(currentNode, nodeOutput)
		}

		currentNode = nextNode
	}

	if output.Reply == "" {
		output.Reply = FallbackReply
	}

	processingTime := time.Since(startTime)
	output.ProcessingTime = processingTime.Milliseconds()
	output.Metadata["execution_path"] = executionPath

	log.Debug().
		Str("session_id", input.SessionID).
		Int64("ms", output.ProcessingTime).
		Strs("path", executionPath).
		Msg("dialogue flow finished")

	return output, nil
}

// AddNode adds a node to the engine
func (e *DefaultEngine) AddNode(node Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	nodeName := node.GetName()
	if nodeName == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	e.nodes[nodeName] = node
	return nil
}

// GetNode retrieves a node by name
func (e *DefaultEngine) GetNode(name string) (Node, error) {
	node, exists := e.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return node, nil
}

// SetFlow sets the execution flow
func (e *DefaultEngine) SetFlow(flow Flow) error {
	if flow.StartNode == "" {
		return fmt.Errorf("start node cannot be empty")
	}

	e.flow = flow
	return nil
}

// processNodeOutput merges a node's output into the turn output and the
// input handed to the next node.
func (e *DefaultEngine) processNodeOutput(nodeName string, nodeOutput NodeOutput, globalOutput *ProcessOutput, nodeInput *NodeInput) {
	for key, value := range nodeOutput.Data {
		switch key {
		case "analysis":
			if analysis, ok := value.(*pkg.AnalysisResult); ok {
				globalOutput.Analysis = analysis
				nodeInput.Analysis = analysis
			}
		case "context":
			if mc, ok := value.(*pkg.MemoryContext); ok {
				globalOutput.BookingStage = mc.BookingStage
				nodeInput.Context = mc
			}
		case "strategy":
			if strat, ok := value.(*pkg.Strategy); ok {
				globalOutput.Strategy = strat
				nodeInput.Strategy = strat
			}
		case "reply":
			if reply, ok := value.(string); ok {
				globalOutput.Reply = reply
				nodeInput.Reply = reply
			}
		case "quick_actions":
			if actions, ok := value.([]pkg.QuickAction); ok {
				globalOutput.QuickActions = actions
			}
		case "follow_ups":
			if ups, ok := value.([]string); ok {
				globalOutput.FollowUps = ups
			}
		case "matched_entry":
			if entry, ok := value.(*pkg.KnowledgeEntry); ok {
				nodeInput.Matched = entry
			}
		case "booking_stage":
			if stage, ok := value.(pkg.BookingStage); ok {
				globalOutput.BookingStage = stage
			}
		case "turn_index":
			if idx, ok := value.(int); ok {
				globalOutput.TurnIndex = idx
			}
		default:
			globalOutput.Metadata[fmt.Sprintf("%s_%s", nodeName, key)] = value
			nodeInput.Metadata[key] = value
		}
	}
}

// getNextNode determines the next node based on flow edges and conditions
func (e *DefaultEngine) getNextNode(currentNode string, nodeOutput NodeOutput) string {
	edges, exists := e.flow.Edges[currentNode]
	if !exists || len(edges) == 0 {
		return "complete"
	}

	for _, edge := range e.sortEdgesByPriority(edges) {
		if e.evaluateCondition(edge.Condition, nodeOutput) {
			return edge.To
		}
	}

	return edges[0].To
}

// sortEdgesByPriority sorts edges by priority (lower number = higher priority)
func (e *DefaultEngine) sortEdgesByPriority(edges []Edge) []Edge {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)

	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j].Priority > sorted[j+1].Priority {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}

	return sorted
}

// evaluateCondition evaluates a condition against node output
func (e *DefaultEngine) evaluateCondition(condition map[string]any, nodeOutput NodeOutput) bool {
	if len(condition) == 0 {
		return true
	}

	for key, expectedValue := range condition {
		actualValue, exists := nodeOutput.Data[key]
		if !exists {
			return false
		}
		if actualValue != expectedValue {
			return false
		}
	}

	return true
}

func getStringSlice(metadata map[string]any, key string) []string {
	if value, exists := metadata[key]; exists {
		if slice, ok := value.([]string); ok {
			return slice
		}
	}
	return []string{}
}
