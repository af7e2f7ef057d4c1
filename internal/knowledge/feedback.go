package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/harborview/maya/pkg"
)

const feedbackFile = "feedback.json"

// FeedbackLog is the append-only record of explicit user feedback.
type FeedbackLog struct {
	mu   sync.Mutex
	path string
}

// NewFeedbackLog creates a feedback log under dataDir.
func NewFeedbackLog(dataDir string) *FeedbackLog {
	return &FeedbackLog{path: filepath.Join(dataDir, feedbackFile)}
}

// Append adds one record to the log file.
func (f *FeedbackLog) Append(record pkg.FeedbackRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feedback log: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write feedback log: %w", err)
	}
	return nil
}

// All returns every recorded feedback entry.
func (f *FeedbackLog) All() ([]pkg.FeedbackRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FeedbackLog) load() ([]pkg.FeedbackRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []pkg.FeedbackRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read feedback log: %w", err)
	}

	var records []pkg.FeedbackRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse feedback log: %w", err)
	}
	return records, nil
}
