package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/pkg"
)

const (
	// priority bounds; adjustments saturate at the edges
	minPriority = 0
	maxPriority = 100

	knowledgeFile = "knowledge.json"
)

// Store is the keyword-indexed table of reply templates. Entries are
// seeded from a JSON file (or built-in defaults) and mutated only through
// AdjustPriority; the dialogue engine never deletes entries.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []*pkg.KnowledgeEntry
	byID    map[string]*pkg.KnowledgeEntry

	// patterns that matched no entry, kept as a manual curation hook
	misses map[string]int
}

// NewStore loads the knowledge base from dataDir, falling back to the
// built-in seed set when no file exists yet.
func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		path:   filepath.Join(dataDir, knowledgeFile),
		byID:   make(map[string]*pkg.KnowledgeEntry),
		misses: make(map[string]int),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read knowledge file: %w", err)
		}
		s.seed(defaultEntries())
		return s, nil
	}

	var entries []*pkg.KnowledgeEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}
	s.seed(entries)
	return s, nil
}

func (s *Store) seed(entries []*pkg.KnowledgeEntry) {
	s.entries = entries
	for _, entry := range entries {
		s.byID[entry.ID] = entry
	}
}

// Lookup returns a copy of the highest-priority entry whose keyword set
// matches the text, bumping its usage count. Ties keep file order. A nil
// return means no entry matched; the miss is counted for curation.
func (s *Store) Lookup(text string) *pkg.KnowledgeEntry {
	lowered := strings.ToLower(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	var best *pkg.KnowledgeEntry
	for _, entry := range s.entries {
		if !matches(entry, lowered) {
			continue
		}
		if best == nil || entry.Priority > best.Priority {
			best = entry
		}
	}

	if best == nil {
		return nil
	}

	best.UsageCount++
	copied := *best
	return &copied
}

// RecordMiss counts a pattern no entry covered. These are surfaced in
// stats for manual curation; the engine never creates entries itself.
func (s *Store) RecordMiss(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses[pattern]++
}

func matches(entry *pkg.KnowledgeEntry, lowered string) bool {
	for _, kw := range entry.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// AdjustPriority applies a bounded delta to an entry's priority.
func (s *Store) AdjustPriority(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown knowledge entry: %s", id)
	}

	entry.Priority += delta
	if entry.Priority < minPriority {
		entry.Priority = minPriority
	}
	if entry.Priority > maxPriority {
		entry.Priority = maxPriority
	}
	return nil
}

// Entry returns a copy of the entry by id.
func (s *Store) Entry(id string) (pkg.KnowledgeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.byID[id]
	if !ok {
		return pkg.KnowledgeEntry{}, false
	}
	return *entry, true
}

// Entries returns a snapshot of all entries, highest priority first.
func (s *Store) Entries() []pkg.KnowledgeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pkg.KnowledgeEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// Misses returns a snapshot of the unmatched-pattern counts.
func (s *Store) Misses() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.misses))
	for k, v := range s.misses {
		out[k] = v
	}
	return out
}

// Flush writes the current entries back to disk.
func (s *Store) Flush() error {
	s.mu.RLock()
	data, err := sonic.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal knowledge entries: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}

	logger.Debug().Int("entries", len(s.entries)).Str("path", s.path).Msg("knowledge base flushed")
	return nil
}

// defaultEntries is the built-in seed set used before any file exists.
func defaultEntries() []*pkg.KnowledgeEntry {
	return []*pkg.KnowledgeEntry{
		{
			ID:       "kb_checkin",
			Category: "policies",
			Keywords: []string{"check-in", "check in", "checkin", "arrival time"},
			Response: "Check-in opens at 3 PM and check-out is at 11 AM. Early check-in is subject to availability on the day.",
			Priority: 50,
		},
		{
			ID:       "kb_breakfast",
			Category: "dining",
			Keywords: []string{"breakfast", "dining", "restaurant"},
			Response: "Breakfast is served in the Quayside Restaurant from 6:30 to 10:30 AM, included with most rates.",
			Priority: 50,
		},
		{
			ID:       "kb_parking",
			Category: "facilities",
			Keywords: []string{"parking", "park my car", "garage"},
			Response: "We offer valet and self-parking in the underground garage for 25 USD per night.",
			Priority: 50,
		},
		{
			ID:       "kb_pets",
			Category: "policies",
			Keywords: []string{"pet", "dog", "cat"},
			Response: "Pets up to 15kg are welcome for a 30 USD nightly fee. Please mention your companion when booking.",
			Priority: 50,
		},
		{
			ID:       "kb_wifi",
			Category: "facilities",
			Keywords: []string{"wifi", "wi-fi", "internet"},
			Response: "Complimentary high-speed wifi is available throughout the hotel; the network is HarborviewGuest.",
			Priority: 50,
		},
		{
			ID:       "kb_cancellation",
			Category: "policies",
			Keywords: []string{"cancel", "cancellation", "refund"},
			Response: "Flexible rates can be cancelled free of charge up to 24 hours before arrival. Prepaid rates are non-refundable.",
			Priority: 50,
		},
		{
			ID:       "kb_spa",
			Category: "facilities",
			Keywords: []string{"spa", "pool", "gym", "sauna"},
			Response: "The rooftop pool and gym are open 6 AM to 10 PM; the spa takes bookings from 9 AM.",
			Priority: 45,
		},
		{
			ID:       "kb_airport",
			Category: "transport",
			Keywords: []string{"airport", "shuttle", "transfer"},
			Response: "Our airport shuttle runs hourly from 5 AM to 11 PM; a seat is 18 USD each way, bookable at reception.",
			Priority: 45,
		},
	}
}
