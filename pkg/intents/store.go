package intents

import (
	"sync"

	"github.com/intenthub/orchestrator/pkg/metrics"
	"github.com/intenthub/orchestrator/pkg/models"
)

// Store maps an intent nonce to its lifecycle record. Records live for the
// process lifetime and are never deleted; a re-submission with the same nonce
// overwrites the previous record. The mutex is required because the HTTP host
// serves requests concurrently.
type Store struct {
	mu      sync.RWMutex
	records map[string]*models.IntentRecord
}

// NewStore creates an empty record store
func NewStore() *Store {
	return &Store{
		records: make(map[string]*models.IntentRecord),
	}
}

// Get returns the record for an intent id, or ErrNotFound
func (s *Store) Get(id string) (*models.IntentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, ErrNotFound
	}
	// Copy so callers cannot mutate the stored record
	copied := *record
	return &copied, nil
}

// Put unconditionally upserts the record for an intent id
func (s *Store) Put(id string, record *models.IntentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records[id] = &copied
	metrics.RecordsStored.Set(float64(len(s.records)))
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
