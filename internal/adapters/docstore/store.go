package docstore

// Package docstore is an in-memory document store used in development mode
// and unit tests. Filter predicates are JMESPath expressions evaluated
// against each document, mirroring how the remote document database filters
// collections.

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/campusarc/campusarc/internal/errors"
	"github.com/campusarc/campusarc/internal/ports"
	"github.com/google/uuid"
)

var _ ports.DocumentStore = (*Store)(nil)

// Store holds documents per collection, keyed by id.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]ports.Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]ports.Document)}
}

func (s *Store) Insert(_ context.Context, collection string, doc ports.Document) (ports.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]ports.Document)
		s.collections[collection] = docs
	}

	stored := clone(doc)
	id, _ := stored["id"].(string)
	if id == "" {
		id = uuid.New().String()
		stored["id"] = id
	}
	if _, exists := docs[id]; exists {
		return nil, apperrors.Conflictf("document %q already exists in %q", id, collection)
	}
	now := time.Now().UTC()
	stored["created_at"] = now
	stored["updated_at"] = now
	docs[id] = stored
	return clone(stored), nil
}

func (s *Store) Get(_ context.Context, collection, id string) (ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, apperrors.NotFoundf("document %q not found in %q", id, collection)
	}
	return clone(doc), nil
}

func (s *Store) Update(_ context.Context, collection, id string, patch ports.Document) (ports.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, apperrors.NotFoundf("document %q not found in %q", id, collection)
	}
	for key, value := range patch {
		if key == "id" || key == "created_at" {
			continue
		}
		doc[key] = value
	}
	doc["updated_at"] = time.Now().UTC()
	return clone(doc), nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return apperrors.NotFoundf("document %q not found in %q", id, collection)
	}
	delete(s.collections[collection], id)
	return nil
}

// List returns documents whose JMESPath filter evaluates truthy. An empty
// filter matches everything. Results are ordered by id for determinism.
func (s *Store) List(_ context.Context, collection, filter string) ([]ports.Document, error) {
	var compiled jmespath.JMESPath
	if filter != "" {
		var err error
		compiled, err = jmespath.Compile(filter)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, fmt.Sprintf("invalid filter %q", filter))
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []ports.Document
	for _, id := range ids {
		doc := s.collections[collection][id]
		if compiled != nil {
			result, err := compiled.Search(map[string]any(doc))
			if err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "evaluate filter")
			}
			if !truthy(result) {
				continue
			}
		}
		out = append(out, clone(doc))
	}
	return out, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func clone(doc ports.Document) ports.Document {
	out := make(ports.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
