package assetstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store for tests.
type Memory struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	writes int
}

// NewMemory creates an empty in-memory asset store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (s *Memory) Save(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	identity := Identity(data, ext)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[identity]; !ok {
		s.blobs[identity] = append([]byte(nil), data...)
		s.writes++
	}
	return identity, nil
}

func (s *Memory) Get(ctx context.Context, identity string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateIdentity(identity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[identity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identity)
	}
	return append([]byte(nil), data...), nil
}

func (s *Memory) Delete(ctx context.Context, identity string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := ValidateIdentity(identity); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[identity]; !ok {
		return false, nil
	}
	delete(s.blobs, identity)
	return true, nil
}

// Len reports the number of stored blobs.
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Writes reports how many durable writes have happened, which stays
// below Len-equivalent call counts when saves deduplicate.
func (s *Memory) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
