package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/recurrence-api/schema"
)

// ErrWatermarkUnavailable is returned when the watermark backend cannot be reached.
// The cause is wrapped.
var ErrWatermarkUnavailable = errors.New("watermark store unavailable")

// WatermarkStore keeps the reset watermark of each (user, body part, condition).
// GetWatermark returns nil, nil when no watermark was ever set.
type WatermarkStore interface {
	GetWatermark(ctx context.Context, userID, bodyPart, condition string) (*schema.ResetWatermark, error)
	SetWatermark(ctx context.Context, userID, bodyPart, condition string, resetAt time.Time, expiresAt *time.Time) error
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrWatermarkUnavailable, err)
}

type watermarkKey struct {
	userID    string
	bodyPart  string
	condition string
}

func newWatermarkKey(userID, bodyPart, condition string) watermarkKey {
	return watermarkKey{
		userID:    strings.TrimSpace(userID),
		bodyPart:  schema.NormalizeKey(bodyPart),
		condition: schema.NormalizeKey(condition),
	}
}

type memoryWatermarkStore struct {
	sync.RWMutex
	marks map[watermarkKey]schema.ResetWatermark
}

// NewMemoryWatermarkStore returns a process local watermark store.
func NewMemoryWatermarkStore() WatermarkStore {
	return &memoryWatermarkStore{
		marks: make(map[watermarkKey]schema.ResetWatermark),
	}
}

func (s *memoryWatermarkStore) GetWatermark(_ context.Context, userID, bodyPart, condition string) (*schema.ResetWatermark, error) {
	s.RLock()
	defer s.RUnlock()

	w, ok := s.marks[newWatermarkKey(userID, bodyPart, condition)]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *memoryWatermarkStore) SetWatermark(_ context.Context, userID, bodyPart, condition string, resetAt time.Time, expiresAt *time.Time) error {
	key := newWatermarkKey(userID, bodyPart, condition)
	w := schema.ResetWatermark{
		UserID:    key.userID,
		BodyPart:  key.bodyPart,
		Condition: key.condition,
		ResetAt:   resetAt.UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if expiresAt != nil {
		e := expiresAt.UTC()
		w.ExpiresAt = &e
	}

	s.Lock()
	defer s.Unlock()
	s.marks[key] = w
	return nil
}
