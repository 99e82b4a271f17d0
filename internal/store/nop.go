package store

import (
	"time"

	"github.com/paydar/paydar/internal/model"
)

// NopStore is a no-op store used when history is disabled. Saves vanish and
// the history is always empty.
type NopStore struct{}

var _ model.RunStore = (*NopStore)(nil)

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(model.RunRecord) error            { return nil }
func (s *NopStore) Recent(int) ([]model.RunRecord, error) { return nil, nil }
func (s *NopStore) Prune(time.Duration) error             { return nil }
