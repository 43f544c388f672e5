package cart

import (
	"context"
	"math"
	"sync"
)

// MemoryStore keeps the cart for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	items []Item
	index map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: map[string]int{}}
}

func (s *MemoryStore) Add(_ context.Context, image string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[image]; ok {
		cur := s.items[i].Quantity
		if (quantity > 0 && cur > math.MaxInt-quantity) || (quantity < 0 && cur < math.MinInt-quantity) {
			return ErrQuantityOverflow
		}
		s.items[i].Quantity = cur + quantity
		return nil
	}
	s.index[image] = len(s.items)
	s.items = append(s.items, Item{Image: image, Quantity: quantity})
	return nil
}

func (s *MemoryStore) Items(context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}
