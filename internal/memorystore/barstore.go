package memorystore

import (
	"sort"
	"sync"

	"gapfade/internal/market"
)

// BarStore indexes intraday bars by (ticker, date). It is safe for
// concurrent use; each day partition has its own lock.
type BarStore struct {
	globalMu sync.RWMutex
	data     map[market.DayKey]*dayBarStore
}

type dayBarStore struct {
	mu   sync.Mutex
	bars []market.IntradayBar
}

func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[market.DayKey]*dayBarStore),
	}
}

func (s *BarStore) Add(b market.IntradayBar) {
	key := b.Key()

	// Fast path: lock the day partition only
	s.globalMu.RLock()
	store, ok := s.data[key]
	s.globalMu.RUnlock()

	if !ok {
		s.globalMu.Lock()
		if store, ok = s.data[key]; !ok {
			store = &dayBarStore{}
			s.data[key] = store
		}
		s.globalMu.Unlock()
	}

	store.mu.Lock()
	store.bars = append(store.bars, b)
	store.mu.Unlock()
}

// AddAll adds every bar in bars.
func (s *BarStore) AddAll(bars []market.IntradayBar) {
	for _, b := range bars {
		s.Add(b)
	}
}

// GetByDay returns a copy of the day's bars ordered by bar time. Bars with
// equal times keep insertion order.
func (s *BarStore) GetByDay(key market.DayKey) []market.IntradayBar {
	s.globalMu.RLock()
	store, ok := s.data[key]
	s.globalMu.RUnlock()
	if !ok {
		return nil
	}

	store.mu.Lock()
	cp := make([]market.IntradayBar, len(store.bars))
	copy(cp, store.bars)
	store.mu.Unlock()

	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].BarTime.Before(cp[j].BarTime)
	})
	return cp
}

// Keys returns every stored day, ordered by date then ticker.
func (s *BarStore) Keys() []market.DayKey {
	s.globalMu.RLock()
	keys := make([]market.DayKey, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.globalMu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].Ticker < keys[j].Ticker
	})
	return keys
}

// CountAll returns the total number of bars stored across all days.
func (s *BarStore) CountAll() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	total := 0
	for _, store := range s.data {
		store.mu.Lock()
		total += len(store.bars)
		store.mu.Unlock()
	}
	return total
}
