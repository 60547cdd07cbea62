package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// SolveRecord is a completed solve kept for later retrieval.
type SolveRecord struct {
	ID        string           `json:"id"`
	Request   SolveRequest     `json:"request"`
	Result    *rootfind.Result `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}

// history keeps the most recent solves, evicting the oldest first.
type history struct {
	mu      sync.RWMutex
	size    int
	order   []string
	records map[string]*SolveRecord
}

func newHistory(size int) *history {
	if size < 1 {
		size = 1
	}
	return &history{
		size:    size,
		order:   make([]string, 0, size),
		records: make(map[string]*SolveRecord, size),
	}
}

// add stores a result under a new random id.
func (h *history) add(req SolveRequest, res *rootfind.Result) *SolveRecord {
	rec := &SolveRecord{
		ID:        uuid.NewString(),
		Request:   req,
		Result:    res,
		CreatedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.order) == h.size {
		delete(h.records, h.order[0])
		h.order = append(h.order[:0], h.order[1:]...)
	}
	h.order = append(h.order, rec.ID)
	h.records[rec.ID] = rec
	return rec
}

func (h *history) get(id string) (*SolveRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.records[id]
	return rec, ok
}

func (h *history) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

func (h *history) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.order = h.order[:0]
	h.records = make(map[string]*SolveRecord, h.size)
}
