// Package emergency implements the emergency case store and the role-guarded
// lifecycle service on top of it.
package emergency

import (
	"errors"
	"sync"
	"time"

	"github.com/medipulse/medipulse-api/models"
)

// ErrNotFound is returned when a case id does not exist in the store.
var ErrNotFound = errors.New("emergency not found")

// Store is the authoritative in-memory table of emergency cases. It owns the
// records and the id counter; every mutation and read runs under one mutex so
// concurrent reporters never collide on an id and readers never observe a
// record mid-mutation. Callers always receive value copies, never references
// into the table.
type Store struct {
	mu     sync.Mutex
	nextID int
	cases  map[int]models.Emergency
	order  []int

	// now is swappable for tests
	now func() time.Time
}

// NewStore returns an empty case store.
func NewStore() *Store {
	return &Store{
		nextID: 1,
		cases:  make(map[int]models.Emergency),
		now:    time.Now,
	}
}

// Insert assigns the next id and creation time to e, records it, and returns
// the stored snapshot. Ids strictly increase in insert order and are never
// reused.
func (s *Store) Insert(e models.Emergency) models.Emergency {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = s.now()

	s.cases[e.ID] = e
	s.order = append(s.order, e.ID)
	return e
}

// GetAll returns snapshots of every case in insertion order.
func (s *Store) GetAll() []models.Emergency {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Emergency, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cases[id])
	}
	return out
}

// GetByID returns a snapshot of the case with the given id.
func (s *Store) GetByID(id int) (models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cases[id]
	if !ok {
		return models.Emergency{}, ErrNotFound
	}
	return e, nil
}

// Update runs mutate against the case with the given id inside the store's
// critical section and returns the resulting snapshot. If mutate returns an
// error the record is left untouched. Validation that must be atomic with the
// write, like the status transition guard, belongs in mutate: the first of two
// racing callers wins the lock and the loser sees the already-updated record.
func (s *Store) Update(id int, mutate func(*models.Emergency) error) (models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cases[id]
	if !ok {
		return models.Emergency{}, ErrNotFound
	}

	if err := mutate(&e); err != nil {
		return models.Emergency{}, err
	}

	s.cases[id] = e
	return e, nil
}
