// Package memory provides process-local implementations of the domain stores.
// They back tests and the STORE_BACKEND=memory mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thedon-dev/Final-Year-Project/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type record[E any] interface {
	*E
	domain.Record
}

type row[E any] struct {
	val E
	seq uint64
}

// store keeps records by id and remembers insertion order to break createdAt ties
type store[E any, P record[E]] struct {
	mu   sync.RWMutex
	rows map[primitive.ObjectID]row[E]
	seq  uint64
	now  func() time.Time
}

func newStore[E any, P record[E]]() *store[E, P] {
	return &store[E, P]{
		rows: make(map[primitive.ObjectID]row[E]),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *store[E, P]) Create(ctx context.Context, item *E) error {
	return s.createUnless(item, nil)
}

// createUnless inserts item unless conflict matches an existing record
func (s *store[E, P]) createUnless(item *E, conflict func(*E) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conflict != nil {
		for _, r := range s.rows {
			if conflict(&r.val) {
				return domain.ErrDuplicate
			}
		}
	}

	meta := P(item).Meta()
	meta.Stamp(s.now())
	if _, exists := s.rows[meta.ID]; exists {
		return domain.ErrDuplicate
	}
	s.seq++
	s.rows[meta.ID] = row[E]{val: *item, seq: s.seq}
	return nil
}

func (s *store[E, P]) GetByID(ctx context.Context, id primitive.ObjectID) (*E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := r.val
	return &out, nil
}

func (s *store[E, P]) Update(ctx context.Context, item *E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := P(item).Meta()
	r, ok := s.rows[meta.ID]
	if !ok {
		return domain.ErrNotFound
	}
	meta.UpdatedAt = s.now()
	r.val = *item
	s.rows[meta.ID] = r
	return nil
}

func (s *store[E, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *store[E, P]) findFirst(match func(*E) bool) (*E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rows {
		if match(&r.val) {
			out := r.val
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// list returns matching records ordered by key descending, then by insertion order descending
func (s *store[E, P]) list(match func(*E) bool, key func(*E) time.Time, limit int) []*E {
	s.mu.RLock()
	matched := make([]row[E], 0, len(s.rows))
	for _, r := range s.rows {
		if match(&r.val) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ki, kj := key(&matched[i].val), key(&matched[j].val)
		if !ki.Equal(kj) {
			return ki.After(kj)
		}
		return matched[i].seq > matched[j].seq
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]*E, len(matched))
	for i := range matched {
		v := matched[i].val
		out[i] = &v
	}
	return out
}

func createdAt[E any, P record[E]](item *E) time.Time {
	return P(item).Meta().CreatedAt
}

func idMatches(want *primitive.ObjectID, got primitive.ObjectID) bool {
	return want == nil || *want == got
}

func statusMatches[S ~string](want, got S) bool {
	return want == "" || want == got
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
