// Package memory is an in-process document store with the same semantics as
// the Mongo repositories: documents round-trip through BSON, unique fields are
// enforced on write, and set updates are atomic per document.
package memory

import (
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

type collection struct {
	mu       sync.RWMutex
	docs     map[primitive.ObjectID]bson.M
	order    []primitive.ObjectID
	unique   []string
	notFound error
}

func newCollection(notFound error, unique ...string) *collection {
	return &collection{
		docs:     make(map[primitive.ObjectID]bson.M),
		unique:   unique,
		notFound: notFound,
	}
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory encode: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("memory encode: %w", err)
	}
	return m, nil
}

func fromDoc(m bson.M, out any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("memory decode: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("memory decode: %w", err)
	}
	return nil
}

// conflicts reports whether doc collides on a unique field with a document
// other than self. Callers hold the lock.
func (c *collection) conflicts(self primitive.ObjectID, doc bson.M) bool {
	for _, field := range c.unique {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for id, other := range c.docs {
			if id != self && other[field] == v {
				return true
			}
		}
	}
	return false
}

func (c *collection) insert(id primitive.ObjectID, v any) error {
	doc, err := toDoc(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; ok || c.conflicts(id, doc) {
		return domain.ErrDuplicateEntry
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return nil
}

func (c *collection) get(id primitive.ObjectID, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return c.notFound
	}
	return fromDoc(doc, out)
}

// findOne decodes the first document, in insertion order, whose field equals value.
func (c *collection) findOne(field string, value any, out any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if doc := c.docs[id]; doc[field] == value {
			return fromDoc(doc, out)
		}
	}
	return c.notFound
}

func (c *collection) remove(id primitive.ObjectID, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return c.notFound
	}
	if err := fromDoc(doc, out); err != nil {
		return err
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection) addToSet(id primitive.ObjectID, u ports.SetUpdate) error {
	return c.mutateSet(id, u, true)
}

func (c *collection) removeFromSet(id primitive.ObjectID, u ports.SetUpdate) error {
	return c.mutateSet(id, u, false)
}

// mutateSet applies $addToSet / $pull semantics to one array field, moving
// the optional counter only when the set changed.
func (c *collection) mutateSet(id primitive.ObjectID, u ports.SetUpdate, add bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return c.notFound
	}

	current := asArray(doc[u.Field])
	idx := -1
	for i, v := range current {
		if v == u.Value {
			idx = i
			break
		}
	}

	var next primitive.A
	delta := 0
	switch {
	case add && idx >= 0:
		if u.Exclusive {
			return domain.ErrAlreadyInSet
		}
		return nil
	case add:
		next = append(append(primitive.A{}, current...), u.Value)
		delta = 1
	case idx < 0:
		if u.Exclusive {
			return domain.ErrNotInSet
		}
		return nil
	default:
		next = append(append(primitive.A{}, current[:idx]...), current[idx+1:]...)
		delta = -1
	}

	doc[u.Field] = next
	if u.Counter != "" {
		doc[u.Counter] = asInt64(doc[u.Counter]) + int64(delta)
	}
	doc["updated_at"] = primitive.NewDateTimeFromTime(time.Now().UTC())
	return nil
}

func asArray(v any) primitive.A {
	switch a := v.(type) {
	case primitive.A:
		return a
	case []any:
		return a
	}
	return nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// update decodes the document, applies fn and stores the result, all under
// the write lock so it cannot interleave with a set update.
func update[T any](c *collection, id primitive.ObjectID, fn func(*T)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, c.notFound
	}
	var v T
	if err := fromDoc(doc, &v); err != nil {
		return nil, err
	}
	fn(&v)
	next, err := toDoc(&v)
	if err != nil {
		return nil, err
	}
	if c.conflicts(id, next) {
		return nil, domain.ErrDuplicateEntry
	}
	c.docs[id] = next
	return &v, nil
}

// list decodes every document accepted by match, in insertion order.
func list[T any](c *collection, match func(bson.M) bool) ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		if match != nil && !match(doc) {
			continue
		}
		var v T
		if err := fromDoc(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

func byIDs(ids []primitive.ObjectID) func(bson.M) bool {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(doc bson.M) bool {
		id, _ := doc["_id"].(primitive.ObjectID)
		_, ok := set[id]
		return ok
	}
}

func fieldEquals(field string, id primitive.ObjectID) func(bson.M) bool {
	return func(doc bson.M) bool {
		if id.IsZero() {
			return true
		}
		return doc[field] == id
	}
}

func all(matchers ...func(bson.M) bool) func(bson.M) bool {
	return func(doc bson.M) bool {
		for _, m := range matchers {
			if !m(doc) {
				return false
			}
		}
		return true
	}
}
