package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store used by tests and local development. Documents
// go through a bson round trip on the way in and out so field names and type
// normalization match what the Mongo implementation produces.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]bson.M
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]bson.M)}
}

func (s *Memory) collection(name string) map[string]bson.M {
	col, ok := s.data[name]
	if !ok {
		col = make(map[string]bson.M)
		s.data[name] = col
	}
	return col
}

// view is the read-path counterpart of collection; it never mutates s.data so
// it is safe under the read lock.
func (s *Memory) view(name string) map[string]bson.M {
	return s.data[name]
}

func decodeDoc(m bson.M, out any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (s *Memory) Get(_ context.Context, collection, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.view(collection)[id]
	if !ok {
		return ErrNotFound
	}
	return decodeDoc(m, out)
}

func (s *Memory) Insert(_ context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	if _, ok := col[id]; ok {
		return ErrExists
	}
	m, err := toDoc(doc, id)
	if err != nil {
		return err
	}
	col[id] = m
	return nil
}

func (s *Memory) Put(_ context.Context, collection, id string, doc any) error {
	m, err := toDoc(doc, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = m
	return nil
}

func (s *Memory) Create(_ context.Context, collection string, doc any) (string, error) {
	id := primitive.NewObjectID().Hex()
	m, err := toDoc(doc, id)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = m
	return id, nil
}

func (s *Memory) Update(_ context.Context, collection, id string, upd Update) error {
	if upd.empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.collection(collection)[id]
	if !ok {
		return ErrNotFound
	}
	applyUpdate(m, upd)
	return nil
}

func (s *Memory) UpdateMany(_ context.Context, collection string, filters []Filter, upd Update) (int64, error) {
	if upd.empty() {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, m := range s.collection(collection) {
		if matches(m, filters) {
			applyUpdate(m, upd)
			n++
		}
	}
	return n, nil
}

func (s *Memory) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	if _, ok := col[id]; !ok {
		return ErrNotFound
	}
	delete(col, id)
	return nil
}

func (s *Memory) DeleteMany(_ context.Context, collection string, filters []Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	var n int64
	for id, m := range col {
		if matches(m, filters) {
			delete(col, id)
			n++
		}
	}
	return n, nil
}

// Query decodes while still holding the read lock; the collected docs are
// live references a concurrent Update would otherwise race with.
func (s *Memory) Query(_ context.Context, collection string, q Query, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []bson.M
	for _, m := range s.view(collection) {
		if matches(m, q.Filters) {
			docs = append(docs, m)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := fieldLess(docs[i], docs[j], q.OrderBy)
			if q.Desc {
				return !less && !fieldEqual(docs[i], docs[j], q.OrderBy)
			}
			return less
		})
	}
	if q.Limit > 0 && int64(len(docs)) > q.Limit {
		docs = docs[:q.Limit]
	}

	return decodeSlice(docs, out)
}

func (s *Memory) Count(_ context.Context, collection string, filters ...Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.view(collection) {
		if matches(m, filters) {
			n++
		}
	}
	return n, nil
}

func decodeSlice(docs []bson.M, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("store: query output must be a pointer to a slice, got %T", out)
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, m := range docs {
		elem := reflect.New(elemType)
		if err := decodeDoc(m, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slice.Set(result)
	return nil
}

func matches(m bson.M, filters []Filter) bool {
	for _, f := range filters {
		v, ok := lookupPath(m, f.Field)
		if !ok || !valuesEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func applyUpdate(m bson.M, upd Update) {
	for k, v := range upd.Set {
		setPath(m, k, v)
	}
	for k, v := range upd.Inc {
		incPath(m, k, v, false)
	}
	for k, v := range upd.IncFloor {
		incPath(m, k, v, true)
	}
}

func lookupPath(m bson.M, path string) (any, bool) {
	parts := strings.Split(path, ".")
	cur := any(m)
	for _, p := range parts {
		doc, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = doc[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(m bson.M, path string, v any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(bson.M)
		if !ok {
			next = bson.M{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}

func incPath(m bson.M, path string, delta int64, floor bool) {
	cur, _ := lookupPath(m, path)
	n := asInt64(cur) + delta
	if floor && n < 0 {
		n = 0
	}
	setPath(m, path, n)
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(int64(n)), true
	default:
		return 0, false
	}
}

func valuesEqual(a, b any) bool {
	if af, ok := asFloat64(a); ok {
		if bf, ok := asFloat64(b); ok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func fieldLess(a, b bson.M, field string) bool {
	av, _ := lookupPath(a, field)
	bv, _ := lookupPath(b, field)
	if af, ok := asFloat64(av); ok {
		bf, _ := asFloat64(bv)
		return af < bf
	}
	as, _ := av.(string)
	bs, _ := bv.(string)
	return as < bs
}

func fieldEqual(a, b bson.M, field string) bool {
	av, _ := lookupPath(a, field)
	bv, _ := lookupPath(b, field)
	return valuesEqual(av, bv)
}
