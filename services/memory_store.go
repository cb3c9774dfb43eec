package services

import (
	"context"
	"sync"
)

// MemoryStore is an in-process DocumentStore used for tests and local
// development (STORE_BACKEND=memory). It is the reference implementation
// of the subscribe/push semantics: every successful write fans out to
// matching subscribers on their own delivery goroutines, preserving
// per-subscription order.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
	subs        map[int]*memorySubscription
	nextSubID   int
}

type memorySubscription struct {
	collection string
	filters    []Filter
	ch         chan []Change
	done       chan struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		subs:        make(map[int]*memorySubscription),
	}
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if ss, ok := v.([]string); ok {
			cp := make([]string, len(ss))
			copy(cp, ss)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Get returns the document with the given id, or ErrNotFound.
func (ms *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	doc, ok := ms.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Upsert writes fields under id, merging or replacing per the merge flag.
func (ms *MemoryStore) Upsert(_ context.Context, collection, id string, fields Document, merge bool) error {
	ms.mu.Lock()

	coll, ok := ms.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		ms.collections[collection] = coll
	}

	existing, existed := coll[id]
	var doc Document
	if merge && existed {
		doc = cloneDocument(existing)
	} else {
		doc = make(Document)
	}

	for field, value := range fields {
		switch directive := value.(type) {
		case arrayUnionDirective:
			doc[field] = unionStrings(docStringSlice(doc, field), directive.Values)
		case arrayRemoveDirective:
			doc[field] = removeStrings(docStringSlice(doc, field), directive.Values)
		default:
			doc[field] = value
		}
	}
	coll[id] = doc

	kind := ChangeAdded
	if existed {
		kind = ChangeModified
	}
	change := Change{Kind: kind, ID: id, Doc: cloneDocument(doc)}

	var targets []*memorySubscription
	for _, sub := range ms.subs {
		if sub.collection == collection && matchesFilters(change.Doc, sub.filters) {
			targets = append(targets, sub)
		}
	}
	ms.mu.Unlock()

	// Delivered outside the lock so a change callback is free to call
	// back into the store.
	for _, sub := range targets {
		select {
		case sub.ch <- []Change{change}:
		case <-sub.done:
		}
	}
	return nil
}

// Query returns all documents matching every filter.
func (ms *MemoryStore) Query(_ context.Context, collection string, filters []Filter) ([]Document, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var out []Document
	for _, doc := range ms.collections[collection] {
		if matchesFilters(doc, filters) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

// Subscribe registers a change callback. Changes are delivered on a
// dedicated goroutine per subscription, in write order.
func (ms *MemoryStore) Subscribe(collection string, filters []Filter, onChange func([]Change)) (CancelFunc, error) {
	sub := &memorySubscription{
		collection: collection,
		filters:    filters,
		ch:         make(chan []Change, 64),
		done:       make(chan struct{}),
	}

	ms.mu.Lock()
	id := ms.nextSubID
	ms.nextSubID++
	ms.subs[id] = sub
	ms.mu.Unlock()

	go func() {
		for {
			select {
			case changes := <-sub.ch:
				onChange(changes)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			ms.mu.Lock()
			delete(ms.subs, id)
			ms.mu.Unlock()
			close(sub.done)
		})
	}
	return cancel, nil
}

func unionStrings(set, add []string) []string {
	out := append([]string(nil), set...)
	for _, v := range add {
		present := false
		for _, existing := range out {
			if existing == v {
				present = true
				break
			}
		}
		if !present {
			out = append(out, v)
		}
	}
	return out
}

func removeStrings(set, remove []string) []string {
	out := set[:0:0]
	for _, existing := range set {
		drop := false
		for _, v := range remove {
			if existing == v {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, existing)
		}
	}
	return out
}
