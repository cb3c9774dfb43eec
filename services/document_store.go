package services

import "context"

// Document is an untyped field map as returned by the backing store.
// Typed entities are produced by the decoders in decode.go.
type Document map[string]interface{}

// FieldDirective marks a field value inside an Upsert as a set-update
// directive rather than a plain overwrite.
type FieldDirective interface {
	isDirective()
}

type arrayUnionDirective struct{ Values []string }
type arrayRemoveDirective struct{ Values []string }

func (arrayUnionDirective) isDirective()  {}
func (arrayRemoveDirective) isDirective() {}

// ArrayUnion adds values to a string-set field. Concurrent unions by
// different writers commute.
func ArrayUnion(values ...string) FieldDirective {
	return arrayUnionDirective{Values: values}
}

// ArrayRemove removes values from a string-set field. Removing an absent
// value is a no-op.
func ArrayRemove(values ...string) FieldDirective {
	return arrayRemoveDirective{Values: values}
}

// Filter ops
const (
	FilterOpEq = "=="
	FilterOpIn = "in"
)

// Filter is an equality or membership predicate on a named field.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Eq builds an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: FilterOpEq, Value: value}
}

// In builds a membership filter over a small id list.
func In(field string, values []string) Filter {
	return Filter{Field: field, Op: FilterOpIn, Value: values}
}

// ChangeKind classifies a pushed document change.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

// Change is one pushed document event.
type Change struct {
	Kind ChangeKind
	ID   string
	Doc  Document
}

// CancelFunc detaches a subscription. Safe to call more than once.
type CancelFunc func()

// DocumentStore is the generic key-document collaborator the matching
// core runs over: point reads, merge-or-overwrite upserts, equality
// queries, and a push-based change feed.
type DocumentStore interface {
	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Upsert writes fields under id. With merge=true only the named
	// fields are written (field-level merge) and FieldDirective values
	// perform set union/difference; with merge=false the document is
	// replaced wholesale.
	Upsert(ctx context.Context, collection, id string, fields Document, merge bool) error

	// Query returns all documents matching every filter.
	Query(ctx context.Context, collection string, filters []Filter) ([]Document, error)

	// Subscribe registers a change callback for documents matching the
	// filters. Delivery order follows the store's change-notification
	// order, not necessarily creation order.
	Subscribe(collection string, filters []Filter, onChange func([]Change)) (CancelFunc, error)
}

// matchesFilters evaluates the filter set against a document. Shared by
// the store implementations.
func matchesFilters(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case FilterOpEq:
			if v != f.Value {
				return false
			}
		case FilterOpIn:
			values, ok := f.Value.([]string)
			if !ok {
				return false
			}
			s, ok := v.(string)
			if !ok {
				return false
			}
			found := false
			for _, want := range values {
				if s == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}
