package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"unilink_server/models"
	"unilink_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key attribute per table.
var tableKeys = map[string]string{
	models.SwipeDecisionsTable:     "id",
	models.SwipeStatesTable:        "userId",
	models.MatchesTable:            "id",
	models.MatchNotificationsTable: "id",
	models.EventAttendanceTable:    "eventId",
	models.UserProfilesTable:       "userId",
}

// GSI per (table, field), named the `<field>-index` way.
var tableIndexes = map[string]map[string]string{
	models.MatchesTable: {
		"user1Id": "user1Id-index",
		"user2Id": "user2Id-index",
	},
	models.MatchNotificationsTable: {
		"viewerId": "viewerId-index",
	},
}

// DynamoStore implements DocumentStore over DynamoDB. Merge upserts map
// onto UpdateItem SET expressions; ArrayUnion/ArrayRemove map onto
// ADD/DELETE string-set updates, which commute under concurrent writers.
//
// Change events are published locally for writes made through this store
// instance. Documents written by other instances are picked up by the
// initial-load queries, which the core's consumers re-run on session
// start; the subscription contract never promised cross-process ordering.
type DynamoStore struct {
	Dynamo *DynamoService

	mu        sync.Mutex
	subs      map[int]*dynamoSubscription
	nextSubID int
}

type dynamoSubscription struct {
	collection string
	filters    []Filter
	ch         chan []Change
	done       chan struct{}
}

// NewDynamoStore wraps a DynamoService as a DocumentStore.
func NewDynamoStore(dynamo *DynamoService) *DynamoStore {
	return &DynamoStore{
		Dynamo: dynamo,
		subs:   make(map[int]*dynamoSubscription),
	}
}

func keyFor(collection, id string) (map[string]types.AttributeValue, error) {
	keyAttr, ok := tableKeys[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: id},
	}, nil
}

// Get retrieves a single document.
func (s *DynamoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	key, err := keyFor(collection, id)
	if err != nil {
		return nil, err
	}

	item, err := s.Dynamo.GetItem(ctx, collection, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return Document(utils.ItemToMap(item)), nil
}

// Upsert writes a document, merging or replacing per the merge flag.
func (s *DynamoStore) Upsert(ctx context.Context, collection, id string, fields Document, merge bool) error {
	keyAttr := tableKeys[collection]
	key, err := keyFor(collection, id)
	if err != nil {
		return err
	}

	if merge {
		err = s.updateMerged(ctx, collection, keyAttr, key, fields)
	} else {
		for field, value := range fields {
			if _, isDirective := value.(FieldDirective); isDirective {
				return fmt.Errorf("set directive on field %q requires merge", field)
			}
		}
		var item map[string]types.AttributeValue
		item, err = attributevalue.MarshalMap(map[string]interface{}(fields))
		if err != nil {
			return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
		}
		item[keyAttr] = &types.AttributeValueMemberS{Value: id}
		err = s.Dynamo.PutItem(ctx, collection, item)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.publish(ctx, collection, id)
	return nil
}

func (s *DynamoStore) updateMerged(ctx context.Context, collection, keyAttr string, key map[string]types.AttributeValue, fields Document) error {
	var setParts, addParts, deleteParts []string
	values := map[string]types.AttributeValue{}
	names := map[string]string{}

	i := 0
	for field, value := range fields {
		if field == keyAttr {
			continue
		}
		nameRef := fmt.Sprintf("#f%d", i)
		valueRef := fmt.Sprintf(":v%d", i)
		names[nameRef] = field
		i++

		switch directive := value.(type) {
		case arrayUnionDirective:
			values[valueRef] = &types.AttributeValueMemberSS{Value: directive.Values}
			addParts = append(addParts, nameRef+" "+valueRef)
		case arrayRemoveDirective:
			values[valueRef] = &types.AttributeValueMemberSS{Value: directive.Values}
			deleteParts = append(deleteParts, nameRef+" "+valueRef)
		default:
			values[valueRef] = utils.GoToAttribute(value)
			setParts = append(setParts, nameRef+" = "+valueRef)
		}
	}

	expr := ""
	if len(setParts) > 0 {
		expr += "SET " + stringJoin(setParts, ", ")
	}
	if len(addParts) > 0 {
		if expr != "" {
			expr += " "
		}
		expr += "ADD " + stringJoin(addParts, ", ")
	}
	if len(deleteParts) > 0 {
		if expr != "" {
			expr += " "
		}
		expr += "DELETE " + stringJoin(deleteParts, ", ")
	}
	if expr == "" {
		return nil
	}

	return s.Dynamo.UpdateItem(ctx, collection, expr, key, values, names)
}

// Query returns documents matching every filter, using a GSI where one
// exists for an equality filter and falling back to a filtered scan.
func (s *DynamoStore) Query(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	var items []map[string]types.AttributeValue
	var err error

	indexed := ""
	for _, f := range filters {
		if f.Op == FilterOpEq {
			if _, ok := tableIndexes[collection][f.Field]; ok {
				indexed = f.Field
				break
			}
		}
	}

	if indexed != "" {
		var value string
		for _, f := range filters {
			if f.Field == indexed {
				value, _ = f.Value.(string)
			}
		}
		items, err = s.Dynamo.QueryItemsWithIndex(ctx, collection, tableIndexes[collection][indexed],
			fmt.Sprintf("%s = :v", indexed),
			map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
			500)
	} else {
		items, err = s.Dynamo.ScanItems(ctx, collection)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var out []Document
	for _, item := range items {
		doc := Document(utils.ItemToMap(item))
		if matchesFilters(doc, filters) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Subscribe registers a change callback for writes made through this
// store instance.
func (s *DynamoStore) Subscribe(collection string, filters []Filter, onChange func([]Change)) (CancelFunc, error) {
	sub := &dynamoSubscription{
		collection: collection,
		filters:    filters,
		ch:         make(chan []Change, 64),
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = sub
	s.mu.Unlock()

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
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.done)
		})
	}
	return cancel, nil
}

// publish re-reads the written document and fans it out to matching
// subscribers. The re-read keeps merged set updates accurate.
func (s *DynamoStore) publish(ctx context.Context, collection, id string) {
	s.mu.Lock()
	hasSubs := len(s.subs) > 0
	s.mu.Unlock()
	if !hasSubs {
		return
	}

	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		log.Printf("change publish skipped for %s/%s: %v", collection, id, err)
		return
	}
	change := Change{Kind: ChangeModified, ID: id, Doc: doc}

	s.mu.Lock()
	var targets []*dynamoSubscription
	for _, sub := range s.subs {
		if sub.collection == collection && matchesFilters(doc, sub.filters) {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- []Change{change}:
		case <-sub.done:
		}
	}
}

func stringJoin(parts []string, delimiter string) string {
	result := ""
	for i, part := range parts {
		if i > 0 {
			result += delimiter
		}
		result += part
	}
	return result
}
