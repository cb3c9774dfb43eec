package services

import (
	"context"
	"log"
	"sync"

	"unilink_server/models"
)

// MatchFeed maintains a live view of all matches touching a user: a
// one-shot initial load plus a push feed built from two underlying store
// subscriptions (one per participant-role query) merged onto a single
// consumer goroutine.
type MatchFeed struct {
	Store DocumentStore
}

// LoadInitialMatches fetches all matches where the user is either
// participant. Two queries merged, deduplicated by id.
func (mf *MatchFeed) LoadInitialMatches(ctx context.Context, userID string) ([]models.Match, error) {
	docs1, err := mf.Store.Query(ctx, models.MatchesTable, []Filter{Eq("user1Id", userID)})
	if err != nil {
		return nil, err
	}
	docs2, err := mf.Store.Query(ctx, models.MatchesTable, []Filter{Eq("user2Id", userID)})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var matches []models.Match
	for _, doc := range append(docs1, docs2...) {
		match, err := MatchFromDocument(doc)
		if err != nil {
			log.Printf("skipping malformed match document: %v", err)
			continue
		}
		if _, dup := seen[match.ID]; dup {
			continue
		}
		seen[match.ID] = struct{}{}
		matches = append(matches, match)
	}
	return matches, nil
}

// Subscribe establishes the live feed for matches touching userID. Each
// match is delivered to onMatch at most once per subscription even when
// it arrives on both underlying feeds; delivery is serialized on one
// goroutine, so onMatch need not be safe for concurrent use. The
// returned cancel detaches both feeds; already-delivered matches are not
// retracted.
func (mf *MatchFeed) Subscribe(userID string, onMatch func(models.Match)) (CancelFunc, error) {
	merged := make(chan models.Match, 32)
	done := make(chan struct{})

	forward := func(changes []Change) {
		for _, change := range changes {
			if change.Kind == ChangeRemoved {
				continue
			}
			match, err := MatchFromDocument(change.Doc)
			if err != nil {
				log.Printf("skipping malformed match change: %v", err)
				continue
			}
			select {
			case merged <- match:
			case <-done:
				return
			}
		}
	}

	cancel1, err := mf.Store.Subscribe(models.MatchesTable, []Filter{Eq("user1Id", userID)}, forward)
	if err != nil {
		return nil, err
	}
	cancel2, err := mf.Store.Subscribe(models.MatchesTable, []Filter{Eq("user2Id", userID)}, forward)
	if err != nil {
		cancel1()
		return nil, err
	}

	go func() {
		seen := make(map[string]struct{})
		for {
			select {
			case match := <-merged:
				if _, dup := seen[match.ID]; dup {
					continue
				}
				seen[match.ID] = struct{}{}
				onMatch(match)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancel1()
			cancel2()
			close(done)
		})
	}
	return cancel, nil
}
