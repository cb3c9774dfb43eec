package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"unilink_server/models"
)

// SwipeService records one-way swipe decisions and keeps each signed-in
// user's swipe aggregate cached in memory. The duplicate-swipe guard is
// enforced against that local aggregate only; the store does not reject
// duplicates server-side, but the deterministic swipe key makes a
// concurrent duplicate an overwrite rather than a second record.
type SwipeService struct {
	Store DocumentStore

	mu     sync.Mutex
	states map[string]*models.UserSwipeState
}

// NewSwipeService creates a SwipeService over the given store.
func NewSwipeService(store DocumentStore) *SwipeService {
	return &SwipeService{
		Store:  store,
		states: make(map[string]*models.UserSwipeState),
	}
}

// LoadState loads a user's swipe aggregate into the cache. A user with
// no aggregate yet starts fresh.
func (s *SwipeService) LoadState(ctx context.Context, userID string) error {
	doc, err := s.Store.Get(ctx, models.SwipeStatesTable, userID)
	if errors.Is(err, ErrNotFound) {
		s.mu.Lock()
		s.states[userID] = &models.UserSwipeState{UserID: userID}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load swipe state for %s: %w", userID, err)
	}

	state, err := SwipeStateFromDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.states[userID] = &state
	s.mu.Unlock()
	return nil
}

// DropState evicts a user's cached aggregate, on session teardown.
func (s *SwipeService) DropState(userID string) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}

func (s *SwipeService) ensureState(ctx context.Context, userID string) (*models.UserSwipeState, error) {
	s.mu.Lock()
	state, ok := s.states[userID]
	s.mu.Unlock()
	if ok {
		return state, nil
	}

	if err := s.LoadState(ctx, userID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	state = s.states[userID]
	s.mu.Unlock()
	return state, nil
}

// RecordSwipe persists an immutable swipe decision and updates the
// actor's aggregate. Returns ErrAlreadyDecided if the actor has already
// swiped on target.
//
// The decision record and the aggregate are two writes, not a
// transaction. A crash between them can re-show an already-swiped
// profile on next load; that is degraded behavior, not corruption, since
// the aggregate is reloaded from its own document rather than derived
// from decision records.
func (s *SwipeService) RecordSwipe(ctx context.Context, actorID, targetID, decision string) (*models.SwipeDecision, error) {
	if decision != models.DecisionLike && decision != models.DecisionPass {
		return nil, fmt.Errorf("invalid decision %q", decision)
	}

	state, err := s.ensureState(ctx, actorID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	decided := state.HasDecided(targetID)
	s.mu.Unlock()
	if decided {
		return nil, fmt.Errorf("%w: %s -> %s", ErrAlreadyDecided, actorID, targetID)
	}

	record := models.SwipeDecision{
		ID:        models.SwipeID(actorID, targetID),
		ActorID:   actorID,
		TargetID:  targetID,
		Decision:  decision,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err = s.Store.Upsert(ctx, models.SwipeDecisionsTable, record.ID, Document{
		"id":        record.ID,
		"actorId":   record.ActorID,
		"targetId":  record.TargetID,
		"decision":  record.Decision,
		"createdAt": record.CreatedAt,
	}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	aggregateField := "rightSwipes"
	s.mu.Lock()
	if decision == models.DecisionLike {
		state.RightSwipes = append(state.RightSwipes, targetID)
	} else {
		state.LeftSwipes = append(state.LeftSwipes, targetID)
		aggregateField = "leftSwipes"
	}
	s.mu.Unlock()

	err = s.Store.Upsert(ctx, models.SwipeStatesTable, actorID, Document{
		"userId":       actorID,
		aggregateField: ArrayUnion(targetID),
	}, true)
	if err != nil {
		// The decision record is durable; the aggregate self-heals on
		// next load.
		log.Printf("swipe aggregate update failed for %s: %v", actorID, err)
	}

	log.Printf("swipe recorded: %s -> %s (%s)", actorID, targetID, decision)
	return &record, nil
}

// ShouldShowProfile reports whether candidate has not yet been decided on
// by actor. Pure read over the cached aggregate, no I/O.
func (s *SwipeService) ShouldShowProfile(actorID, candidateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[actorID]
	if !ok {
		return true
	}
	return !state.HasDecided(candidateID)
}

// AddMatch appends a match id to the actor's aggregate.
func (s *SwipeService) AddMatch(ctx context.Context, userID, matchID string) error {
	s.mu.Lock()
	if state, ok := s.states[userID]; ok {
		present := false
		for _, id := range state.MatchIDs {
			if id == matchID {
				present = true
				break
			}
		}
		if !present {
			state.MatchIDs = append(state.MatchIDs, matchID)
		}
	}
	s.mu.Unlock()

	return s.Store.Upsert(ctx, models.SwipeStatesTable, userID, Document{
		"userId":   userID,
		"matchIds": ArrayUnion(matchID),
	}, true)
}
