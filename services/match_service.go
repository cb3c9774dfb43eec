package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"unilink_server/models"
)

// MatchOutcome is the result of processing a right-swipe.
type MatchOutcome struct {
	Matched bool          `json:"matched"`
	Match   *models.Match `json:"match,omitempty"`
}

// MatchService runs mutual-like detection on right-swipes and creates
// the canonical match document.
type MatchService struct {
	Store  DocumentStore
	Swipes *SwipeService
}

// ProcessRightSwipe records actor's like on target and checks whether
// target has already liked actor back. On mutual like it upserts the
// canonical sorted-key match document; both participants' clients may
// race here and both resolve to the same document, so the second write
// is a harmless overwrite.
//
// A transient store failure after the swipe was recorded surfaces
// wrapped in ErrMatchCheckFailed; the swipe is not rolled back and the
// caller retries the whole operation.
func (ms *MatchService) ProcessRightSwipe(ctx context.Context, actorID, targetID string) (MatchOutcome, error) {
	if _, err := ms.Swipes.RecordSwipe(ctx, actorID, targetID, models.DecisionLike); err != nil {
		return MatchOutcome{}, err
	}

	liked, err := ms.hasLiked(ctx, targetID, actorID)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: %v", ErrMatchCheckFailed, err)
	}
	if !liked {
		return MatchOutcome{}, nil
	}

	user1, user2 := models.MatchPair(actorID, targetID)
	match := models.Match{
		ID:        models.MatchID(actorID, targetID),
		User1ID:   user1,
		User2ID:   user2,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err = ms.Store.Upsert(ctx, models.MatchesTable, match.ID, Document{
		"id":        match.ID,
		"user1Id":   match.User1ID,
		"user2Id":   match.User2ID,
		"createdAt": match.CreatedAt,
	}, false)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: %v", ErrMatchCheckFailed, err)
	}

	if err := ms.Swipes.AddMatch(ctx, actorID, match.ID); err != nil {
		log.Printf("failed to append match %s to %s's aggregate: %v", match.ID, actorID, err)
	}

	log.Printf("match created: %s", match.ID)
	return MatchOutcome{Matched: true, Match: &match}, nil
}

// hasLiked checks for an existing like from actor to target. The
// deterministic swipe key makes this a point read.
func (ms *MatchService) hasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	doc, err := ms.Store.Get(ctx, models.SwipeDecisionsTable, models.SwipeID(actorID, targetID))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	decision, err := SwipeDecisionFromDocument(doc)
	if err != nil {
		return false, err
	}
	return decision.Decision == models.DecisionLike, nil
}
