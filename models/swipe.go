package models

// SwipeDecision is one user's immutable like/pass verdict on another user.
type SwipeDecision struct {
	ID        string `dynamodbav:"id" json:"id"`
	ActorID   string `dynamodbav:"actorId" json:"actorId"`
	TargetID  string `dynamodbav:"targetId" json:"targetId"`
	Decision  string `dynamodbav:"decision" json:"decision"` // like, pass
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// SwipeDecisionsTable is the table holding one record per (actor, target) swipe
const SwipeDecisionsTable = "SwipeDecisions"

// SwipeStatesTable holds one aggregate document per user
const SwipeStatesTable = "UserSwipeStates"

// SwipeID derives the deterministic document key for a swipe. A repeated
// swipe by the same actor on the same target lands on the same key, so a
// duplicate write is an overwrite rather than a second record.
func SwipeID(actorID, targetID string) string {
	return actorID + "_" + targetID
}

// UserSwipeState is a user's aggregate of everything they have already
// decided on. Owned exclusively by its subject user; other users only ever
// read the SwipeDecision and Match records.
type UserSwipeState struct {
	UserID      string   `dynamodbav:"userId" json:"userId"`
	RightSwipes []string `dynamodbav:"rightSwipes,omitempty" json:"rightSwipes"`
	LeftSwipes  []string `dynamodbav:"leftSwipes,omitempty" json:"leftSwipes"`
	MatchIDs    []string `dynamodbav:"matchIds,omitempty" json:"matchIds"`
}

// HasDecided reports whether the user has already swiped on target, in
// either direction.
func (s *UserSwipeState) HasDecided(targetID string) bool {
	for _, id := range s.RightSwipes {
		if id == targetID {
			return true
		}
	}
	for _, id := range s.LeftSwipes {
		if id == targetID {
			return true
		}
	}
	return false
}
