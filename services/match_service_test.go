package services

import (
	"context"
	"sync"
	"testing"

	"unilink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchService(store DocumentStore) *MatchService {
	return &MatchService{Store: store, Swipes: NewSwipeService(store)}
}

func TestProcessRightSwipeNoMutualLike(t *testing.T) {
	ms := newMatchService(NewMemoryStore())

	outcome, err := ms.ProcessRightSwipe(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.Nil(t, outcome.Match)
}

func TestProcessRightSwipeMutualLikeCreatesMatch(t *testing.T) {
	store := NewMemoryStore()
	ms := newMatchService(store)
	ctx := context.Background()

	outcome, err := ms.ProcessRightSwipe(ctx, "bob", "alice")
	require.NoError(t, err)
	require.False(t, outcome.Matched)

	outcome, err = ms.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, outcome.Matched)
	require.NotNil(t, outcome.Match)
	assert.Equal(t, models.MatchID("alice", "bob"), outcome.Match.ID)
	assert.Equal(t, "alice", outcome.Match.User1ID)
	assert.Equal(t, "bob", outcome.Match.User2ID)

	doc, err := store.Get(ctx, models.MatchesTable, outcome.Match.ID)
	require.NoError(t, err)
	match, err := MatchFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, outcome.Match.ID, match.ID)
}

func TestProcessRightSwipePassDoesNotMatch(t *testing.T) {
	store := NewMemoryStore()
	ms := newMatchService(store)
	ctx := context.Background()

	// bob passed on alice; alice liking bob is not a match.
	_, err := ms.Swipes.RecordSwipe(ctx, "bob", "alice", models.DecisionPass)
	require.NoError(t, err)

	outcome, err := ms.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, outcome.Matched)

	_, err = store.Get(ctx, models.MatchesTable, models.MatchID("alice", "bob"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchIDIsCanonical(t *testing.T) {
	assert.Equal(t, models.MatchID("a", "b"), models.MatchID("b", "a"))
	assert.Equal(t, "a_b", models.MatchID("b", "a"))
}

// Both participants swipe right near-simultaneously: exactly one match
// document exists afterwards, and at least one side observes the
// creation.
func TestConcurrentMutualRightSwipes(t *testing.T) {
	store := NewMemoryStore()
	ms := newMatchService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	outcomes := make([]MatchOutcome, 2)
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		outcomes[0], errs[0] = ms.ProcessRightSwipe(ctx, "alice", "bob")
	}()
	go func() {
		defer wg.Done()
		outcomes[1], errs[1] = ms.ProcessRightSwipe(ctx, "bob", "alice")
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, outcomes[0].Matched || outcomes[1].Matched)

	docs, err := store.Query(ctx, models.MatchesTable, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	match, err := MatchFromDocument(docs[0])
	require.NoError(t, err)
	assert.Equal(t, models.MatchID("alice", "bob"), match.ID)
}

// Both participants' clients racing the match creation write the same
// document key; the second write is an overwrite, never a second match.
func TestMatchUpsertIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := models.MatchID("alice", "bob")
	fields := Document{"id": id, "user1Id": "alice", "user2Id": "bob", "createdAt": "2026-01-02T03:04:05Z"}
	require.NoError(t, store.Upsert(ctx, models.MatchesTable, id, fields, false))
	require.NoError(t, store.Upsert(ctx, models.MatchesTable, id, fields, false))

	docs, err := store.Query(ctx, models.MatchesTable, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestProcessRightSwipeMatchCheckFailure(t *testing.T) {
	store := NewMemoryStore()
	ms := newMatchService(store)
	ctx := context.Background()

	_, err := ms.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)

	// Swap in a failing store for the match-check step only; the swipe
	// service keeps its working store.
	broken := &MatchService{Store: failingStore{}, Swipes: ms.Swipes}
	_, err = broken.ProcessRightSwipe(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrMatchCheckFailed)

	// The swipe itself was durably recorded and is not rolled back.
	doc, err := store.Get(ctx, models.SwipeDecisionsTable, models.SwipeID("bob", "alice"))
	require.NoError(t, err)
	decision, err := SwipeDecisionFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionLike, decision.Decision)
}
