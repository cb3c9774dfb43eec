package services

import (
	"context"
	"testing"
	"time"

	"unilink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStack(store DocumentStore) (*SessionManager, *NotificationService, *MatchService) {
	profiles := &UserProfileService{Store: store}
	swipes := NewSwipeService(store)
	matches := &MatchService{Store: store, Swipes: swipes}
	feed := &MatchFeed{Store: store}
	notifications := &NotificationService{Store: store, Profiles: profiles}
	return NewSessionManager(swipes, matches, feed, notifications), notifications, matches
}

func seedProfile(t *testing.T, store DocumentStore, userID, name string) {
	t.Helper()
	profiles := &UserProfileService{Store: store}
	require.NoError(t, profiles.AddProfile(context.Background(), models.UserProfile{
		UserID:   userID,
		FullName: name,
	}))
}

func TestStartSessionRequiresUser(t *testing.T) {
	sm, _, _ := newTestStack(NewMemoryStore())

	_, err := sm.StartSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = sm.Session("ghost")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestStartSessionIsIdempotent(t *testing.T) {
	sm, _, _ := newTestStack(NewMemoryStore())
	ctx := context.Background()

	s1, err := sm.StartSession(ctx, "alice")
	require.NoError(t, err)
	s2, err := sm.StartSession(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	sm.EndSession("alice")
	_, err = sm.Session("alice")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	sm.EndSession("alice") // no-op
}

// Full session flow: mutual right-swipes produce one match and
// one notification per participant; acknowledgement gates the friend
// graph consumed by attendance.
func TestMatchFlowEndToEnd(t *testing.T) {
	store := NewMemoryStore()
	sm, notifications, matches := newTestStack(store)
	ctx := context.Background()

	seedProfile(t, store, "alice", "Alice A")
	seedProfile(t, store, "bob", "Bob B")

	_, err := sm.StartSession(ctx, "alice")
	require.NoError(t, err)
	_, err = sm.StartSession(ctx, "bob")
	require.NoError(t, err)

	// A swipes right on B: no match yet.
	outcome, err := matches.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, outcome.Matched)
	assert.False(t, sm.Swipes.ShouldShowProfile("alice", "bob"))

	// B swipes right on A: match created with the canonical id.
	outcome, err = matches.ProcessRightSwipe(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, outcome.Matched)
	matchID := models.MatchID("alice", "bob")
	assert.Equal(t, matchID, outcome.Match.ID)

	// Both sessions' live feeds observe the match and each participant
	// ends up with exactly one unread notification naming the other.
	require.Eventually(t, func() bool {
		forAlice, err := notifications.ListNotifications(ctx, "alice")
		if err != nil || len(forAlice) != 1 {
			return false
		}
		forBob, err := notifications.ListNotifications(ctx, "bob")
		return err == nil && len(forBob) == 1
	}, time.Second, 5*time.Millisecond)

	forAlice, err := notifications.ListNotifications(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Bob B", forAlice[0].CounterpartName)
	assert.False(t, forAlice[0].IsRead)

	// Attendance: both join an event.
	attendance := startedAttendance(t, store)
	_, err = attendance.Join(ctx, "e1", "alice")
	require.NoError(t, err)
	require.Equal(t, 1, attendance.AttendeeCount("e1"))
	_, err = attendance.Join(ctx, "e1", "bob")
	require.NoError(t, err)
	require.Equal(t, 2, attendance.AttendeeCount("e1"))

	// Before acknowledgement, bob is not among alice's friends at e1.
	friends, err := notifications.Friends(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, attendance.FriendsAttending("e1", friends))

	// After acknowledgement, he is.
	require.NoError(t, notifications.Acknowledge(ctx, matchID, "alice"))
	friends, err = notifications.Friends(ctx, "alice")
	require.NoError(t, err)
	attending := attendance.FriendsAttending("e1", friends)
	assert.Contains(t, attending, "bob")
}

// A participant signed in after the match exists gets their notification
// backfilled from the initial load.
func TestSessionBackfillsNotifications(t *testing.T) {
	store := NewMemoryStore()
	sm, notifications, matches := newTestStack(store)
	ctx := context.Background()

	seedProfile(t, store, "alice", "Alice A")
	seedProfile(t, store, "bob", "Bob B")

	_, err := sm.StartSession(ctx, "alice")
	require.NoError(t, err)

	_, err = matches.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)
	outcome, err := matches.ProcessRightSwipe(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, outcome.Matched)

	// bob signs in only now; his notification arrives via backfill.
	_, err = sm.StartSession(ctx, "bob")
	require.NoError(t, err)

	forBob, err := notifications.ListNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.Equal(t, "Alice A", forBob[0].CounterpartName)
}

func TestOnMatchHookFires(t *testing.T) {
	store := NewMemoryStore()
	sm, _, matches := newTestStack(store)
	ctx := context.Background()

	seedProfile(t, store, "alice", "Alice A")
	seedProfile(t, store, "bob", "Bob B")

	type push struct {
		viewer string
		match  models.Match
	}
	pushed := make(chan push, 4)
	sm.OnMatch = func(viewerID string, match models.Match) {
		pushed <- push{viewer: viewerID, match: match}
	}

	_, err := sm.StartSession(ctx, "alice")
	require.NoError(t, err)

	_, err = matches.ProcessRightSwipe(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = matches.ProcessRightSwipe(ctx, "alice", "bob")
	require.NoError(t, err)

	select {
	case p := <-pushed:
		assert.Equal(t, "alice", p.viewer)
		assert.Equal(t, models.MatchID("alice", "bob"), p.match.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a match push")
	}
}
