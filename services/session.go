package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"unilink_server/models"

	"github.com/google/uuid"
)

// Session is the per-signed-in-user context: the loaded swipe aggregate,
// the live match feed, and the wiring that turns observed matches into
// notifications. Built at sign-in, torn down at sign-out.
type Session struct {
	ID     string
	UserID string

	cancelFeed CancelFunc
}

// SessionManager owns the active sessions and the service instances they
// share. Operations naming a user with no active session fail with
// ErrAuthenticationRequired.
type SessionManager struct {
	Swipes        *SwipeService
	Matches       *MatchService
	Feed          *MatchFeed
	Notifications *NotificationService

	// OnMatch, when set, is invoked for every match delivered on a
	// session's live feed, after notification backfill. Used for socket
	// push.
	OnMatch func(viewerID string, match models.Match)

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager wires a SessionManager over shared service instances.
func NewSessionManager(swipes *SwipeService, matches *MatchService, feed *MatchFeed, notifications *NotificationService) *SessionManager {
	return &SessionManager{
		Swipes:        swipes,
		Matches:       matches,
		Feed:          feed,
		Notifications: notifications,
		sessions:      make(map[string]*Session),
	}
}

// StartSession signs a user in: loads their swipe aggregate, backfills
// notifications for matches created while they were away, and attaches
// the live match feed. Starting an already-started session is a no-op.
func (sm *SessionManager) StartSession(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	sm.mu.Lock()
	if existing, ok := sm.sessions[userID]; ok {
		sm.mu.Unlock()
		return existing, nil
	}
	sm.mu.Unlock()

	if err := sm.Swipes.LoadState(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to start session for %s: %w", userID, err)
	}

	// Backfill: matches that appeared while this user's client was away
	// get their notification on first observation.
	matches, err := sm.Feed.LoadInitialMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", userID, err)
	}
	for _, match := range matches {
		if err := sm.Notifications.OnMatchObserved(ctx, match, userID); err != nil {
			log.Printf("notification backfill failed for match %s: %v", match.ID, err)
		}
	}

	cancel, err := sm.Feed.Subscribe(userID, func(match models.Match) {
		if err := sm.Notifications.OnMatchObserved(context.Background(), match, userID); err != nil {
			log.Printf("notification creation failed for match %s: %v", match.ID, err)
		}
		if sm.OnMatch != nil {
			sm.OnMatch(userID, match)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe match feed for %s: %w", userID, err)
	}

	session := &Session{ID: uuid.NewString(), UserID: userID, cancelFeed: cancel}

	sm.mu.Lock()
	if existing, ok := sm.sessions[userID]; ok {
		// Lost a start race; keep the first session.
		sm.mu.Unlock()
		cancel()
		return existing, nil
	}
	sm.sessions[userID] = session
	sm.mu.Unlock()

	log.Printf("session %s started for %s", session.ID, userID)
	return session, nil
}

// EndSession signs a user out, detaching their feed and evicting their
// cached swipe aggregate. Ending an unknown session is a no-op.
func (sm *SessionManager) EndSession(userID string) {
	sm.mu.Lock()
	session, ok := sm.sessions[userID]
	delete(sm.sessions, userID)
	sm.mu.Unlock()

	if !ok {
		return
	}
	session.cancelFeed()
	sm.Swipes.DropState(userID)
	log.Printf("session ended for %s", userID)
}

// Session returns the active session for userID, or
// ErrAuthenticationRequired if none exists.
func (sm *SessionManager) Session(userID string) (*Session, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[userID]
	if !ok {
		return nil, fmt.Errorf("%w: no session for %s", ErrAuthenticationRequired, userID)
	}
	return session, nil
}
