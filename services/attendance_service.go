package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"unilink_server/models"
)

// RevertFunc undoes an optimistic local mutation. Callers invoke it when
// the remote write behind the mutation fails.
type RevertFunc func()

// AttendanceService tracks which users attend which events. Joins and
// leaves are idempotent set-membership updates (union/difference) against
// one EventAttendance document per event, so concurrent joins by
// different users commute. Reads run over a local cache kept in sync by
// a live subscription over all attendance documents.
type AttendanceService struct {
	Store DocumentStore

	mu        sync.RWMutex
	attendees map[string]map[string]struct{}
	cancel    CancelFunc
}

// NewAttendanceService creates an AttendanceService over the given store.
func NewAttendanceService(store DocumentStore) *AttendanceService {
	return &AttendanceService{
		Store:     store,
		attendees: make(map[string]map[string]struct{}),
	}
}

// Start loads the current attendance map and subscribes to changes.
func (as *AttendanceService) Start(ctx context.Context) error {
	docs, err := as.Store.Query(ctx, models.EventAttendanceTable, nil)
	if err != nil {
		return fmt.Errorf("failed to load attendance: %w", err)
	}

	as.mu.Lock()
	for _, doc := range docs {
		attendance, err := AttendanceFromDocument(doc)
		if err != nil {
			log.Printf("skipping malformed attendance document: %v", err)
			continue
		}
		as.applyLocked(attendance)
	}
	as.mu.Unlock()

	cancel, err := as.Store.Subscribe(models.EventAttendanceTable, nil, as.onChanges)
	if err != nil {
		return err
	}
	as.cancel = cancel
	return nil
}

// Close detaches the live subscription.
func (as *AttendanceService) Close() {
	if as.cancel != nil {
		as.cancel()
	}
}

func (as *AttendanceService) onChanges(changes []Change) {
	as.mu.Lock()
	defer as.mu.Unlock()

	for _, change := range changes {
		if change.Kind == ChangeRemoved {
			delete(as.attendees, change.ID)
			continue
		}
		attendance, err := AttendanceFromDocument(change.Doc)
		if err != nil {
			log.Printf("skipping malformed attendance change: %v", err)
			continue
		}
		as.applyLocked(attendance)
	}
}

func (as *AttendanceService) applyLocked(attendance models.EventAttendance) {
	set := make(map[string]struct{}, len(attendance.AttendeeIDs))
	for _, id := range attendance.AttendeeIDs {
		set[id] = struct{}{}
	}
	as.attendees[attendance.EventID] = set
}

// Join adds userID to the event's attendee set. The local cache is
// updated optimistically before the remote write; on write failure the
// caller is responsible for invoking the returned revert. Joining twice
// is a no-op that still succeeds.
func (as *AttendanceService) Join(ctx context.Context, eventID, userID string) (RevertFunc, error) {
	as.mu.Lock()
	set, ok := as.attendees[eventID]
	if !ok {
		set = make(map[string]struct{})
		as.attendees[eventID] = set
	}
	_, wasAttending := set[userID]
	set[userID] = struct{}{}
	as.mu.Unlock()

	revert := func() {
		if wasAttending {
			return
		}
		as.mu.Lock()
		if set, ok := as.attendees[eventID]; ok {
			delete(set, userID)
		}
		as.mu.Unlock()
	}

	err := as.Store.Upsert(ctx, models.EventAttendanceTable, eventID, Document{
		"eventId":       eventID,
		"attendeeIds":   ArrayUnion(userID),
		"lastUpdatedAt": time.Now().UTC().Format(time.RFC3339),
	}, true)
	if err != nil {
		return revert, fmt.Errorf("failed to join event %s: %w", eventID, err)
	}
	return revert, nil
}

// Leave removes userID from the event's attendee set. Leaving an event
// the user is not attending is a no-op that still succeeds.
func (as *AttendanceService) Leave(ctx context.Context, eventID, userID string) (RevertFunc, error) {
	as.mu.Lock()
	set, hadEvent := as.attendees[eventID]
	wasAttending := false
	if hadEvent {
		_, wasAttending = set[userID]
		delete(set, userID)
	}
	as.mu.Unlock()

	revert := func() {
		if !wasAttending {
			return
		}
		as.mu.Lock()
		if set, ok := as.attendees[eventID]; ok {
			set[userID] = struct{}{}
		}
		as.mu.Unlock()
	}

	err := as.Store.Upsert(ctx, models.EventAttendanceTable, eventID, Document{
		"eventId":       eventID,
		"attendeeIds":   ArrayRemove(userID),
		"lastUpdatedAt": time.Now().UTC().Format(time.RFC3339),
	}, true)
	if err != nil {
		return revert, fmt.Errorf("failed to leave event %s: %w", eventID, err)
	}
	return revert, nil
}

// IsAttending reports whether userID is in the event's cached attendee set.
func (as *AttendanceService) IsAttending(eventID, userID string) bool {
	as.mu.RLock()
	defer as.mu.RUnlock()

	set, ok := as.attendees[eventID]
	if !ok {
		return false
	}
	_, attending := set[userID]
	return attending
}

// AttendeeCount returns the cached attendee count for an event.
func (as *AttendanceService) AttendeeCount(eventID string) int {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return len(as.attendees[eventID])
}

// Attendees returns the cached attendee ids for an event.
func (as *AttendanceService) Attendees(eventID string) []string {
	as.mu.RLock()
	defer as.mu.RUnlock()

	out := make([]string, 0, len(as.attendees[eventID]))
	for id := range as.attendees[eventID] {
		out = append(out, id)
	}
	return out
}

// FriendsAttending intersects the event's attendee set with the supplied
// friend set. The friend set must come from the acknowledged-match
// friend graph, not raw match records.
func (as *AttendanceService) FriendsAttending(eventID string, friends map[string]struct{}) map[string]struct{} {
	as.mu.RLock()
	defer as.mu.RUnlock()

	out := make(map[string]struct{})
	for id := range as.attendees[eventID] {
		if _, ok := friends[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
