package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"unilink_server/models"
)

// NotificationService turns observed matches into acknowledgable
// notifications and owns the acknowledged predicate that gates the
// visible friend graph. A match never surfaces as a friend relationship
// before its viewer has read the notification.
type NotificationService struct {
	Store    DocumentStore
	Profiles ProfileSource
}

// OnMatchObserved creates the viewer's unread notification for a match
// if one does not already exist. Idempotent: the deterministic
// notification key means a repeat observation, or a near-simultaneous
// observation on both feeds, lands on the same document.
//
// A failed counterpart profile lookup is logged and swallowed; the
// notification is simply created on the next observation of the same
// match.
func (ns *NotificationService) OnMatchObserved(ctx context.Context, match models.Match, viewerID string) error {
	counterpartID := match.Counterpart(viewerID)
	if counterpartID == "" {
		return fmt.Errorf("viewer %s is not a participant of match %s", viewerID, match.ID)
	}

	id := models.NotificationID(match.ID, viewerID)
	_, err := ns.Store.Get(ctx, models.MatchNotificationsTable, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	profile, err := ns.Profiles.GetProfile(ctx, counterpartID)
	if err != nil {
		log.Printf("notification for match %s deferred, counterpart %s unresolved: %v", match.ID, counterpartID, err)
		return nil
	}

	notification := models.MatchNotification{
		ID:              id,
		MatchID:         match.ID,
		ViewerID:        viewerID,
		CounterpartID:   counterpartID,
		CounterpartName: profile.FullName,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		IsRead:          false,
	}
	err = ns.Store.Upsert(ctx, models.MatchNotificationsTable, id, Document{
		"id":              notification.ID,
		"matchId":         notification.MatchID,
		"viewerId":        notification.ViewerID,
		"counterpartId":   notification.CounterpartID,
		"counterpartName": notification.CounterpartName,
		"createdAt":       notification.CreatedAt,
		"isRead":          notification.IsRead,
	}, false)
	if err != nil {
		return err
	}

	log.Printf("notification created for match %s, viewer %s", match.ID, viewerID)
	return nil
}

// Acknowledge flips the viewer's notification to read. One-way;
// re-acknowledging is a no-op.
func (ns *NotificationService) Acknowledge(ctx context.Context, matchID, viewerID string) error {
	id := models.NotificationID(matchID, viewerID)
	doc, err := ns.Store.Get(ctx, models.MatchNotificationsTable, id)
	if err != nil {
		return err
	}

	notification, err := NotificationFromDocument(doc)
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}

	return ns.Store.Upsert(ctx, models.MatchNotificationsTable, id, Document{
		"isRead": true,
	}, true)
}

// IsFriendVisible reports whether the viewer has acknowledged their
// notification for the match. False until acknowledged, true forever
// after.
func (ns *NotificationService) IsFriendVisible(ctx context.Context, matchID, viewerID string) (bool, error) {
	doc, err := ns.Store.Get(ctx, models.MatchNotificationsTable, models.NotificationID(matchID, viewerID))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	notification, err := NotificationFromDocument(doc)
	if err != nil {
		return false, err
	}
	return notification.IsRead, nil
}

// ListNotifications returns all of a viewer's notifications.
func (ns *NotificationService) ListNotifications(ctx context.Context, viewerID string) ([]models.MatchNotification, error) {
	docs, err := ns.Store.Query(ctx, models.MatchNotificationsTable, []Filter{Eq("viewerId", viewerID)})
	if err != nil {
		return nil, err
	}

	notifications := make([]models.MatchNotification, 0, len(docs))
	for _, doc := range docs {
		notification, err := NotificationFromDocument(doc)
		if err != nil {
			log.Printf("skipping malformed notification document: %v", err)
			continue
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

// Friends derives the viewer's friend set: every counterpart whose match
// notification the viewer has acknowledged. Matches are never deleted,
// so an acknowledged notification implies the match still exists.
func (ns *NotificationService) Friends(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	notifications, err := ns.ListNotifications(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	friends := make(map[string]struct{})
	for _, notification := range notifications {
		if notification.IsRead {
			friends[notification.CounterpartID] = struct{}{}
		}
	}
	return friends, nil
}
