package models

import "strings"

// Match records a mutual like between two users. The document key is
// derived from the sorted participant ids, so a create by either side's
// client resolves to the same document and the second write is a harmless
// overwrite. At most one Match can ever exist for an unordered pair.
type Match struct {
	ID        string `dynamodbav:"id" json:"id"`
	User1ID   string `dynamodbav:"user1Id" json:"user1Id"`
	User2ID   string `dynamodbav:"user2Id" json:"user2Id"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

const MatchesTable = "Matches"

// MatchID derives the canonical match key for an unordered user pair.
func MatchID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// MatchPair returns the two participant ids in canonical (sorted) order.
func MatchPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Counterpart returns the participant that is not viewerID. Empty string
// if viewerID is not a participant.
func (m Match) Counterpart(viewerID string) string {
	switch viewerID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return ""
}

// Involves reports whether userID is one of the two participants.
func (m Match) Involves(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// MatchNotification is one viewer's acknowledgable notification for a
// match. Each participant gets their own instance since the counterpart
// name differs per perspective. isRead flips false->true exactly once.
type MatchNotification struct {
	ID              string `dynamodbav:"id" json:"id"`
	MatchID         string `dynamodbav:"matchId" json:"matchId"`
	ViewerID        string `dynamodbav:"viewerId" json:"viewerId"`
	CounterpartID   string `dynamodbav:"counterpartId" json:"counterpartId"`
	CounterpartName string `dynamodbav:"counterpartName" json:"counterpartName"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
	IsRead          bool   `dynamodbav:"isRead" json:"isRead"`
}

const MatchNotificationsTable = "MatchNotifications"

// NotificationID derives the deterministic notification key. Two
// near-simultaneous creations for the same match and viewer collide on
// the same document instead of producing duplicates.
func NotificationID(matchID, viewerID string) string {
	return matchID + "#" + viewerID
}

// NotificationMatchID recovers the match id from a notification id.
func NotificationMatchID(notificationID string) string {
	if i := strings.Index(notificationID, "#"); i >= 0 {
		return notificationID[:i]
	}
	return notificationID
}
