package services

import (
	"fmt"

	"unilink_server/models"
)

// Decoders from untyped store documents into the typed entities. A
// missing required field fails the read with ErrMalformedDocument
// instead of defaulting to an empty value.

func docString(doc Document, field string) (string, bool) {
	v, ok := doc[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func requireString(doc Document, field string) (string, error) {
	s, ok := docString(doc, field)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: missing field %q", ErrMalformedDocument, field)
	}
	return s, nil
}

func docStringSlice(doc Document, field string) []string {
	v, ok := doc[field]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func docBool(doc Document, field string) bool {
	v, ok := doc[field]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// MatchFromDocument decodes a Match, validating required fields.
func MatchFromDocument(doc Document) (models.Match, error) {
	var m models.Match
	var err error
	if m.ID, err = requireString(doc, "id"); err != nil {
		return models.Match{}, err
	}
	if m.User1ID, err = requireString(doc, "user1Id"); err != nil {
		return models.Match{}, err
	}
	if m.User2ID, err = requireString(doc, "user2Id"); err != nil {
		return models.Match{}, err
	}
	m.CreatedAt, _ = docString(doc, "createdAt")
	return m, nil
}

// SwipeDecisionFromDocument decodes a SwipeDecision, validating required fields.
func SwipeDecisionFromDocument(doc Document) (models.SwipeDecision, error) {
	var d models.SwipeDecision
	var err error
	if d.ActorID, err = requireString(doc, "actorId"); err != nil {
		return models.SwipeDecision{}, err
	}
	if d.TargetID, err = requireString(doc, "targetId"); err != nil {
		return models.SwipeDecision{}, err
	}
	if d.Decision, err = requireString(doc, "decision"); err != nil {
		return models.SwipeDecision{}, err
	}
	d.ID, _ = docString(doc, "id")
	d.CreatedAt, _ = docString(doc, "createdAt")
	return d, nil
}

// SwipeStateFromDocument decodes a UserSwipeState aggregate.
func SwipeStateFromDocument(doc Document) (models.UserSwipeState, error) {
	var s models.UserSwipeState
	var err error
	if s.UserID, err = requireString(doc, "userId"); err != nil {
		return models.UserSwipeState{}, err
	}
	s.RightSwipes = docStringSlice(doc, "rightSwipes")
	s.LeftSwipes = docStringSlice(doc, "leftSwipes")
	s.MatchIDs = docStringSlice(doc, "matchIds")
	return s, nil
}

// NotificationFromDocument decodes a MatchNotification.
func NotificationFromDocument(doc Document) (models.MatchNotification, error) {
	var n models.MatchNotification
	var err error
	if n.ID, err = requireString(doc, "id"); err != nil {
		return models.MatchNotification{}, err
	}
	if n.MatchID, err = requireString(doc, "matchId"); err != nil {
		return models.MatchNotification{}, err
	}
	if n.ViewerID, err = requireString(doc, "viewerId"); err != nil {
		return models.MatchNotification{}, err
	}
	if n.CounterpartID, err = requireString(doc, "counterpartId"); err != nil {
		return models.MatchNotification{}, err
	}
	n.CounterpartName, _ = docString(doc, "counterpartName")
	n.CreatedAt, _ = docString(doc, "createdAt")
	n.IsRead = docBool(doc, "isRead")
	return n, nil
}

// AttendanceFromDocument decodes an EventAttendance document.
func AttendanceFromDocument(doc Document) (models.EventAttendance, error) {
	var e models.EventAttendance
	var err error
	if e.EventID, err = requireString(doc, "eventId"); err != nil {
		return models.EventAttendance{}, err
	}
	e.AttendeeIDs = docStringSlice(doc, "attendeeIds")
	e.LastUpdatedAt, _ = docString(doc, "lastUpdatedAt")
	return e, nil
}

// ProfileFromDocument decodes a UserProfile.
func ProfileFromDocument(doc Document) (models.UserProfile, error) {
	var p models.UserProfile
	var err error
	if p.UserID, err = requireString(doc, "userId"); err != nil {
		return models.UserProfile{}, err
	}
	p.FullName, _ = docString(doc, "fullName")
	p.EmailID, _ = docString(doc, "emailId")
	p.Bio, _ = docString(doc, "bio")
	p.Major, _ = docString(doc, "major")
	p.Year, _ = docString(doc, "year")
	p.Interests = docStringSlice(doc, "interests")
	p.PhotoKey, _ = docString(doc, "photoKey")
	return p, nil
}
