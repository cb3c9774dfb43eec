package models

// EventAttendance is the attendee set of one event. Mutated only through
// set-union / set-difference updates so concurrent joins by different
// users commute.
type EventAttendance struct {
	EventID       string   `dynamodbav:"eventId" json:"eventId"`
	AttendeeIDs   []string `dynamodbav:"attendeeIds,omitempty" json:"attendeeIds"`
	LastUpdatedAt string   `dynamodbav:"lastUpdatedAt" json:"lastUpdatedAt"`
}

const EventAttendanceTable = "EventAttendance"

// HasAttendee reports whether userID is in the attendee set.
func (e *EventAttendance) HasAttendee(userID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
