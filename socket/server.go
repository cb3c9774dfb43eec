package socket

import (
	"log"

	"unilink_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server. Clients join a room
// per user id and receive newMatch pushes; attendance changes broadcast
// to a room per event id.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, userID string) {
		if userID == "" {
			log.Println("invalid userId in join request")
			return
		}
		log.Printf("socket %s joined user room %s\n", s.ID(), userID)
		s.Join(userRoom(userID))
	})

	server.OnEvent("/", "watchEvent", func(s socketio.Conn, eventID string) {
		if eventID == "" {
			log.Println("invalid eventId in watchEvent request")
			return
		}
		s.Join(eventRoom(eventID))
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("socket disconnected:", s.ID(), reason)
	})

	return server
}

func userRoom(userID string) string { return "user:" + userID }
func eventRoom(eventID string) string { return "event:" + eventID }

// Broadcaster pushes core events to connected clients.
type Broadcaster struct {
	Server *socketio.Server
}

// NotifyMatch pushes a newMatch event to the viewer's room.
func (b *Broadcaster) NotifyMatch(viewerID string, match models.Match) {
	b.Server.BroadcastToRoom("/", userRoom(viewerID), "newMatch", map[string]interface{}{
		"matchId":       match.ID,
		"counterpartId": match.Counterpart(viewerID),
		"createdAt":     match.CreatedAt,
	})
}

// NotifyAttendance pushes an attendanceChanged event to the event's room.
func (b *Broadcaster) NotifyAttendance(eventID string, count int) {
	b.Server.BroadcastToRoom("/", eventRoom(eventID), "attendanceChanged", map[string]interface{}{
		"eventId":       eventID,
		"attendeeCount": count,
	})
}
