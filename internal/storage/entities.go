package storage

import "time"

// Role is the closed set of user kinds that can register
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// Roles lists every recognised Role in display order
var Roles = []Role{RoleLecturer, RoleStudent}

// Valid reports whether r is one of the recognised roles
func (r Role) Valid() bool {
	switch r {
	case RoleLecturer, RoleStudent:
		return true
	default:
		return false
	}
}

type User struct {
	ID   int64  `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
	Role Role   `json:"role" msgpack:"role"`
}

type Message struct {
	ID         int64     `json:"id" msgpack:"id"`
	SenderID   int64     `json:"sender_id" msgpack:"sender_id"`
	ReceiverID int64     `json:"receiver_id" msgpack:"receiver_id"`
	Content    string    `json:"content" msgpack:"content"`
	Timestamp  time.Time `json:"timestamp" msgpack:"timestamp"`
}
