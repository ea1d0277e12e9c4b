// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is anyone who can sign in: organizers and volunteers are the same
// kind of account, distinguished only by their relation to an event.
//
// NOTE:
//   - Attendance is keyed by the event ID hex string so it can be stored as
//     a BSON subdocument and updated with a dotted path.
//   - An event ID present as true in Attendance is always also present in
//     RegisteredEvents.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`

	OrganizedEvents  []primitive.ObjectID `bson:"organized_events" json:"organized_events"`
	RegisteredEvents []primitive.ObjectID `bson:"registered_events" json:"registered_events"`
	Attendance       map[string]bool      `bson:"attendance" json:"attendance"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsRegisteredFor reports whether eventID is in the user's registered set.
func (u *User) IsRegisteredFor(eventID primitive.ObjectID) bool {
	for _, id := range u.RegisteredEvents {
		if id == eventID {
			return true
		}
	}
	return false
}

// Attended reports whether attendance has been confirmed for eventID.
func (u *User) Attended(eventID primitive.ObjectID) bool {
	return u.Attendance[eventID.Hex()]
}

// AttendedCount returns the number of events with confirmed attendance.
func (u *User) AttendedCount() int {
	n := 0
	for _, ok := range u.Attendance {
		if ok {
			n++
		}
	}
	return n
}
