// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled cleanup. OrganizerID and Token never change after
// creation, and Volunteers only grows.
type Event struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location" json:"location"`
	When        time.Time          `bson:"when" json:"when"`

	OrganizerID primitive.ObjectID `bson:"organizer_id" json:"organizer_id"`

	// Token is the attendance token embedded in the event's scannable code.
	// Unique across all events (unique index on events.token).
	Token string `bson:"token" json:"-"`

	Volunteers []primitive.ObjectID `bson:"volunteers" json:"volunteers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasVolunteer reports whether userID is in the event's volunteer set.
func (e *Event) HasVolunteer(userID primitive.ObjectID) bool {
	for _, id := range e.Volunteers {
		if id == userID {
			return true
		}
	}
	return false
}
