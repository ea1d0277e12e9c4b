// internal/app/policy/eventpolicy/eventpolicy.go
package eventpolicy

import (
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsOrganizer reports whether userID organizes ev.
func IsOrganizer(ev *models.Event, userID primitive.ObjectID) bool {
	return ev != nil && userID != primitive.NilObjectID && ev.OrganizerID == userID
}

// CanViewRoster reports whether userID may see who volunteered for ev.
// Only the organizer can.
func CanViewRoster(ev *models.Event, userID primitive.ObjectID) bool {
	return IsOrganizer(ev, userID)
}

// CanViewToken reports whether userID may see ev's attendance token or its
// rendered code. Volunteers must scan the code on site, so only the
// organizer can.
func CanViewToken(ev *models.Event, userID primitive.ObjectID) bool {
	return IsOrganizer(ev, userID)
}

// CanRegister reports whether userID is eligible to volunteer for ev. It
// does not check whether they already have.
func CanRegister(ev *models.Event, userID primitive.ObjectID) bool {
	return ev != nil && userID != primitive.NilObjectID && ev.OrganizerID != userID
}
