// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/store/storeerr"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads every user whose ID is in ids. Missing IDs are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user (signup). Email is normalized and must be unique.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u = newUser(u)
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, storeerr.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// MarkAttended flips attendance for (userID, eventID) to true if it is not
// already true. It reports whether this call made the transition.
//
// The filter and update are a single-document compare-and-set, so two
// concurrent calls for the same pair produce exactly one transition. The
// event ID is added to registered_events in the same update so a true
// entry always has its registration.
//
// Returns mongo.ErrNoDocuments if the user does not exist.
func (s *Store) MarkAttended(ctx context.Context, userID, eventID primitive.ObjectID) (bool, error) {
	key := "attendance." + eventID.Hex()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, key: bson.M{"$ne": true}},
		bson.M{
			"$set":      bson.M{key: true, "updated_at": time.Now().UTC()},
			"$addToSet": bson.M{"registered_events": eventID},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	// Nothing matched: either the user is missing or attendance was already true.
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
		return false, err
	}
	return false, nil
}

// newUser normalizes fields and fills defaults for a user about to be inserted.
func newUser(u models.User) models.User {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullName = strings.TrimSpace(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalizeEmail(u.Email)
	u.OrganizedEvents = []primitive.ObjectID{}
	u.RegisteredEvents = []primitive.ObjectID{}
	u.Attendance = map[string]bool{}
	u.CreatedAt = now
	u.UpdatedAt = now
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
