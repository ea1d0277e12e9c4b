// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/store/storeerr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/txn"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store owns the events collection. Writes that must stay consistent with
// the user side (organizer linkage, registration) also touch users.
type Store struct {
	db    *mongo.Database
	c     *mongo.Collection
	users *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:    db,
		c:     db.Collection("events"),
		users: db.Collection("users"),
		log:   logger,
	}
}

var sortByCreation = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

// Create inserts ev and appends its ID to the organizer's organized_events.
// Both writes run in one transaction when available; otherwise a failed
// organizer link deletes the inserted event.
//
// Returns storeerr.ErrDuplicateToken if ev.Token is already taken and
// mongo.ErrNoDocuments if the organizer does not exist.
func (s *Store) Create(ctx context.Context, ev models.Event) error {
	if ev.Volunteers == nil {
		ev.Volunteers = []primitive.ObjectID{}
	}
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, ev); err != nil {
			if wafflemongo.IsDup(err) {
				return storeerr.ErrDuplicateToken
			}
			return err
		}

		res, err := s.users.UpdateOne(ctx,
			bson.M{"_id": ev.OrganizerID},
			bson.M{
				"$addToSet": bson.M{"organized_events": ev.ID},
				"$set":      bson.M{"updated_at": time.Now().UTC()},
			},
		)
		if err == nil && res.MatchedCount == 0 {
			err = mongo.ErrNoDocuments
		}
		if err != nil && !txn.InTransaction(ctx) {
			if _, derr := s.c.DeleteOne(ctx, bson.M{"_id": ev.ID}); derr != nil {
				s.log.Error("failed to remove unlinked event",
					zap.String("event_id", ev.ID.Hex()), zap.Error(derr))
			}
		}
		return err
	})
}

// GetByID loads an event. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetByToken resolves an attendance token through the unique token index.
// Returns mongo.ErrNoDocuments if no event holds it.
func (s *Store) GetByToken(ctx context.Context, token string) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns all events in creation order.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{})
}

// ListByOrganizer returns the events organized by userID in creation order.
func (s *Store) ListByOrganizer(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"organizer_id": userID})
}

// ListByIDs returns the events whose IDs are in ids, in creation order.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, sortByCreation)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddVolunteer registers userID for eventID on both sides of the relation:
// events.volunteers, users.registered_events, and users.attendance.<id>=false.
//
// It reports false without writing if userID was already a volunteer. The
// event-side update is conditional on the user not being present, so two
// concurrent calls add the user once. Outside a transaction a failed
// user-side write pulls the volunteer back off the event; if that also
// fails, RepairRegistrations completes the user side later.
//
// Returns mongo.ErrNoDocuments if the event or user does not exist.
func (s *Store) AddVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	var added bool
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		added = false
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": eventID, "volunteers": bson.M{"$ne": userID}},
			bson.M{"$push": bson.M{"volunteers": userID}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			// Already registered, or no such event.
			return s.c.FindOne(ctx, bson.M{"_id": eventID}).Err()
		}

		if err := s.linkVolunteer(ctx, eventID, userID); err != nil {
			if !txn.InTransaction(ctx) {
				s.unlinkVolunteer(ctx, eventID, userID)
			}
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (s *Store) linkVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"registered_events": eventID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	key := "attendance." + eventID.Hex()
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID, key: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{key: false}},
	)
	return err
}

func (s *Store) unlinkVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) {
	if _, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$pull": bson.M{"volunteers": userID}},
	); err != nil {
		s.log.Error("failed to roll back volunteer; left for reconciliation",
			zap.String("event_id", eventID.Hex()),
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
	}
}

// RepairRegistrations completes the user side of any registration whose
// event side exists without it. It returns the number of users updated.
func (s *Store) RepairRegistrations(ctx context.Context) (int, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"volunteers.0": bson.M{"$exists": true}},
		options.Find().SetProjection(bson.M{"_id": 1, "volunteers": 1}),
	)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	repaired := 0
	var errs []error
	for cur.Next(ctx) {
		var ev models.Event
		if err := cur.Decode(&ev); err != nil {
			return repaired, err
		}
		key := "attendance." + ev.ID.Hex()

		res, err := s.users.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ev.Volunteers}, "registered_events": bson.M{"$ne": ev.ID}},
			bson.M{"$addToSet": bson.M{"registered_events": ev.ID}},
		)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		repaired += int(res.ModifiedCount)

		if _, err := s.users.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ev.Volunteers}, key: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{key: false}},
		); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cur.Err(); err != nil {
		errs = append(errs, err)
	}
	return repaired, errors.Join(errs...)
}
