// internal/app/store/memory/memstore.go

// Package memstore is an in-process storage backend with the same method
// set as the Mongo stores. It backs storage_type=memory and the engine tests.
//
// All writers take one mutex, so every write, including the two-sided
// registration, is atomic to readers. Readers get deep copies and never
// share slices or maps with the stored records.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/store/storeerr"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store holds all state. Use Users and Events for the per-collection views.
type Store struct {
	mu sync.RWMutex

	users   map[primitive.ObjectID]*models.User
	byEmail map[string]primitive.ObjectID

	events  map[primitive.ObjectID]*models.Event
	byToken map[string]primitive.ObjectID
	order   []primitive.ObjectID // event creation order
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[primitive.ObjectID]*models.User),
		byEmail: make(map[string]primitive.ObjectID),
		events:  make(map[primitive.ObjectID]*models.Event),
		byToken: make(map[string]primitive.ObjectID),
	}
}

// Users returns the users view.
func (s *Store) Users() *Users { return &Users{s: s} }

// Events returns the events view.
func (s *Store) Events() *Events { return &Events{s: s} }

// Users mirrors userstore.Store.
type Users struct{ s *Store }

// Create inserts a new user. Email is normalized and must be unique.
func (u *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.FullName = strings.TrimSpace(user.FullName)
	user.FullNameCI = text.Fold(user.FullName)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.OrganizedEvents = []primitive.ObjectID{}
	user.RegisteredEvents = []primitive.ObjectID{}
	user.Attendance = map[string]bool{}
	user.CreatedAt = now
	user.UpdatedAt = now

	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if _, dup := u.s.byEmail[user.Email]; dup {
		return models.User{}, storeerr.ErrDuplicateEmail
	}
	u.s.users[user.ID] = copyUser(&user)
	u.s.byEmail[user.Email] = user.ID
	return user, nil
}

// GetByID returns mongo.ErrNoDocuments if not found.
func (u *Users) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	rec, ok := u.s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyUser(rec), nil
}

// GetByEmail returns mongo.ErrNoDocuments if not found.
func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	id, ok := u.s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyUser(u.s.users[id]), nil
}

// GetByIDs skips IDs that do not exist.
func (u *Users) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if rec, ok := u.s.users[id]; ok {
			out = append(out, *copyUser(rec))
		}
	}
	return out, nil
}

// MarkAttended flips attendance to true and reports whether this call made
// the transition.
func (u *Users) MarkAttended(ctx context.Context, userID, eventID primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	rec, ok := u.s.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	key := eventID.Hex()
	if rec.Attendance[key] {
		return false, nil
	}
	rec.Attendance[key] = true
	rec.RegisteredEvents = addID(rec.RegisteredEvents, eventID)
	rec.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Events mirrors eventstore.Store.
type Events struct{ s *Store }

// Create inserts ev and links it to its organizer in one step.
func (e *Events) Create(ctx context.Context, ev models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if _, taken := e.s.byToken[ev.Token]; taken {
		return storeerr.ErrDuplicateToken
	}
	org, ok := e.s.users[ev.OrganizerID]
	if !ok {
		return mongo.ErrNoDocuments
	}

	rec := copyEvent(&ev)
	if rec.Volunteers == nil {
		rec.Volunteers = []primitive.ObjectID{}
	}
	e.s.events[rec.ID] = rec
	e.s.byToken[rec.Token] = rec.ID
	e.s.order = append(e.s.order, rec.ID)
	org.OrganizedEvents = addID(org.OrganizedEvents, rec.ID)
	org.UpdatedAt = time.Now().UTC()
	return nil
}

// GetByID returns mongo.ErrNoDocuments if not found.
func (e *Events) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	rec, ok := e.s.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyEvent(rec), nil
}

// GetByToken returns mongo.ErrNoDocuments if no event holds token.
func (e *Events) GetByToken(ctx context.Context, token string) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	id, ok := e.s.byToken[token]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyEvent(e.s.events[id]), nil
}

// List returns all events in creation order.
func (e *Events) List(ctx context.Context) ([]models.Event, error) {
	return e.filter(ctx, func(*models.Event) bool { return true })
}

// ListByOrganizer returns userID's events in creation order.
func (e *Events) ListByOrganizer(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	return e.filter(ctx, func(ev *models.Event) bool { return ev.OrganizerID == userID })
}

// ListByIDs returns the events in ids, in creation order.
func (e *Events) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return e.filter(ctx, func(ev *models.Event) bool {
		_, ok := want[ev.ID]
		return ok
	})
}

func (e *Events) filter(ctx context.Context, keep func(*models.Event) bool) ([]models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	var out []models.Event
	for _, id := range e.s.order {
		if rec := e.s.events[id]; keep(rec) {
			out = append(out, *copyEvent(rec))
		}
	}
	return out, nil
}

// AddVolunteer writes both sides of a registration under the store lock.
// It reports false without writing if userID was already a volunteer.
func (e *Events) AddVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	ev, ok := e.s.events[eventID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	u, ok := e.s.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if ev.HasVolunteer(userID) {
		return false, nil
	}
	ev.Volunteers = append(ev.Volunteers, userID)
	u.RegisteredEvents = addID(u.RegisteredEvents, eventID)
	if _, seen := u.Attendance[eventID.Hex()]; !seen {
		u.Attendance[eventID.Hex()] = false
	}
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

// RepairRegistrations completes any user side missing for an event-side
// registration. The memory backend never writes one side alone, so this
// only finds work when state was loaded from elsewhere.
func (e *Events) RepairRegistrations(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	repaired := 0
	for _, evID := range e.s.order {
		ev := e.s.events[evID]
		for _, uid := range ev.Volunteers {
			u, ok := e.s.users[uid]
			if !ok || u.IsRegisteredFor(evID) {
				continue
			}
			u.RegisteredEvents = append(u.RegisteredEvents, evID)
			if _, seen := u.Attendance[evID.Hex()]; !seen {
				u.Attendance[evID.Hex()] = false
			}
			repaired++
		}
	}
	return repaired, nil
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.OrganizedEvents = append([]primitive.ObjectID{}, u.OrganizedEvents...)
	c.RegisteredEvents = append([]primitive.ObjectID{}, u.RegisteredEvents...)
	c.Attendance = make(map[string]bool, len(u.Attendance))
	for k, v := range u.Attendance {
		c.Attendance[k] = v
	}
	return &c
}

func copyEvent(ev *models.Event) *models.Event {
	c := *ev
	c.Volunteers = append([]primitive.ObjectID{}, ev.Volunteers...)
	return &c
}
