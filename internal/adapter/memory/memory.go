// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"hydration/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	records  []domain.IntakeRecord
	users    []*domain.User
	sessions map[string]*domain.Session

	recordIDCounter int64
	userIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.IntakeRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- IntakeRepository ---

// AddIntake adds an intake record, enforcing the (user, instant) uniqueness
// invariant the way the SQL schema does.
func (db *DB) AddIntake(ctx context.Context, rec domain.IntakeRecord) (*domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.occupied(rec.UserID, rec.OccurredAt, 0) {
		return nil, domain.ErrDuplicateTimestamp
	}

	db.recordIDCounter++
	rec.ID = db.recordIDCounter
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	db.records = append(db.records, rec)

	stored := rec
	return &stored, nil
}

// GetIntake returns a record by id scoped to a user, or (nil, nil).
func (db *DB) GetIntake(ctx context.Context, userID, id int64) (*domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.records {
		if db.records[i].ID == id && db.records[i].UserID == userID {
			rec := db.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// UpdateIntake replaces the mutable fields of a stored record.
func (db *DB) UpdateIntake(ctx context.Context, rec domain.IntakeRecord) (*domain.IntakeRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.occupied(rec.UserID, rec.OccurredAt, rec.ID) {
		return nil, domain.ErrDuplicateTimestamp
	}

	for i := range db.records {
		if db.records[i].ID == rec.ID && db.records[i].UserID == rec.UserID {
			rec.CreatedAt = db.records[i].CreatedAt
			rec.UpdatedAt = time.Now().UTC()
			db.records[i] = rec
			stored := rec
			return &stored, nil
		}
	}
	return nil, errors.New("record vanished during update")
}

// DeleteIntake removes a record scoped to a user.
func (db *DB) DeleteIntake(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.records {
		if db.records[i].ID == id && db.records[i].UserID == userID {
			db.records = append(db.records[:i], db.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ExistsAtInstant reports whether the user owns a record at the instant,
// other than excludeID.
func (db *DB) ExistsAtInstant(ctx context.Context, userID int64, at time.Time, excludeID int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.occupied(userID, at, excludeID), nil
}

// ListIntakes returns one page of matching records ordered by instant
// ascending plus the total match count.
func (db *DB) ListIntakes(ctx context.Context, userID int64, c domain.FilterCriteria) ([]domain.IntakeRecord, int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var matched []domain.IntakeRecord
	for _, rec := range db.records {
		if rec.UserID != userID {
			continue
		}
		if c.From != nil && rec.OccurredAt.Before(*c.From) {
			continue
		}
		if c.To != nil && rec.OccurredAt.After(*c.To) {
			continue
		}
		if c.MinVolume != nil && rec.VolumeML < *c.MinVolume {
			continue
		}
		if c.MaxVolume != nil && rec.VolumeML > *c.MaxVolume {
			continue
		}
		if c.Unit != "" && rec.Unit != c.Unit {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredAt.Before(matched[j].OccurredAt)
	})

	total := int64(len(matched))
	start := int64(c.Page) * int64(c.Size)
	if start >= total {
		return nil, total, nil
	}
	end := start + int64(c.Size)
	if end > total {
		end = total
	}
	out := make([]domain.IntakeRecord, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (db *DB) occupied(userID int64, at time.Time, excludeID int64) bool {
	for _, rec := range db.records {
		if rec.UserID == userID && rec.OccurredAt.Equal(at) && rec.ID != excludeID {
			return true
		}
	}
	return false
}

// --- UserRepository ---

// GetByUsername returns the user with the given username, or (nil, nil).
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			user := *u
			return &user, nil
		}
	}
	return nil, nil
}

// GetByID returns the user with the given id, or (nil, nil).
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			user := *u
			return &user, nil
		}
	}
	return nil, nil
}

// Create adds a user, rejecting duplicate usernames like the SQL schema.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("username already exists")
		}
	}

	db.userIDCounter++
	user := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, user)

	out := *user
	return &out, nil
}

// --- SessionRepository ---

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session token.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken returns the session for a token, or (nil, nil).
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.sessions[token]
	if !ok {
		return nil, nil
	}
	session := *s
	return &session, nil
}

// Delete removes a session token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
