package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/types"
)

// SQLiteStore implements Store on SQLite used as a document store: profile
// sub-documents (skills, experience, education, counters) are JSON columns,
// while the fields the queries touch stay relational.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	avatar          TEXT NOT NULL DEFAULT '',
	headline        TEXT NOT NULL DEFAULT '',
	open_to_work    INTEGER NOT NULL DEFAULT 0,
	hiring          INTEGER NOT NULL DEFAULT 0,
	skills          TEXT NOT NULL DEFAULT '[]',
	experience      TEXT NOT NULL DEFAULT '[]',
	education       TEXT NOT NULL DEFAULT '[]',
	profile_views   INTEGER NOT NULL DEFAULT 0,
	action_counters TEXT NOT NULL DEFAULT '{}',
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS connections (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	connected_id    TEXT NOT NULL,
	relationship    TEXT NOT NULL DEFAULT '',
	connected_since TIMESTAMP NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	UNIQUE(owner_id, connected_id)
);
CREATE INDEX IF NOT EXISTS idx_connections_owner ON connections(owner_id);

CREATE TABLE IF NOT EXISTS recommendations (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	author_id  TEXT NOT NULL,
	text       TEXT NOT NULL,
	date       TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendations_owner ON recommendations(owner_id);
`

// NewSQLiteStore opens (or creates) the database at path and migrates the
// schema. Use path ":memory:" for an ephemeral database.
func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent tool calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("SQLite store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

const profileColumns = `id, name, email, phone, avatar, headline, open_to_work, hiring,
	skills, experience, education, profile_views, action_counters, created_at, updated_at`

func (s *SQLiteStore) scanProfiles(rows *sql.Rows) ([]types.Profile, error) {
	var profiles []types.Profile
	for rows.Next() {
		p, err := scanProfileRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfileRow(row rowScanner) (*types.Profile, error) {
	var p types.Profile
	var skillsJSON, experienceJSON, educationJSON, countersJSON []byte

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Avatar,
		&p.Headline,
		&p.OpenToWork,
		&p.Hiring,
		&skillsJSON,
		&experienceJSON,
		&educationJSON,
		&p.ProfileViews,
		&countersJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skillsJSON, &p.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(experienceJSON, &p.Experience); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(educationJSON, &p.Education); err != nil {
		return nil, fmt.Errorf("failed to unmarshal education for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal(countersJSON, &p.ActionCounters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action counters for %s: %w", p.ID, err)
	}
	return &p, nil
}

// FindProfilesByName returns profiles whose name contains substring,
// case-insensitively, in insertion order. Matching happens in-process because
// SQLite's lower() folds only ASCII, and names like "Émilie" must match the
// same way they do in the memory store.
func (s *SQLiteStore) FindProfilesByName(ctx context.Context, substring string) ([]types.Profile, error) {
	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by name: %w", err)
	}

	needle := strings.ToLower(substring)
	var out []types.Profile
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].Name), needle) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// FindProfilesBySkills filters the collection in-process. The skill documents
// live in a JSON column, so matching happens on the decoded form; the
// collection is small by design.
func (s *SQLiteStore) FindProfilesBySkills(ctx context.Context, names []string, matchAll bool) ([]types.Profile, error) {
	if len(names) == 0 {
		return nil, nil
	}

	all, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	var out []types.Profile
	for i := range all {
		if profileMatchesSkills(&all[i], names, matchAll) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// ListProfiles returns every profile in insertion order.
func (s *SQLiteStore) ListProfiles(ctx context.Context) ([]types.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return s.scanProfiles(rows)
}

// GetProfile returns the profile with the given ID, or ErrNotFound.
func (s *SQLiteStore) GetProfile(ctx context.Context, id types.ProfileID) (*types.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)

	p, err := scanProfileRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

func marshalProfileDocs(p *types.Profile) (skills, experience, education, counters []byte, err error) {
	if skills, err = json.Marshal(emptySliceIfNil(p.Skills)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	if experience, err = json.Marshal(emptySliceIfNil(p.Experience)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	if education, err = json.Marshal(emptySliceIfNil(p.Education)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	countersMap := p.ActionCounters
	if countersMap == nil {
		countersMap = map[string]int{}
	}
	if counters, err = json.Marshal(countersMap); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal action counters: %w", err)
	}
	return skills, experience, education, counters, nil
}

func emptySliceIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// CreateProfile stores a new profile document.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	skills, experience, education, counters, err := marshalProfileDocs(profile)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, name, email, phone, avatar, headline, open_to_work, hiring,
			skills, experience, education, profile_views, action_counters,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.Name, profile.Email, profile.Phone, profile.Avatar,
		profile.Headline, profile.OpenToWork, profile.Hiring,
		skills, experience, education, profile.ProfileViews, counters,
		createdAt, now,
	)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create profile %s: %w", profile.ID, err)
	}

	s.logger.Debug("Created profile", "id", profile.ID, "name", profile.Name)
	return nil
}

// UpdateProfile replaces a stored profile document.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, profile *types.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	skills, experience, education, counters, err := marshalProfileDocs(profile)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET
			name = ?, email = ?, phone = ?, avatar = ?, headline = ?,
			open_to_work = ?, hiring = ?, skills = ?, experience = ?,
			education = ?, profile_views = ?, action_counters = ?, updated_at = ?
		WHERE id = ?`,
		profile.Name, profile.Email, profile.Phone, profile.Avatar, profile.Headline,
		profile.OpenToWork, profile.Hiring, skills, experience, education,
		profile.ProfileViews, counters, time.Now().UTC(), profile.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, err)
	}
	return requireRowAffected(res, profile.ID)
}

// IncrementCounter bumps an action counter with a single UPDATE so concurrent
// callers never lose increments.
func (s *SQLiteStore) IncrementCounter(ctx context.Context, id types.ProfileID, counter string) error {
	if strings.TrimSpace(counter) == "" {
		return errors.New("counter name cannot be empty")
	}

	path := "$." + counter
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET
			action_counters = json_set(action_counters, ?, coalesce(json_extract(action_counters, ?), 0) + 1),
			updated_at = ?
		WHERE id = ?`,
		path, path, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment counter %q on %s: %w", counter, id, err)
	}
	return requireRowAffected(res, id)
}

// IncrementProfileViews bumps the view count with a single UPDATE.
func (s *SQLiteStore) IncrementProfileViews(ctx context.Context, id types.ProfileID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET profile_views = profile_views + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment views on %s: %w", id, err)
	}
	return requireRowAffected(res, id)
}

// FindConnectionsByOwner returns the owner's edges in insertion order.
func (s *SQLiteStore) FindConnectionsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Connection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, connected_id, relationship, connected_since, created_at
		FROM connections WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections for %s: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Connection
	for rows.Next() {
		var c types.Connection
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.ConnectedID, &c.Relationship, &c.ConnectedSince, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddConnection stores an edge; the (owner, connected) pair is unique.
func (s *SQLiteStore) AddConnection(ctx context.Context, conn *types.Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}

	createdAt := conn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connections (id, owner_id, connected_id, relationship, connected_since, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		conn.ID, conn.OwnerID, conn.ConnectedID, conn.Relationship, conn.ConnectedSince, createdAt,
	)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to add connection %s -> %s: %w", conn.OwnerID, conn.ConnectedID, err)
	}
	return nil
}

// FindRecommendationsByOwner returns the recipient's recommendations in
// insertion order.
func (s *SQLiteStore) FindRecommendationsByOwner(ctx context.Context, ownerID types.ProfileID) ([]types.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, author_id, text, date, created_at
		FROM recommendations WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations for %s: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Recommendation
	for rows.Next() {
		var r types.Recommendation
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.AuthorID, &r.Text, &r.Date, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddRecommendation stores a recommendation.
func (s *SQLiteStore) AddRecommendation(ctx context.Context, rec *types.Recommendation) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (id, owner_id, author_id, text, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.AuthorID, rec.Text, rec.Date, createdAt,
	)
	if isConstraintErr(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to add recommendation for %s: %w", rec.OwnerID, err)
	}
	return nil
}

// HealthCheck pings the database.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func requireRowAffected(res sql.Result, id types.ProfileID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
