package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rogue-trader/internal/game/actor"
)

// ErrActorNotFound is returned when an actor lookup yields no results.
var ErrActorNotFound = errors.New("actor not found")

// ErrActorNameTaken is returned when storing an actor under a name already in use.
var ErrActorNameTaken = errors.New("actor name already taken")

// ActorRecord is a stored actor sheet.
type ActorRecord struct {
	ID        uuid.UUID
	Name      string
	Type      actor.Type
	Sheet     *actor.Sheet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActorRepository persists actor sheets. The sheet is stored as YAML text so
// the stored form matches the files the tools read.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates an ActorRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// Create stores s under its own name.
//
// Precondition: s must be non-nil and pass Validate.
// Postcondition: Returns the stored record with ID and timestamps set, or
// ErrActorNameTaken on a duplicate name.
func (r *ActorRepository) Create(ctx context.Context, s *actor.Sheet) (*ActorRecord, error) {
	data, err := encodeSheet(s)
	if err != nil {
		return nil, err
	}

	var (
		out ActorRecord
		raw string
	)
	err = r.db.QueryRow(ctx, `
		INSERT INTO actors (name, actor_type, sheet)
		VALUES ($1, $2, $3)
		RETURNING id, name, actor_type, sheet, created_at, updated_at`,
		s.Name, string(s.Type), data,
	).Scan(&out.ID, &out.Name, &out.Type, &raw, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrActorNameTaken
		}
		return nil, fmt.Errorf("inserting actor: %w", err)
	}
	if out.Sheet, err = decodeSheet(raw); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get retrieves an actor by ID.
//
// Postcondition: Returns the record or ErrActorNotFound.
func (r *ActorRepository) Get(ctx context.Context, id uuid.UUID) (*ActorRecord, error) {
	return r.getOne(ctx, `
		SELECT id, name, actor_type, sheet, created_at, updated_at
		FROM actors WHERE id = $1`, id)
}

// GetByName retrieves an actor by its exact name.
//
// Postcondition: Returns the record or ErrActorNotFound.
func (r *ActorRepository) GetByName(ctx context.Context, name string) (*ActorRecord, error) {
	return r.getOne(ctx, `
		SELECT id, name, actor_type, sheet, created_at, updated_at
		FROM actors WHERE name = $1`, name)
}

func (r *ActorRepository) getOne(ctx context.Context, query string, arg any) (*ActorRecord, error) {
	var (
		out ActorRecord
		raw string
	)
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&out.ID, &out.Name, &out.Type, &raw, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, fmt.Errorf("querying actor: %w", err)
	}
	if out.Sheet, err = decodeSheet(raw); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every stored actor ordered by name. A nil typ lists all types.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *ActorRepository) List(ctx context.Context, typ *actor.Type) ([]*ActorRecord, error) {
	var filter any
	if typ != nil {
		filter = string(*typ)
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, actor_type, sheet, created_at, updated_at
		FROM actors
		WHERE $1::text IS NULL OR actor_type = $1
		ORDER BY name ASC`,
		filter,
	)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	defer rows.Close()

	records := make([]*ActorRecord, 0)
	for rows.Next() {
		var (
			rec ActorRecord
			raw string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Type, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning actor row: %w", err)
		}
		if rec.Sheet, err = decodeSheet(raw); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Update replaces the sheet stored under id. The name and type columns follow
// the new sheet.
//
// Precondition: s must be non-nil and pass Validate.
// Postcondition: Returns nil on success, ErrActorNotFound if no row updated,
// or ErrActorNameTaken if the new name collides.
func (r *ActorRepository) Update(ctx context.Context, id uuid.UUID, s *actor.Sheet) error {
	data, err := encodeSheet(s)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE actors SET name = $2, actor_type = $3, sheet = $4, updated_at = NOW()
		WHERE id = $1`,
		id, s.Name, string(s.Type), data,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrActorNameTaken
		}
		return fmt.Errorf("updating actor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrActorNotFound
	}
	return nil
}

// Delete removes the actor with the given ID.
//
// Postcondition: Returns nil on success or ErrActorNotFound.
func (r *ActorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting actor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrActorNotFound
	}
	return nil
}

func encodeSheet(s *actor.Sheet) (string, error) {
	if s == nil {
		panic("postgres.encodeSheet: precondition violated: sheet must be non-nil")
	}
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("validating actor %q: %w", s.Name, err)
	}
	data, err := actor.MarshalSheet(s)
	if err != nil {
		return "", fmt.Errorf("encoding actor %q: %w", s.Name, err)
	}
	return string(data), nil
}

func decodeSheet(raw string) (*actor.Sheet, error) {
	s, err := actor.ParseSheet([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding stored sheet: %w", err)
	}
	return s, nil
}

// isDuplicateKeyError reports whether err is a PostgreSQL unique_violation.
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
