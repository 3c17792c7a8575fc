package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitplan/internal/domain/event"
)

// PostgresStore implements Store using PostgreSQL via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a plan store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InitPostgresSchema creates the plan tables if they do not exist.
// PRE: pool is connected with DDL privileges
// POST: event and milestone tables exist
func InitPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		business_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS milestone (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		offset_days INTEGER NOT NULL,
		absolute_date TIMESTAMPTZ NOT NULL,
		owner TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_event_account_date ON event(account_id, date);
	CREATE INDEX IF NOT EXISTS idx_milestone_event ON milestone(event_id);
	CREATE INDEX IF NOT EXISTS idx_milestone_due ON milestone(status, absolute_date);
	`
	_, err := pool.Exec(ctx, schema)
	return err
}

const pgUpsertEventSQL = `INSERT INTO event (id, account_id, name, type, category, date, city, business_type, status, tags, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		name=EXCLUDED.name,
		type=EXCLUDED.type,
		category=EXCLUDED.category,
		date=EXCLUDED.date,
		city=EXCLUDED.city,
		business_type=EXCLUDED.business_type,
		status=EXCLUDED.status,
		tags=EXCLUDED.tags`

const pgUpsertMilestoneSQL = `INSERT INTO milestone (id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name=EXCLUDED.name,
		offset_days=EXCLUDED.offset_days,
		absolute_date=EXCLUDED.absolute_date,
		owner=EXCLUDED.owner,
		status=EXCLUDED.status,
		notes=EXCLUDED.notes,
		sort_order=EXCLUDED.sort_order`

const pgEventColumns = "id, account_id, name, type, category, date, city, business_type, status, tags, created_at"
const pgMilestoneColumns = "id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order"

// UpsertPlan writes a batch of events and milestones in one transaction.
// PRE: every milestone references an event in the batch or already persisted
// POST: all rows written, or none on error
func (s *PostgresStore) UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if _, err := tx.Exec(ctx, pgUpsertEventSQL, pgEventArgs(e)...); err != nil {
			return fmt.Errorf("upsert event %s: %w", e.ID, err)
		}
	}
	for _, m := range milestones {
		if _, err := tx.Exec(ctx, pgUpsertMilestoneSQL, pgMilestoneArgs(m)...); err != nil {
			return fmt.Errorf("upsert milestone %s: %w", m.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// SaveEvent persists a single event (insert or update).
func (s *PostgresStore) SaveEvent(ctx context.Context, e event.Event) error {
	_, err := s.pool.Exec(ctx, pgUpsertEventSQL, pgEventArgs(e)...)
	return err
}

// GetEventByID retrieves an event by its ID.
func (s *PostgresStore) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+pgEventColumns+" FROM event WHERE id = $1", id)
	entity, err := pgScanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return event.Event{}, fmt.Errorf("event not found: %w", err)
	}
	return entity, err
}

// GetEventsByAccount retrieves all events owned by an account, date ascending.
func (s *PostgresStore) GetEventsByAccount(ctx context.Context, accountID string) ([]event.Event, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+pgEventColumns+" FROM event WHERE account_id = $1 ORDER BY date ASC", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgCollectEvents(rows)
}

// GetEventsInRange retrieves an account's events with dates in [from, to].
func (s *PostgresStore) GetEventsInRange(ctx context.Context, accountID string, from, to time.Time) ([]event.Event, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+pgEventColumns+" FROM event WHERE account_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC",
		accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgCollectEvents(rows)
}

// DeleteEvent removes an event; milestones cascade via the schema.
func (s *PostgresStore) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM event WHERE id = $1", id)
	return err
}

// SaveMilestone persists a single milestone (insert or update).
func (s *PostgresStore) SaveMilestone(ctx context.Context, m event.Milestone) error {
	_, err := s.pool.Exec(ctx, pgUpsertMilestoneSQL, pgMilestoneArgs(m)...)
	return err
}

// GetMilestoneByID retrieves a milestone by its ID.
func (s *PostgresStore) GetMilestoneByID(ctx context.Context, id string) (event.Milestone, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+pgMilestoneColumns+" FROM milestone WHERE id = $1", id)
	entity, err := pgScanMilestone(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return event.Milestone{}, fmt.Errorf("milestone not found: %w", err)
	}
	return entity, err
}

// GetMilestonesByEvent retrieves an event's milestones in sort order.
func (s *PostgresStore) GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+pgMilestoneColumns+" FROM milestone WHERE event_id = $1 ORDER BY sort_order ASC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgCollectMilestones(rows)
}

// GetMilestonesDueBetween retrieves milestones due in [from, to] across all
// accounts, due date ascending.
func (s *PostgresStore) GetMilestonesDueBetween(ctx context.Context, from, to time.Time) ([]event.Milestone, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+pgMilestoneColumns+" FROM milestone WHERE absolute_date >= $1 AND absolute_date <= $2 ORDER BY absolute_date ASC",
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgCollectMilestones(rows)
}

func pgEventArgs(e event.Event) []any {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{e.ID, e.AccountID, e.Name, e.Type, e.Category, e.Date, e.City, e.BusinessType, e.Status, tags, e.CreatedAt}
}

func pgMilestoneArgs(m event.Milestone) []any {
	return []any{m.ID, m.EventID, m.Name, m.OffsetDays, m.AbsoluteDate, m.Owner, m.Status, m.Notes, m.SortOrder}
}

func pgScanEvent(row pgx.Row) (event.Event, error) {
	var entity event.Event
	err := row.Scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Name,
		&entity.Type,
		&entity.Category,
		&entity.Date,
		&entity.City,
		&entity.BusinessType,
		&entity.Status,
		&entity.Tags,
		&entity.CreatedAt,
	)
	return entity, err
}

func pgScanMilestone(row pgx.Row) (event.Milestone, error) {
	var entity event.Milestone
	err := row.Scan(
		&entity.ID,
		&entity.EventID,
		&entity.Name,
		&entity.OffsetDays,
		&entity.AbsoluteDate,
		&entity.Owner,
		&entity.Status,
		&entity.Notes,
		&entity.SortOrder,
	)
	return entity, err
}

func pgCollectEvents(rows pgx.Rows) ([]event.Event, error) {
	var results []event.Event
	for rows.Next() {
		entity, err := pgScanEvent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func pgCollectMilestones(rows pgx.Rows) ([]event.Milestone, error) {
	var results []event.Milestone
	for rows.Next() {
		entity, err := pgScanMilestone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
