package plan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fitplan/internal/adapters/storage"
	"fitplan/internal/domain/event"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new plan store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = "id, account_id, name, type, category, date, city, business_type, status, tags, created_at"

const upsertEventSQL = `INSERT INTO event (` + eventColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name=excluded.name,
		type=excluded.type,
		category=excluded.category,
		date=excluded.date,
		city=excluded.city,
		business_type=excluded.business_type,
		status=excluded.status,
		tags=excluded.tags`

const upsertMilestoneSQL = `INSERT INTO milestone (id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name=excluded.name,
		offset_days=excluded.offset_days,
		absolute_date=excluded.absolute_date,
		owner=excluded.owner,
		status=excluded.status,
		notes=excluded.notes,
		sort_order=excluded.sort_order`

// UpsertPlan writes a batch of events and milestones in one transaction.
// PRE: every milestone references an event in the batch or already persisted
// POST: all rows written, or none on error
func (s *SQLiteStore) UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, upsertEventSQL, eventArgs(e)...); err != nil {
			return fmt.Errorf("upsert event %s: %w", e.ID, err)
		}
	}
	for _, m := range milestones {
		if _, err := tx.ExecContext(ctx, upsertMilestoneSQL, milestoneArgs(m)...); err != nil {
			return fmt.Errorf("upsert milestone %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEvent persists a single event (insert or update).
// PRE: e has been validated
// POST: Event row is persisted
func (s *SQLiteStore) SaveEvent(ctx context.Context, e event.Event) error {
	_, err := s.db.ExecContext(ctx, upsertEventSQL, eventArgs(e)...)
	return err
}

// GetEventByID retrieves an event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	query := "SELECT " + eventColumns + " FROM event WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return event.Event{}, fmt.Errorf("event not found: %w", err)
	}
	return entity, err
}

// GetEventsByAccount retrieves all events owned by an account, date ascending.
// PRE: accountID is non-empty
// POST: Returns matching events
func (s *SQLiteStore) GetEventsByAccount(ctx context.Context, accountID string) ([]event.Event, error) {
	query := "SELECT " + eventColumns + " FROM event WHERE account_id = ? ORDER BY date ASC"
	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// GetEventsInRange retrieves an account's events with dates in [from, to].
// PRE: accountID is non-empty, from <= to
// POST: Returns matching events, date ascending
func (s *SQLiteStore) GetEventsInRange(ctx context.Context, accountID string, from, to time.Time) ([]event.Event, error) {
	query := "SELECT " + eventColumns + " FROM event WHERE account_id = ? AND date >= ? AND date <= ? ORDER BY date ASC"
	rows, err := s.db.QueryContext(ctx, query, accountID, from.Format(timeFormat), to.Format(timeFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// DeleteEvent removes an event; milestones cascade via the schema.
// PRE: id is non-empty
// POST: Event and its milestones are removed
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM event WHERE id = ?", id)
	return err
}

// SaveMilestone persists a single milestone (insert or update).
// PRE: m has been validated
// POST: Milestone row is persisted
func (s *SQLiteStore) SaveMilestone(ctx context.Context, m event.Milestone) error {
	_, err := s.db.ExecContext(ctx, upsertMilestoneSQL, milestoneArgs(m)...)
	return err
}

// GetMilestoneByID retrieves a milestone by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetMilestoneByID(ctx context.Context, id string) (event.Milestone, error) {
	query := "SELECT id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order FROM milestone WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanMilestone(row.Scan)
	if err == sql.ErrNoRows {
		return event.Milestone{}, fmt.Errorf("milestone not found: %w", err)
	}
	return entity, err
}

// GetMilestonesByEvent retrieves an event's milestones in sort order.
// PRE: eventID is non-empty
// POST: Returns matching milestones ordered by sort_order
func (s *SQLiteStore) GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error) {
	query := "SELECT id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order FROM milestone WHERE event_id = ? ORDER BY sort_order ASC"
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMilestones(rows)
}

// GetMilestonesDueBetween retrieves milestones with due dates in [from, to]
// across all accounts, due date ascending.
// PRE: from <= to
// POST: Returns matching milestones
func (s *SQLiteStore) GetMilestonesDueBetween(ctx context.Context, from, to time.Time) ([]event.Milestone, error) {
	query := "SELECT id, event_id, name, offset_days, absolute_date, owner, status, notes, sort_order FROM milestone WHERE absolute_date >= ? AND absolute_date <= ? ORDER BY absolute_date ASC"
	rows, err := s.db.QueryContext(ctx, query, from.Format(timeFormat), to.Format(timeFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMilestones(rows)
}

func eventArgs(e event.Event) []interface{} {
	return []interface{}{
		e.ID,
		e.AccountID,
		e.Name,
		e.Type,
		e.Category,
		e.Date.Format(timeFormat),
		e.City,
		e.BusinessType,
		e.Status,
		strings.Join(e.Tags, ","),
		e.CreatedAt.Format(timeFormat),
	}
}

func milestoneArgs(m event.Milestone) []interface{} {
	return []interface{}{
		m.ID,
		m.EventID,
		m.Name,
		m.OffsetDays,
		m.AbsoluteDate.Format(timeFormat),
		m.Owner,
		m.Status,
		m.Notes,
		m.SortOrder,
	}
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...interface{}) error) (event.Event, error) {
	var entity event.Event
	var date, createdAt, tags string
	err := scan(
		&entity.ID,
		&entity.AccountID,
		&entity.Name,
		&entity.Type,
		&entity.Category,
		&date,
		&entity.City,
		&entity.BusinessType,
		&entity.Status,
		&tags,
		&createdAt,
	)
	if err != nil {
		return event.Event{}, err
	}
	entity.Date, _ = parseTime(date)
	entity.CreatedAt, _ = parseTime(createdAt)
	if tags != "" {
		entity.Tags = strings.Split(tags, ",")
	} else {
		entity.Tags = []string{}
	}
	return entity, nil
}

// scanMilestone extracts a Milestone from a row scanner function.
func scanMilestone(scan func(dest ...interface{}) error) (event.Milestone, error) {
	var entity event.Milestone
	var absoluteDate string
	err := scan(
		&entity.ID,
		&entity.EventID,
		&entity.Name,
		&entity.OffsetDays,
		&absoluteDate,
		&entity.Owner,
		&entity.Status,
		&entity.Notes,
		&entity.SortOrder,
	)
	if err != nil {
		return event.Milestone{}, err
	}
	entity.AbsoluteDate, _ = parseTime(absoluteDate)
	return entity, nil
}

func collectEvents(rows *sql.Rows) ([]event.Event, error) {
	var results []event.Event
	for rows.Next() {
		entity, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func collectMilestones(rows *sql.Rows) ([]event.Milestone, error) {
	var results []event.Milestone
	for rows.Next() {
		entity, err := scanMilestone(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
