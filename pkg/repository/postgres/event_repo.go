package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/event"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Times travel as HH:MM text; the columns are TIME.
const eventSelect = `SELECT e.id, e.candidate_id, e.title, e.start_date, e.end_date,
	to_char(e.start_time, 'HH24:MI'), to_char(e.end_time, 'HH24:MI'), e.description, e.conference_link
FROM events e`

func scanEvent(r row) (event.Event, error) {
	var (
		e                  event.Event
		start, end         *time.Time
		startTime, endTime *string
	)
	err := r.Scan(&e.ID, &e.CandidateID, &e.Title, &start, &end, &startTime, &endTime, &e.Description, &e.ConferenceLink)
	if err != nil {
		return event.Event{}, err
	}
	e.StartDate, e.EndDate = dateOf(start), dateOf(end)
	e.StartTime, e.EndTime = deref(startTime), deref(endTime)
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e event.Event) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO events (id, candidate_id, title, start_date, end_date, start_time, end_time, description, conference_link)
VALUES ($1, $2, $3, $4, $5, $6::text::time, $7::text::time, $8, $9)
`, e.ID, e.CandidateID, e.Title, dateArg(e.StartDate), dateArg(e.EndDate),
		nullable(e.StartTime), nullable(e.EndTime), e.Description, e.ConferenceLink)
	if isForeignKeyViolation(err) {
		return candidate.ErrNotFound
	}
	return err
}

func (r *EventRepository) Get(ctx context.Context, candidateID, id uuid.UUID) (event.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1 AND e.candidate_id = $2`, id, candidateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return event.Event{}, event.ErrNotFound
	}
	return e, err
}

func (r *EventRepository) List(ctx context.Context, candidateID uuid.UUID) ([]event.Event, error) {
	rows, err := r.pool.Query(ctx, eventSelect+`
WHERE e.candidate_id = $1 ORDER BY e.start_date, e.start_time NULLS FIRST, e.seq`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []event.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e event.Event) error {
	return execAffected(ctx, r.pool, event.ErrNotFound, `
UPDATE events SET title = $3, start_date = $4, end_date = $5, start_time = $6::text::time,
	end_time = $7::text::time, description = $8, conference_link = $9
WHERE id = $1 AND candidate_id = $2
`, e.ID, e.CandidateID, e.Title, dateArg(e.StartDate), dateArg(e.EndDate),
		nullable(e.StartTime), nullable(e.EndTime), e.Description, e.ConferenceLink)
}

func (r *EventRepository) Delete(ctx context.Context, candidateID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, event.ErrNotFound,
		`DELETE FROM events WHERE id = $1 AND candidate_id = $2`, id, candidateID)
}
