package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/funnel"
)

// FunnelRepository хранит этапы воронки и их подэтапы.
type FunnelRepository struct {
	pool *pgxpool.Pool
}

func NewFunnelRepository(pool *pgxpool.Pool) *FunnelRepository {
	return &FunnelRepository{pool: pool}
}

func scanFields(r row, dst ...any) (funnel.Fields, error) {
	var f funnel.Fields
	var date *time.Time
	if err := r.Scan(append(dst, &f.Name, &date, &f.Status)...); err != nil {
		return funnel.Fields{}, err
	}
	f.Date = dateOf(date)
	return f, nil
}

// CreateStage writes the stage and its initial sub-stages atomically.
func (r *FunnelRepository) CreateStage(ctx context.Context, st funnel.Stage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO funnel_stages (id, candidate_id, name, date, status) VALUES ($1, $2, $3, $4, $5)
`, st.ID, st.CandidateID, st.Name, dateArg(st.Date), st.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return candidate.ErrNotFound
		}
		return err
	}
	for _, sub := range st.SubStages {
		_, err = tx.Exec(ctx, `
INSERT INTO funnel_substages (id, stage_id, name, date, status) VALUES ($1, $2, $3, $4, $5)
`, sub.ID, st.ID, sub.Name, dateArg(sub.Date), sub.Status)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *FunnelRepository) GetStage(ctx context.Context, candidateID, id uuid.UUID) (funnel.Stage, error) {
	var st funnel.Stage
	f, err := scanFields(r.pool.QueryRow(ctx, `
SELECT id, candidate_id, name, date, status FROM funnel_stages WHERE id = $1 AND candidate_id = $2
`, id, candidateID), &st.ID, &st.CandidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return funnel.Stage{}, funnel.ErrStageNotFound
		}
		return funnel.Stage{}, err
	}
	st.Fields = f
	if st.SubStages, err = r.ListSubStages(ctx, st.ID); err != nil {
		return funnel.Stage{}, err
	}
	return st, nil
}

// ListStages returns the newest stages first, each with its sub-stages.
func (r *FunnelRepository) ListStages(ctx context.Context, candidateID uuid.UUID) ([]funnel.Stage, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, candidate_id, name, date, status FROM funnel_stages
WHERE candidate_id = $1 ORDER BY date DESC NULLS LAST, seq
`, candidateID)
	if err != nil {
		return nil, err
	}
	var out []funnel.Stage
	for rows.Next() {
		var st funnel.Stage
		f, err := scanFields(rows, &st.ID, &st.CandidateID)
		if err != nil {
			rows.Close()
			return nil, err
		}
		st.Fields = f
		out = append(out, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(out))
	index := make(map[uuid.UUID]int, len(out))
	for i, st := range out {
		ids[i] = st.ID
		index[st.ID] = i
		out[i].SubStages = []funnel.SubStage{}
	}
	subs, err := r.querySubStages(ctx, `WHERE stage_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		i := index[sub.StageID]
		out[i].SubStages = append(out[i].SubStages, sub)
	}
	return out, nil
}

func (r *FunnelRepository) UpdateStage(ctx context.Context, st funnel.Stage) error {
	return execAffected(ctx, r.pool, funnel.ErrStageNotFound, `
UPDATE funnel_stages SET name = $3, date = $4, status = $5 WHERE id = $1 AND candidate_id = $2
`, st.ID, st.CandidateID, st.Name, dateArg(st.Date), st.Status)
}

func (r *FunnelRepository) DeleteStage(ctx context.Context, candidateID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, funnel.ErrStageNotFound,
		`DELETE FROM funnel_stages WHERE id = $1 AND candidate_id = $2`, id, candidateID)
}

func (r *FunnelRepository) CreateSubStage(ctx context.Context, sub funnel.SubStage) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO funnel_substages (id, stage_id, name, date, status) VALUES ($1, $2, $3, $4, $5)
`, sub.ID, sub.StageID, sub.Name, dateArg(sub.Date), sub.Status)
	if isForeignKeyViolation(err) {
		return funnel.ErrStageNotFound
	}
	return err
}

func (r *FunnelRepository) GetSubStage(ctx context.Context, stageID, id uuid.UUID) (funnel.SubStage, error) {
	subs, err := r.querySubStages(ctx, `WHERE stage_id = $1 AND id = $2`, stageID, id)
	if err != nil {
		return funnel.SubStage{}, err
	}
	if len(subs) == 0 {
		return funnel.SubStage{}, funnel.ErrSubStageNotFound
	}
	return subs[0], nil
}

func (r *FunnelRepository) ListSubStages(ctx context.Context, stageID uuid.UUID) ([]funnel.SubStage, error) {
	subs, err := r.querySubStages(ctx, `WHERE stage_id = $1`, stageID)
	if subs == nil && err == nil {
		subs = []funnel.SubStage{}
	}
	return subs, err
}

func (r *FunnelRepository) querySubStages(ctx context.Context, where string, args ...any) ([]funnel.SubStage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, stage_id, name, date, status FROM funnel_substages `+
		where+` ORDER BY date DESC NULLS LAST, seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []funnel.SubStage
	for rows.Next() {
		var sub funnel.SubStage
		f, err := scanFields(rows, &sub.ID, &sub.StageID)
		if err != nil {
			return nil, err
		}
		sub.Fields = f
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (r *FunnelRepository) UpdateSubStage(ctx context.Context, sub funnel.SubStage) error {
	return execAffected(ctx, r.pool, funnel.ErrSubStageNotFound, `
UPDATE funnel_substages SET name = $3, date = $4, status = $5 WHERE id = $1 AND stage_id = $2
`, sub.ID, sub.StageID, sub.Name, dateArg(sub.Date), sub.Status)
}

func (r *FunnelRepository) DeleteSubStage(ctx context.Context, stageID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, funnel.ErrSubStageNotFound,
		`DELETE FROM funnel_substages WHERE id = $1 AND stage_id = $2`, id, stageID)
}

// execAffected maps "no row touched" to notFound.
func execAffected(ctx context.Context, pool *pgxpool.Pool, notFound error, query string, args ...any) error {
	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
