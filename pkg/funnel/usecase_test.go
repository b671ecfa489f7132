package funnel

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/validate"
)

type memRepo struct {
	stages map[uuid.UUID]Stage
	subs   map[uuid.UUID]SubStage
}

func newMemRepo() *memRepo {
	return &memRepo{stages: map[uuid.UUID]Stage{}, subs: map[uuid.UUID]SubStage{}}
}

func (r *memRepo) CreateStage(_ context.Context, st Stage) error {
	for _, sub := range st.SubStages {
		r.subs[sub.ID] = sub
	}
	st.SubStages = nil
	r.stages[st.ID] = st
	return nil
}

func (r *memRepo) GetStage(_ context.Context, candidateID, id uuid.UUID) (Stage, error) {
	st, ok := r.stages[id]
	if !ok || st.CandidateID != candidateID {
		return Stage{}, ErrStageNotFound
	}
	for _, sub := range r.subs {
		if sub.StageID == id {
			st.SubStages = append(st.SubStages, sub)
		}
	}
	return st, nil
}

func (r *memRepo) ListStages(_ context.Context, candidateID uuid.UUID) ([]Stage, error) {
	var out []Stage
	for _, st := range r.stages {
		if st.CandidateID == candidateID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateStage(_ context.Context, st Stage) error {
	st.SubStages = nil
	r.stages[st.ID] = st
	return nil
}

func (r *memRepo) DeleteStage(_ context.Context, candidateID, id uuid.UUID) error {
	st, ok := r.stages[id]
	if !ok || st.CandidateID != candidateID {
		return ErrStageNotFound
	}
	delete(r.stages, id)
	for sid, sub := range r.subs {
		if sub.StageID == id {
			delete(r.subs, sid)
		}
	}
	return nil
}

func (r *memRepo) CreateSubStage(_ context.Context, sub SubStage) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *memRepo) GetSubStage(_ context.Context, stageID, id uuid.UUID) (SubStage, error) {
	sub, ok := r.subs[id]
	if !ok || sub.StageID != stageID {
		return SubStage{}, ErrSubStageNotFound
	}
	return sub, nil
}

func (r *memRepo) ListSubStages(_ context.Context, stageID uuid.UUID) ([]SubStage, error) {
	var out []SubStage
	for _, sub := range r.subs {
		if sub.StageID == stageID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateSubStage(_ context.Context, sub SubStage) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *memRepo) DeleteSubStage(_ context.Context, stageID, id uuid.UUID) error {
	if _, err := r.GetSubStage(context.Background(), stageID, id); err != nil {
		return err
	}
	delete(r.subs, id)
	return nil
}

type ownedCandidate struct{ owner, id uuid.UUID }

func (o ownedCandidate) Resolve(_ context.Context, user, id uuid.UUID) (candidate.Candidate, error) {
	if user != o.owner || id != o.id {
		return candidate.Candidate{}, apperr.NotFound("Кандидат не найден.")
	}
	return candidate.Candidate{ID: id}, nil
}

func newTestService() (UseCase, *memRepo, ownedCandidate) {
	repo := newMemRepo()
	cand := ownedCandidate{owner: uuid.New(), id: uuid.New()}
	return NewService(repo, cand, validate.New(choices.Default(), 14, 100), nil), repo, cand
}

func TestCreateStageWithSubStages(t *testing.T) {
	svc, repo, cand := newTestService()
	var in StageInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Техническое интервью",
		"date": "2024-05-10",
		"substage": [{"name": "Алгоритмы"}, {"name": "Системный дизайн", "status": "2"}]
	}`), &in))

	st, err := svc.Create(context.Background(), cand.owner, cand.id, in)
	require.NoError(t, err)
	assert.Equal(t, DefaultStatus, st.Status)
	assert.Equal(t, "2024-05-10", st.Date.String())
	require.Len(t, st.SubStages, 2)
	assert.Equal(t, DefaultStatus, st.SubStages[0].Status)
	assert.Equal(t, "2", st.SubStages[1].Status)
	assert.Len(t, repo.subs, 2)
}

func TestCreateStageRejectsBadSubStage(t *testing.T) {
	svc, repo, cand := newTestService()
	in := StageInput{
		Fields:    Fields{Name: "Оффер"},
		SubStages: []Fields{{Name: "Согласование"}, {Name: "Подписание", Status: "9"}},
	}
	_, err := svc.Create(context.Background(), cand.owner, cand.id, in)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "substage[1].status", ae.Field)
	assert.Empty(t, repo.stages)
	assert.Empty(t, repo.subs)
}

func TestStageOfForeignCandidateIsHidden(t *testing.T) {
	svc, _, cand := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, uuid.New(), cand.id, StageInput{Fields: Fields{Name: "Скрининг"}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	st, err := svc.Create(ctx, cand.owner, cand.id, StageInput{Fields: Fields{Name: "Скрининг"}})
	require.NoError(t, err)
	_, err = svc.Get(ctx, cand.owner, uuid.New(), st.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPatchAndReplaceStage(t *testing.T) {
	svc, _, cand := newTestService()
	ctx := context.Background()
	d := dateonly.New(2024, 5, 1)
	st, err := svc.Create(ctx, cand.owner, cand.id, StageInput{Fields: Fields{Name: "HR", Date: &d, Status: "1"}})
	require.NoError(t, err)

	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"3","date":null}`), &p))
	updated, err := svc.Update(ctx, cand.owner, cand.id, st.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "3", updated.Status)
	assert.Nil(t, updated.Date)
	assert.Equal(t, "HR", updated.Name)

	replaced, err := svc.Replace(ctx, cand.owner, cand.id, st.ID, Fields{Name: "HR-интервью"})
	require.NoError(t, err)
	assert.Equal(t, DefaultStatus, replaced.Status)

	_, err = svc.Replace(ctx, cand.owner, cand.id, st.ID, Fields{})
	assert.Equal(t, "name", apperr.As(err).Field)
}

func TestSubStageLifecycle(t *testing.T) {
	svc, repo, cand := newTestService()
	ctx := context.Background()
	st, err := svc.Create(ctx, cand.owner, cand.id, StageInput{Fields: Fields{Name: "Тестовое"}})
	require.NoError(t, err)

	sub, err := svc.CreateSubStage(ctx, cand.owner, cand.id, st.ID, Fields{Name: "Выдача задания"})
	require.NoError(t, err)
	subs, err := svc.ListSubStages(ctx, cand.owner, cand.id, st.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"2"}`), &p))
	sub, err = svc.UpdateSubStage(ctx, cand.owner, cand.id, st.ID, sub.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "2", sub.Status)

	_, err = svc.GetSubStage(ctx, cand.owner, cand.id, uuid.New(), sub.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, cand.owner, cand.id, st.ID))
	assert.Empty(t, repo.subs)
}
