package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/choices"
	"github.com/artem13815/hr-crm/pkg/dateonly"
	"github.com/artem13815/hr-crm/pkg/validate"
)

type memRepo map[uuid.UUID]Event

func (r memRepo) Create(_ context.Context, e Event) error {
	r[e.ID] = e
	return nil
}

func (r memRepo) Get(_ context.Context, candidateID, id uuid.UUID) (Event, error) {
	e, ok := r[id]
	if !ok || e.CandidateID != candidateID {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r memRepo) List(_ context.Context, candidateID uuid.UUID) ([]Event, error) {
	var out []Event
	for _, e := range r {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memRepo) Update(_ context.Context, e Event) error {
	r[e.ID] = e
	return nil
}

func (r memRepo) Delete(_ context.Context, candidateID, id uuid.UUID) error {
	if _, err := r.Get(context.Background(), candidateID, id); err != nil {
		return err
	}
	delete(r, id)
	return nil
}

type anyCandidate struct{ owner uuid.UUID }

func (a anyCandidate) Resolve(_ context.Context, user, id uuid.UUID) (candidate.Candidate, error) {
	if user != a.owner {
		return candidate.Candidate{}, apperr.NotFound("Кандидат не найден.")
	}
	return candidate.Candidate{ID: id}, nil
}

func date(y, m, d int) *dateonly.Date {
	v := dateonly.New(y, time.Month(m), d)
	return &v
}

func TestEventValidation(t *testing.T) {
	owner := uuid.New()
	svc := NewService(memRepo{}, anyCandidate{owner}, validate.New(choices.Default(), 14, 100), nil)
	cases := []struct {
		name  string
		f     Fields
		field string
	}{
		{"no title", Fields{StartDate: date(2024, 7, 1)}, "title"},
		{"no start", Fields{Title: "Интервью"}, "start_date"},
		{"end before start", Fields{Title: "Интервью", StartDate: date(2024, 7, 2), EndDate: date(2024, 7, 1)}, "end_date"},
		{"bad time", Fields{Title: "Интервью", StartDate: date(2024, 7, 1), StartTime: "25:00"}, "start_time"},
		{"same day end time first", Fields{
			Title: "Интервью", StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 1),
			StartTime: "15:00", EndTime: "9:30",
		}, "end_time"},
		{"bad link", Fields{Title: "Интервью", StartDate: date(2024, 7, 1), ConferenceLink: "zoom"}, "conference_link"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, uuid.New(), tc.f)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.KindValidation, ae.Kind)
			assert.Equal(t, tc.field, ae.Field)
		})
	}
}

func TestEventLifecycle(t *testing.T) {
	owner, candidateID := uuid.New(), uuid.New()
	repo := memRepo{}
	svc := NewService(repo, anyCandidate{owner}, validate.New(choices.Default(), 14, 100), nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, owner, candidateID, Fields{
		Title:          "Интервью с командой",
		StartDate:      date(2024, 7, 1),
		EndDate:        date(2024, 7, 1),
		StartTime:      "9:00",
		EndTime:        "10:30",
		ConferenceLink: "https://meet.example.com/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", e.StartTime)

	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"end_date":null,"end_time":null,"description":"Взять ноутбук"}`), &p))
	updated, err := svc.Update(ctx, owner, candidateID, e.ID, p)
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	assert.Empty(t, updated.EndTime)
	assert.Equal(t, "Взять ноутбук", updated.Description)
	assert.Equal(t, "Интервью с командой", updated.Title)

	_, err = svc.Get(ctx, uuid.New(), candidateID, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.Get(ctx, owner, uuid.New(), e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, svc.Delete(ctx, owner, candidateID, e.ID))
	assert.Empty(t, repo)
}
