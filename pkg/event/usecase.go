package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var ErrNotFound = errors.New("event not found")

// Repository lists events by start_date, then start_time.
type Repository interface {
	Create(ctx context.Context, e Event) error
	Get(ctx context.Context, candidateID, id uuid.UUID) (Event, error)
	List(ctx context.Context, candidateID uuid.UUID) ([]Event, error)
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, candidateID, id uuid.UUID) error
}

type Candidates interface {
	Resolve(ctx context.Context, user, id uuid.UUID) (candidate.Candidate, error)
}

type UseCase interface {
	Create(ctx context.Context, user, candidateID uuid.UUID, f Fields) (Event, error)
	Get(ctx context.Context, user, candidateID, id uuid.UUID) (Event, error)
	List(ctx context.Context, user, candidateID uuid.UUID) ([]Event, error)
	Replace(ctx context.Context, user, candidateID, id uuid.UUID, f Fields) (Event, error)
	Update(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Event, error)
	Delete(ctx context.Context, user, candidateID, id uuid.UUID) error
}

type service struct {
	repo       Repository
	candidates Candidates
	validate   *validate.Validator
	log        *zap.Logger
}

func NewService(repo Repository, candidates Candidates, v *validate.Validator, log *zap.Logger) UseCase {
	return &service{repo: repo, candidates: candidates, validate: v, log: logger.OrNop(log)}
}

func (s *service) Create(ctx context.Context, user, candidateID uuid.UUID, f Fields) (Event, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Event{}, err
	}
	e := Event{ID: uuid.New(), CandidateID: candidateID, Fields: normalize(f)}
	if err := s.check(e.Fields); err != nil {
		return Event{}, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, mapErr(err)
	}
	s.log.Info("event scheduled",
		zap.String("event_id", e.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.Stringer("start_date", e.StartDate))
	return e, nil
}

func (s *service) Get(ctx context.Context, user, candidateID, id uuid.UUID) (Event, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Event{}, err
	}
	e, err := s.repo.Get(ctx, candidateID, id)
	if err != nil {
		return Event{}, mapErr(err)
	}
	return e, nil
}

func (s *service) List(ctx context.Context, user, candidateID uuid.UUID) ([]Event, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, candidateID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, user, candidateID, id uuid.UUID, f Fields) (Event, error) {
	e, err := s.Get(ctx, user, candidateID, id)
	if err != nil {
		return Event{}, err
	}
	e.Fields = normalize(f)
	return s.save(ctx, e)
}

func (s *service) Update(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Event, error) {
	e, err := s.Get(ctx, user, candidateID, id)
	if err != nil {
		return Event{}, err
	}
	p.Apply(&e.Fields)
	e.Fields = normalize(e.Fields)
	return s.save(ctx, e)
}

func (s *service) save(ctx context.Context, e Event) (Event, error) {
	if err := s.check(e.Fields); err != nil {
		return Event{}, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, mapErr(err)
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, user, candidateID, id uuid.UUID) error {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, candidateID, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *service) check(f Fields) error {
	if err := s.validate.Struct(f); err != nil {
		return err
	}
	if f.StartDate == nil {
		return apperr.Required("start_date")
	}
	if f.EndDate == nil {
		return nil
	}
	if f.EndDate.Before(*f.StartDate) {
		return apperr.Validation("end_date", "Дата окончания не может быть раньше даты начала.")
	}
	// "HH:MM" strings compare in time order
	if f.EndDate.Equal(f.StartDate.Time) && f.StartTime != "" && f.EndTime != "" && f.EndTime < f.StartTime {
		return apperr.Validation("end_time", "Время окончания не может быть раньше времени начала.")
	}
	return nil
}

func normalize(f Fields) Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.StartTime = clock(f.StartTime)
	f.EndTime = clock(f.EndTime)
	f.Description = strings.TrimSpace(f.Description)
	f.ConferenceLink = strings.TrimSpace(f.ConferenceLink)
	return f
}

// clock pads a parsable time to HH:MM; anything else is left for validation.
func clock(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t.Format(TimeLayout)
	}
	return s
}

func mapErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Событие не найдено.")
	}
	return apperr.Internal(err)
}
