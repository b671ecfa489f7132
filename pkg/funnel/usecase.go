package funnel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/hr-crm/pkg/apperr"
	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/logger"
	"github.com/artem13815/hr-crm/pkg/validate"
)

var (
	ErrStageNotFound    = errors.New("funnel stage not found")
	ErrSubStageNotFound = errors.New("funnel sub-stage not found")
)

// Repository: порт хранения воронки. CreateStage пишет этап вместе с
// подэтапами в одной транзакции. Списки отсортированы по дате (новые
// первыми, без даты в конце).
type Repository interface {
	CreateStage(ctx context.Context, st Stage) error
	GetStage(ctx context.Context, candidateID, id uuid.UUID) (Stage, error)
	ListStages(ctx context.Context, candidateID uuid.UUID) ([]Stage, error)
	UpdateStage(ctx context.Context, st Stage) error
	DeleteStage(ctx context.Context, candidateID, id uuid.UUID) error

	CreateSubStage(ctx context.Context, sub SubStage) error
	GetSubStage(ctx context.Context, stageID, id uuid.UUID) (SubStage, error)
	ListSubStages(ctx context.Context, stageID uuid.UUID) ([]SubStage, error)
	UpdateSubStage(ctx context.Context, sub SubStage) error
	DeleteSubStage(ctx context.Context, stageID, id uuid.UUID) error
}

// Candidates finds a candidate visible to the recruiter.
type Candidates interface {
	Resolve(ctx context.Context, user, id uuid.UUID) (candidate.Candidate, error)
}

type UseCase interface {
	Create(ctx context.Context, user, candidateID uuid.UUID, in StageInput) (Stage, error)
	Get(ctx context.Context, user, candidateID, id uuid.UUID) (Stage, error)
	List(ctx context.Context, user, candidateID uuid.UUID) ([]Stage, error)
	Replace(ctx context.Context, user, candidateID, id uuid.UUID, f Fields) (Stage, error)
	Update(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Stage, error)
	Delete(ctx context.Context, user, candidateID, id uuid.UUID) error

	CreateSubStage(ctx context.Context, user, candidateID, stageID uuid.UUID, f Fields) (SubStage, error)
	GetSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID) (SubStage, error)
	ListSubStages(ctx context.Context, user, candidateID, stageID uuid.UUID) ([]SubStage, error)
	ReplaceSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID, f Fields) (SubStage, error)
	UpdateSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID, p Patch) (SubStage, error)
	DeleteSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID) error
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

func (s *service) Create(ctx context.Context, user, candidateID uuid.UUID, in StageInput) (Stage, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Stage{}, err
	}
	st := Stage{ID: uuid.New(), CandidateID: candidateID, Fields: normalize(in.Fields)}
	if err := s.validate.Struct(st.Fields); err != nil {
		return Stage{}, err
	}
	for i, f := range in.SubStages {
		f = normalize(f)
		if err := s.validate.Struct(f); err != nil {
			return Stage{}, nested(i, err)
		}
		st.SubStages = append(st.SubStages, SubStage{ID: uuid.New(), StageID: st.ID, Fields: f})
	}
	if err := s.repo.CreateStage(ctx, st); err != nil {
		return Stage{}, mapErr(err)
	}
	s.log.Info("funnel stage created",
		zap.String("stage_id", st.ID.String()),
		zap.String("candidate_id", candidateID.String()),
		zap.Int("substages", len(st.SubStages)))
	return st, nil
}

func (s *service) Get(ctx context.Context, user, candidateID, id uuid.UUID) (Stage, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Stage{}, err
	}
	st, err := s.repo.GetStage(ctx, candidateID, id)
	if err != nil {
		return Stage{}, mapErr(err)
	}
	return st, nil
}

func (s *service) List(ctx context.Context, user, candidateID uuid.UUID) ([]Stage, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListStages(ctx, candidateID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) Replace(ctx context.Context, user, candidateID, id uuid.UUID, f Fields) (Stage, error) {
	st, err := s.Get(ctx, user, candidateID, id)
	if err != nil {
		return Stage{}, err
	}
	st.Fields = normalize(f)
	return s.saveStage(ctx, st)
}

func (s *service) Update(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Stage, error) {
	st, err := s.Get(ctx, user, candidateID, id)
	if err != nil {
		return Stage{}, err
	}
	p.Apply(&st.Fields)
	st.Fields = normalize(st.Fields)
	return s.saveStage(ctx, st)
}

func (s *service) saveStage(ctx context.Context, st Stage) (Stage, error) {
	if err := s.validate.Struct(st.Fields); err != nil {
		return Stage{}, err
	}
	if err := s.repo.UpdateStage(ctx, st); err != nil {
		return Stage{}, mapErr(err)
	}
	return st, nil
}

func (s *service) Delete(ctx context.Context, user, candidateID, id uuid.UUID) error {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return err
	}
	if err := s.repo.DeleteStage(ctx, candidateID, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *service) CreateSubStage(ctx context.Context, user, candidateID, stageID uuid.UUID, f Fields) (SubStage, error) {
	if _, err := s.Get(ctx, user, candidateID, stageID); err != nil {
		return SubStage{}, err
	}
	sub := SubStage{ID: uuid.New(), StageID: stageID, Fields: normalize(f)}
	if err := s.validate.Struct(sub.Fields); err != nil {
		return SubStage{}, err
	}
	if err := s.repo.CreateSubStage(ctx, sub); err != nil {
		return SubStage{}, mapErr(err)
	}
	return sub, nil
}

func (s *service) GetSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID) (SubStage, error) {
	if _, err := s.Get(ctx, user, candidateID, stageID); err != nil {
		return SubStage{}, err
	}
	sub, err := s.repo.GetSubStage(ctx, stageID, id)
	if err != nil {
		return SubStage{}, mapErr(err)
	}
	return sub, nil
}

func (s *service) ListSubStages(ctx context.Context, user, candidateID, stageID uuid.UUID) ([]SubStage, error) {
	if _, err := s.Get(ctx, user, candidateID, stageID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListSubStages(ctx, stageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) ReplaceSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID, f Fields) (SubStage, error) {
	sub, err := s.GetSubStage(ctx, user, candidateID, stageID, id)
	if err != nil {
		return SubStage{}, err
	}
	sub.Fields = normalize(f)
	return s.saveSubStage(ctx, sub)
}

func (s *service) UpdateSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID, p Patch) (SubStage, error) {
	sub, err := s.GetSubStage(ctx, user, candidateID, stageID, id)
	if err != nil {
		return SubStage{}, err
	}
	p.Apply(&sub.Fields)
	sub.Fields = normalize(sub.Fields)
	return s.saveSubStage(ctx, sub)
}

func (s *service) saveSubStage(ctx context.Context, sub SubStage) (SubStage, error) {
	if err := s.validate.Struct(sub.Fields); err != nil {
		return SubStage{}, err
	}
	if err := s.repo.UpdateSubStage(ctx, sub); err != nil {
		return SubStage{}, mapErr(err)
	}
	return sub, nil
}

func (s *service) DeleteSubStage(ctx context.Context, user, candidateID, stageID, id uuid.UUID) error {
	if _, err := s.Get(ctx, user, candidateID, stageID); err != nil {
		return err
	}
	if err := s.repo.DeleteSubStage(ctx, stageID, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func normalize(f Fields) Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Status = strings.TrimSpace(f.Status)
	if f.Status == "" {
		f.Status = DefaultStatus
	}
	return f
}

// nested prefixes a sub-stage validation error with its position.
func nested(i int, err error) error {
	ae := apperr.As(err)
	if ae.Kind != apperr.KindValidation {
		return err
	}
	out := *ae
	out.Field = fmt.Sprintf("substage[%d].%s", i, ae.Field)
	return &out
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrStageNotFound):
		return apperr.NotFound("Этап воронки не найден.")
	case errors.Is(err, ErrSubStageNotFound):
		return apperr.NotFound("Подэтап воронки не найден.")
	default:
		return apperr.Internal(err)
	}
}
