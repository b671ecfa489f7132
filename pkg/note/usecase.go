package note

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

var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Repository returns notes and comments newest first.
type Repository interface {
	CreateNote(ctx context.Context, n Note) error
	GetNote(ctx context.Context, candidateID, id uuid.UUID) (Note, error)
	ListNotes(ctx context.Context, candidateID uuid.UUID) ([]Note, error)
	UpdateNote(ctx context.Context, n Note) error
	DeleteNote(ctx context.Context, candidateID, id uuid.UUID) error

	CreateComment(ctx context.Context, c Comment) error
	GetComment(ctx context.Context, noteID, id uuid.UUID) (Comment, error)
	ListComments(ctx context.Context, noteID uuid.UUID) ([]Comment, error)
	UpdateComment(ctx context.Context, c Comment) error
	DeleteComment(ctx context.Context, noteID, id uuid.UUID) error
}

type Candidates interface {
	Resolve(ctx context.Context, user, id uuid.UUID) (candidate.Candidate, error)
}

// UseCase: заметки и комментарии к ним. Читать может любой рекрутер с
// доступом к кандидату, менять и удалять только автор.
type UseCase interface {
	CreateNote(ctx context.Context, user, candidateID uuid.UUID, f Fields) (Note, error)
	GetNote(ctx context.Context, user, candidateID, id uuid.UUID) (Note, error)
	ListNotes(ctx context.Context, user, candidateID uuid.UUID) ([]Note, error)
	UpdateNote(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Note, error)
	DeleteNote(ctx context.Context, user, candidateID, id uuid.UUID) error

	CreateComment(ctx context.Context, user, candidateID, noteID uuid.UUID, f Fields) (Comment, error)
	GetComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID) (Comment, error)
	ListComments(ctx context.Context, user, candidateID, noteID uuid.UUID) ([]Comment, error)
	UpdateComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID, p Patch) (Comment, error)
	DeleteComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID) error
}

type service struct {
	repo       Repository
	candidates Candidates
	validate   *validate.Validator
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, candidates Candidates, v *validate.Validator, log *zap.Logger) UseCase {
	return &service{repo: repo, candidates: candidates, validate: v, log: logger.OrNop(log), now: time.Now}
}

var errNotAuthor = apperr.Forbidden("Изменять и удалять запись может только её автор.")

func (s *service) CreateNote(ctx context.Context, user, candidateID uuid.UUID, f Fields) (Note, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Note{}, err
	}
	n := Note{ID: uuid.New(), CandidateID: candidateID, AuthorID: user, Fields: normalize(f), PubDate: s.now().UTC()}
	if err := s.validate.Struct(n.Fields); err != nil {
		return Note{}, err
	}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return Note{}, mapErr(err)
	}
	// re-read for the author name
	created, err := s.repo.GetNote(ctx, candidateID, n.ID)
	if err != nil {
		return Note{}, mapErr(err)
	}
	return created, nil
}

func (s *service) GetNote(ctx context.Context, user, candidateID, id uuid.UUID) (Note, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return Note{}, err
	}
	n, err := s.repo.GetNote(ctx, candidateID, id)
	if err != nil {
		return Note{}, mapErr(err)
	}
	return n, nil
}

func (s *service) ListNotes(ctx context.Context, user, candidateID uuid.UUID) ([]Note, error) {
	if _, err := s.candidates.Resolve(ctx, user, candidateID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListNotes(ctx, candidateID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) UpdateNote(ctx context.Context, user, candidateID, id uuid.UUID, p Patch) (Note, error) {
	n, err := s.GetNote(ctx, user, candidateID, id)
	if err != nil {
		return Note{}, err
	}
	if n.AuthorID != user {
		return Note{}, errNotAuthor
	}
	p.Apply(&n.Fields)
	n.Fields = normalize(n.Fields)
	if err := s.validate.Struct(n.Fields); err != nil {
		return Note{}, err
	}
	if err := s.repo.UpdateNote(ctx, n); err != nil {
		return Note{}, mapErr(err)
	}
	return n, nil
}

func (s *service) DeleteNote(ctx context.Context, user, candidateID, id uuid.UUID) error {
	n, err := s.GetNote(ctx, user, candidateID, id)
	if err != nil {
		return err
	}
	if n.AuthorID != user {
		return errNotAuthor
	}
	if err := s.repo.DeleteNote(ctx, candidateID, id); err != nil {
		return mapErr(err)
	}
	s.log.Info("note deleted", zap.String("note_id", id.String()))
	return nil
}

func (s *service) CreateComment(ctx context.Context, user, candidateID, noteID uuid.UUID, f Fields) (Comment, error) {
	if _, err := s.GetNote(ctx, user, candidateID, noteID); err != nil {
		return Comment{}, err
	}
	c := Comment{ID: uuid.New(), NoteID: noteID, AuthorID: user, Fields: normalize(f), PubDate: s.now().UTC()}
	if err := s.validate.Struct(c.Fields); err != nil {
		return Comment{}, err
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return Comment{}, mapErr(err)
	}
	created, err := s.repo.GetComment(ctx, noteID, c.ID)
	if err != nil {
		return Comment{}, mapErr(err)
	}
	return created, nil
}

func (s *service) GetComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID) (Comment, error) {
	if _, err := s.GetNote(ctx, user, candidateID, noteID); err != nil {
		return Comment{}, err
	}
	c, err := s.repo.GetComment(ctx, noteID, id)
	if err != nil {
		return Comment{}, mapErr(err)
	}
	return c, nil
}

func (s *service) ListComments(ctx context.Context, user, candidateID, noteID uuid.UUID) ([]Comment, error) {
	if _, err := s.GetNote(ctx, user, candidateID, noteID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListComments(ctx, noteID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *service) UpdateComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID, p Patch) (Comment, error) {
	c, err := s.GetComment(ctx, user, candidateID, noteID, id)
	if err != nil {
		return Comment{}, err
	}
	if c.AuthorID != user {
		return Comment{}, errNotAuthor
	}
	p.Apply(&c.Fields)
	c.Fields = normalize(c.Fields)
	if err := s.validate.Struct(c.Fields); err != nil {
		return Comment{}, err
	}
	if err := s.repo.UpdateComment(ctx, c); err != nil {
		return Comment{}, mapErr(err)
	}
	return c, nil
}

func (s *service) DeleteComment(ctx context.Context, user, candidateID, noteID, id uuid.UUID) error {
	c, err := s.GetComment(ctx, user, candidateID, noteID, id)
	if err != nil {
		return err
	}
	if c.AuthorID != user {
		return errNotAuthor
	}
	if err := s.repo.DeleteComment(ctx, noteID, id); err != nil {
		return mapErr(err)
	}
	return nil
}

func normalize(f Fields) Fields {
	f.Text = strings.TrimSpace(f.Text)
	return f
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		return apperr.NotFound("Заметка не найдена.")
	case errors.Is(err, ErrCommentNotFound):
		return apperr.NotFound("Комментарий не найден.")
	default:
		return apperr.Internal(err)
	}
}
