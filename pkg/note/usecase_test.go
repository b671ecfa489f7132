package note

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
	"github.com/artem13815/hr-crm/pkg/validate"
)

type memRepo struct {
	notes    map[uuid.UUID]Note
	comments map[uuid.UUID]Comment
}

func (r *memRepo) CreateNote(_ context.Context, n Note) error {
	r.notes[n.ID] = n
	return nil
}

func (r *memRepo) GetNote(_ context.Context, candidateID, id uuid.UUID) (Note, error) {
	n, ok := r.notes[id]
	if !ok || n.CandidateID != candidateID {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}

func (r *memRepo) ListNotes(_ context.Context, candidateID uuid.UUID) ([]Note, error) {
	var out []Note
	for _, n := range r.notes {
		if n.CandidateID == candidateID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateNote(_ context.Context, n Note) error {
	r.notes[n.ID] = n
	return nil
}

func (r *memRepo) DeleteNote(_ context.Context, _, id uuid.UUID) error {
	delete(r.notes, id)
	return nil
}

func (r *memRepo) CreateComment(_ context.Context, c Comment) error {
	r.comments[c.ID] = c
	return nil
}

func (r *memRepo) GetComment(_ context.Context, noteID, id uuid.UUID) (Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.NoteID != noteID {
		return Comment{}, ErrCommentNotFound
	}
	return c, nil
}

func (r *memRepo) ListComments(_ context.Context, noteID uuid.UUID) ([]Comment, error) {
	var out []Comment
	for _, c := range r.comments {
		if c.NoteID == noteID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateComment(_ context.Context, c Comment) error {
	r.comments[c.ID] = c
	return nil
}

func (r *memRepo) DeleteComment(_ context.Context, _, id uuid.UUID) error {
	delete(r.comments, id)
	return nil
}

// sharedCandidate is visible to every recruiter in recruiters.
type sharedCandidate struct {
	id         uuid.UUID
	recruiters map[uuid.UUID]bool
}

func (c sharedCandidate) Resolve(_ context.Context, user, id uuid.UUID) (candidate.Candidate, error) {
	if id != c.id || !c.recruiters[user] {
		return candidate.Candidate{}, apperr.NotFound("Кандидат не найден.")
	}
	return candidate.Candidate{ID: id}, nil
}

var written = time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC)

func setup() (*service, *memRepo, uuid.UUID, uuid.UUID, uuid.UUID) {
	author, colleague := uuid.New(), uuid.New()
	cand := sharedCandidate{id: uuid.New(), recruiters: map[uuid.UUID]bool{author: true, colleague: true}}
	repo := &memRepo{notes: map[uuid.UUID]Note{}, comments: map[uuid.UUID]Comment{}}
	svc := NewService(repo, cand, validate.New(choices.Default(), 14, 100), nil).(*service)
	svc.now = func() time.Time { return written }
	return svc, repo, cand.id, author, colleague
}

func TestNoteStampsAuthorAndDate(t *testing.T) {
	svc, _, candidateID, author, _ := setup()
	n, err := svc.CreateNote(context.Background(), author, candidateID, Fields{Text: "  Сильный кандидат  "})
	require.NoError(t, err)
	assert.Equal(t, author, n.AuthorID)
	assert.Equal(t, candidateID, n.CandidateID)
	assert.Equal(t, "Сильный кандидат", n.Text)
	assert.Equal(t, written, n.PubDate)

	_, err = svc.CreateNote(context.Background(), author, candidateID, Fields{Text: "   "})
	assert.Equal(t, "text", apperr.As(err).Field)
}

func TestOnlyAuthorChangesNote(t *testing.T) {
	svc, repo, candidateID, author, colleague := setup()
	ctx := context.Background()
	n, err := svc.CreateNote(ctx, author, candidateID, Fields{Text: "Первое впечатление"})
	require.NoError(t, err)

	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"text":"Исправлено"}`), &p))
	_, err = svc.UpdateNote(ctx, colleague, candidateID, n.ID, p)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.DeleteNote(ctx, colleague, candidateID, n.ID), apperr.KindForbidden))

	// a colleague can still read it
	got, err := svc.GetNote(ctx, colleague, candidateID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Первое впечатление", got.Text)

	updated, err := svc.UpdateNote(ctx, author, candidateID, n.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Исправлено", updated.Text)
	assert.Equal(t, written, updated.PubDate)

	require.NoError(t, svc.DeleteNote(ctx, author, candidateID, n.ID))
	assert.Empty(t, repo.notes)
}

func TestCommentsBelongToNote(t *testing.T) {
	svc, _, candidateID, author, colleague := setup()
	ctx := context.Background()
	n, err := svc.CreateNote(ctx, author, candidateID, Fields{Text: "Позвать на финал?"})
	require.NoError(t, err)

	c, err := svc.CreateComment(ctx, colleague, candidateID, n.ID, Fields{Text: "Да"})
	require.NoError(t, err)
	assert.Equal(t, colleague, c.AuthorID)

	list, err := svc.ListComments(ctx, author, candidateID, n.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetComment(ctx, author, candidateID, uuid.New(), c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.DeleteComment(ctx, author, candidateID, n.ID, c.ID), apperr.KindForbidden))
	require.NoError(t, svc.DeleteComment(ctx, colleague, candidateID, n.ID, c.ID))

	_, err = svc.ListNotes(ctx, uuid.New(), candidateID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
