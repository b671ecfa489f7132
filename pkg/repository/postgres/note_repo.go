package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/hr-crm/pkg/candidate"
	"github.com/artem13815/hr-crm/pkg/note"
)

// NoteRepository хранит заметки о кандидатах и комментарии к ним.
type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteSelect = `SELECT n.id, n.candidate_id, n.author_id, n.text, n.pub_date,
	u.first_name, u.last_name, u.email
FROM notes n JOIN users u ON u.id = n.author_id`

const commentSelect = `SELECT cm.id, cm.note_id, cm.author_id, cm.text, cm.pub_date,
	u.first_name, u.last_name, u.email
FROM comments cm JOIN users u ON u.id = cm.author_id`

func scanNote(r row) (note.Note, error) {
	var n note.Note
	var first, last, email *string
	if err := r.Scan(&n.ID, &n.CandidateID, &n.AuthorID, &n.Text, &n.PubDate, &first, &last, &email); err != nil {
		return note.Note{}, err
	}
	n.AuthorName = displayName(first, last, email)
	n.PubDate = n.PubDate.UTC()
	return n, nil
}

func scanComment(r row) (note.Comment, error) {
	var c note.Comment
	var first, last, email *string
	if err := r.Scan(&c.ID, &c.NoteID, &c.AuthorID, &c.Text, &c.PubDate, &first, &last, &email); err != nil {
		return note.Comment{}, err
	}
	c.AuthorName = displayName(first, last, email)
	c.PubDate = c.PubDate.UTC()
	return c, nil
}

func (r *NoteRepository) CreateNote(ctx context.Context, n note.Note) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO notes (id, candidate_id, author_id, text, pub_date) VALUES ($1, $2, $3, $4, $5)
`, n.ID, n.CandidateID, n.AuthorID, n.Text, n.PubDate)
	if isForeignKeyViolation(err) {
		return candidate.ErrNotFound
	}
	return err
}

func (r *NoteRepository) GetNote(ctx context.Context, candidateID, id uuid.UUID) (note.Note, error) {
	n, err := scanNote(r.pool.QueryRow(ctx, noteSelect+` WHERE n.id = $1 AND n.candidate_id = $2`, id, candidateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return note.Note{}, note.ErrNoteNotFound
	}
	return n, err
}

func (r *NoteRepository) ListNotes(ctx context.Context, candidateID uuid.UUID) ([]note.Note, error) {
	rows, err := r.pool.Query(ctx, noteSelect+` WHERE n.candidate_id = $1 ORDER BY n.pub_date DESC, n.seq DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NoteRepository) UpdateNote(ctx context.Context, n note.Note) error {
	return execAffected(ctx, r.pool, note.ErrNoteNotFound,
		`UPDATE notes SET text = $3 WHERE id = $1 AND candidate_id = $2`, n.ID, n.CandidateID, n.Text)
}

func (r *NoteRepository) DeleteNote(ctx context.Context, candidateID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, note.ErrNoteNotFound,
		`DELETE FROM notes WHERE id = $1 AND candidate_id = $2`, id, candidateID)
}

func (r *NoteRepository) CreateComment(ctx context.Context, c note.Comment) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO comments (id, note_id, author_id, text, pub_date) VALUES ($1, $2, $3, $4, $5)
`, c.ID, c.NoteID, c.AuthorID, c.Text, c.PubDate)
	if isForeignKeyViolation(err) {
		return note.ErrNoteNotFound
	}
	return err
}

func (r *NoteRepository) GetComment(ctx context.Context, noteID, id uuid.UUID) (note.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE cm.id = $1 AND cm.note_id = $2`, id, noteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return note.Comment{}, note.ErrCommentNotFound
	}
	return c, err
}

func (r *NoteRepository) ListComments(ctx context.Context, noteID uuid.UUID) ([]note.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE cm.note_id = $1 ORDER BY cm.pub_date DESC, cm.seq DESC`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []note.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *NoteRepository) UpdateComment(ctx context.Context, c note.Comment) error {
	return execAffected(ctx, r.pool, note.ErrCommentNotFound,
		`UPDATE comments SET text = $3 WHERE id = $1 AND note_id = $2`, c.ID, c.NoteID, c.Text)
}

func (r *NoteRepository) DeleteComment(ctx context.Context, noteID, id uuid.UUID) error {
	return execAffected(ctx, r.pool, note.ErrCommentNotFound,
		`DELETE FROM comments WHERE id = $1 AND note_id = $2`, id, noteID)
}
