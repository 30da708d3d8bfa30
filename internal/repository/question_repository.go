package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctecg/score-api/internal/models"
	apperrors "github.com/ctecg/score-api/pkg/errors"
)

// QuestionRepository handles survey question data access
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, text, order_position, active, created_at, updated_at`

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.Text, &q.OrderPosition, &q.Active, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) list(ctx context.Context, active bool) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE active = $1 ORDER BY order_position, id`

	rows, err := r.pool.Query(ctx, query, active)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// GetActive returns active questions in display order
func (r *QuestionRepository) GetActive(ctx context.Context) ([]*models.Question, error) {
	return r.list(ctx, true)
}

// GetInactive returns deactivated questions
func (r *QuestionRepository) GetInactive(ctx context.Context) ([]*models.Question, error) {
	return r.list(ctx, false)
}

// GetByID returns a question by id
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("question")
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// Create inserts a new question
func (r *QuestionRepository) Create(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	query := `
		INSERT INTO questions (text, order_position)
		VALUES ($1, $2)
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, req.Text, req.OrderPosition))
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// Update applies partial updates to a question
func (r *QuestionRepository) Update(ctx context.Context, id int64, req *models.UpdateQuestionRequest) (*models.Question, error) {
	query := `
		UPDATE questions SET
			text = COALESCE($2, text),
			order_position = COALESCE($3, order_position),
			active = COALESCE($4, active),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + questionColumns

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id, req.Text, req.OrderPosition, req.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("question")
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return q, nil
}

// CountAnswers returns how many submitted ratings reference a question
func (r *QuestionRepository) CountAnswers(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM rating_answers WHERE question_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count question answers: %w", err)
	}
	return count, nil
}

// Delete removes a question outright. Callers must first check CountAnswers
// and deactivate instead when the question is referenced by ratings.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("question")
	}
	return nil
}

// Deactivate hides a question from new rating forms
func (r *QuestionRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("question")
	}
	return nil
}
