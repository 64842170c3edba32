package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// PostgresStore — реализация Store поверх PostgreSQL.
// Ограничение UNIQUE(user_id) на таблице active_sessions гарантирует
// не более одной активной сессии на пользователя на уровне базы.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создает новый экземпляр PostgresStore
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema создает таблицы сессий, если их еще нет
func (r *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
                CREATE TABLE IF NOT EXISTS active_sessions (
                        id UUID PRIMARY KEY,
                        user_id BIGINT NOT NULL UNIQUE,
                        user_name TEXT NOT NULL DEFAULT '',
                        started_at TIMESTAMPTZ NOT NULL,
                        current_question_index INT NOT NULL,
                        answers JSONB NOT NULL,
                        question_order JSONB NOT NULL,
                        answer_order JSONB NOT NULL
                );
                CREATE TABLE IF NOT EXISTS completed_sessions (
                        id UUID PRIMARY KEY,
                        user_id BIGINT NOT NULL,
                        user_name TEXT NOT NULL DEFAULT '',
                        started_at TIMESTAMPTZ NOT NULL,
                        completed_at TIMESTAMPTZ NOT NULL,
                        current_question_index INT NOT NULL,
                        answers JSONB NOT NULL,
                        question_order JSONB NOT NULL,
                        answer_order JSONB NOT NULL,
                        result_type_id INT NOT NULL,
                        result_type_name TEXT NOT NULL DEFAULT ''
                );
                CREATE INDEX IF NOT EXISTS completed_sessions_completed_at_idx
                        ON completed_sessions (completed_at);
        `)
	if err != nil {
		return fmt.Errorf("failed to init sessions schema: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error) {
	row := r.db.QueryRow(ctx, `
                SELECT id, user_id, user_name, started_at, current_question_index,
                       answers, question_order, answer_order
                FROM active_sessions
                WHERE id = $1
        `, id)
	return scanActive(row)
}

func (r *PostgresStore) GetActiveByUserID(ctx context.Context, userID int64) (*model.TestSession, error) {
	row := r.db.QueryRow(ctx, `
                SELECT id, user_id, user_name, started_at, current_question_index,
                       answers, question_order, answer_order
                FROM active_sessions
                WHERE user_id = $1
        `, userID)
	return scanActive(row)
}

func (r *PostgresStore) SaveActive(ctx context.Context, session *model.TestSession) error {
	answers, questionOrder, answerOrder, err := marshalOrders(session)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
                INSERT INTO active_sessions (id, user_id, user_name, started_at,
                        current_question_index, answers, question_order, answer_order)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                ON CONFLICT (id) DO UPDATE SET
                        current_question_index = EXCLUDED.current_question_index,
                        answers = EXCLUDED.answers
        `, session.ID, session.UserID, session.UserName, session.StartedAt,
		session.CurrentQuestionIndex, answers, questionOrder, answerOrder)
	if err != nil {
		return fmt.Errorf("failed to save active session: %w", err)
	}
	return nil
}

func (r *PostgresStore) RemoveActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM active_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to remove active session: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetActiveSessions(ctx context.Context) ([]model.TestSession, error) {
	rows, err := r.db.Query(ctx, `
                SELECT id, user_id, user_name, started_at, current_question_index,
                       answers, question_order, answer_order
                FROM active_sessions
                ORDER BY started_at
        `)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		s, err := scanActive(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return sessions, nil
}

func (r *PostgresStore) SaveCompleted(ctx context.Context, session *model.TestSession) error {
	return r.saveCompleted(ctx, r.db, session)
}

// MoveToCompleted атомарно переносит сессию из активных в завершенные
// в одной транзакции.
func (r *PostgresStore) MoveToCompleted(ctx context.Context, session *model.TestSession) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.saveCompleted(ctx, tx, session); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM active_sessions WHERE id = $1", session.ID); err != nil {
		return fmt.Errorf("failed to remove active session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// execer покрывает и пул, и транзакцию
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *PostgresStore) saveCompleted(ctx context.Context, db execer, session *model.TestSession) error {
	if !session.IsCompleted() {
		return fmt.Errorf("session %s is not completed", session.ID)
	}

	answers, questionOrder, answerOrder, err := marshalOrders(session)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
                INSERT INTO completed_sessions (id, user_id, user_name, started_at, completed_at,
                        current_question_index, answers, question_order, answer_order,
                        result_type_id, result_type_name)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                ON CONFLICT (id) DO UPDATE SET
                        result_type_id = EXCLUDED.result_type_id,
                        result_type_name = EXCLUDED.result_type_name
        `, session.ID, session.UserID, session.UserName, session.StartedAt, session.CompletedAt,
		session.CurrentQuestionIndex, answers, questionOrder, answerOrder,
		session.ResultTypeID, session.ResultTypeName)
	if err != nil {
		return fmt.Errorf("failed to save completed session: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetCompletedByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error) {
	row := r.db.QueryRow(ctx, `
                SELECT id, user_id, user_name, started_at, completed_at, current_question_index,
                       answers, question_order, answer_order, result_type_id, result_type_name
                FROM completed_sessions
                WHERE id = $1
        `, id)
	return scanCompleted(row)
}

func (r *PostgresStore) GetCompleted(ctx context.Context, from, to *time.Time) ([]model.TestSession, error) {
	rows, err := r.db.Query(ctx, `
                SELECT id, user_id, user_name, started_at, completed_at, current_question_index,
                       answers, question_order, answer_order, result_type_id, result_type_name
                FROM completed_sessions
                WHERE ($1::timestamptz IS NULL OR completed_at >= $1)
                  AND ($2::timestamptz IS NULL OR completed_at <= $2)
                ORDER BY completed_at DESC
        `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		s, err := scanCompleted(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return sessions, nil
}

func (r *PostgresStore) CompletedCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM completed_sessions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get completed sessions count: %w", err)
	}
	return count, nil
}

func marshalOrders(session *model.TestSession) (answers, questionOrder, answerOrder []byte, err error) {
	answers, err = json.Marshal(session.Answers)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	questionOrder, err = json.Marshal(session.QuestionOrder)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal question order: %w", err)
	}
	answerOrder, err = json.Marshal(session.AnswerOrder)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal answer order: %w", err)
	}
	return answers, questionOrder, answerOrder, nil
}

func scanActive(row pgx.Row) (*model.TestSession, error) {
	var s model.TestSession
	var answers, questionOrder, answerOrder []byte
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.StartedAt, &s.CurrentQuestionIndex,
		&answers, &questionOrder, &answerOrder)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan active session: %w", err)
	}
	if err := unmarshalOrders(&s, answers, questionOrder, answerOrder); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanCompleted(row pgx.Row) (*model.TestSession, error) {
	var s model.TestSession
	var answers, questionOrder, answerOrder []byte
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.StartedAt, &s.CompletedAt, &s.CurrentQuestionIndex,
		&answers, &questionOrder, &answerOrder, &s.ResultTypeID, &s.ResultTypeName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan completed session: %w", err)
	}
	if err := unmarshalOrders(&s, answers, questionOrder, answerOrder); err != nil {
		return nil, err
	}
	return &s, nil
}

func unmarshalOrders(s *model.TestSession, answers, questionOrder, answerOrder []byte) error {
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(questionOrder, &s.QuestionOrder); err != nil {
		return fmt.Errorf("failed to unmarshal question order: %w", err)
	}
	if err := json.Unmarshal(answerOrder, &s.AnswerOrder); err != nil {
		return fmt.Errorf("failed to unmarshal answer order: %w", err)
	}
	return nil
}
