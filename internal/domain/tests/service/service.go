package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	"github.com/svarg-dev/profilingbot/internal/domain/tests/random"
	"github.com/svarg-dev/profilingbot/internal/domain/tests/scoring"
	"github.com/svarg-dev/profilingbot/internal/infra/keylock"
)

// QuizProvider отдает неизменное содержимое теста
type QuizProvider interface {
	GetBotConfig() (*model.BotConfig, error)
	GetQuestions() ([]model.Question, error)
	GetPersonalityTypes() ([]model.PersonalityType, error)
	GetQuestion(questionID int) (*model.Question, error)
}

// TestService владеет жизненным циклом сессии тестирования: старт,
// прием ответов, продвижение по вопросам и завершение с подсчетом
// результата. Само состояние сессий живет в хранилище, сервис между
// вызовами состояния не держит.
type TestService struct {
	store  sessions.Store
	quiz   QuizProvider
	orders *random.Engine

	// userLocks сериализует проверку "есть ли активная сессия" и создание
	// новой для одного пользователя; sessionLocks — read-modify-write
	// циклы над одной сессией.
	userLocks    *keylock.KeyedMutex
	sessionLocks *keylock.KeyedMutex
}

// NewTestService создает новый экземпляр TestService
func NewTestService(store sessions.Store, quiz QuizProvider, orders *random.Engine) *TestService {
	return &TestService{
		store:        store,
		quiz:         quiz,
		orders:       orders,
		userLocks:    keylock.NewKeyedMutex(),
		sessionLocks: keylock.NewKeyedMutex(),
	}
}

// StartTest начинает тест для пользователя. Если активная сессия уже есть,
// возвращается она же без изменений — повторный старт не создает вторую
// сессию.
func (s *TestService) StartTest(ctx context.Context, userID int64, userName string) (*model.TestSession, error) {
	key := strconv.FormatInt(userID, 10)
	s.userLocks.Lock(key)
	defer s.userLocks.Unlock(key)

	existing, err := s.store.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	if existing != nil {
		log.Printf("user %d already has active session %s", userID, existing.ID)
		return existing, nil
	}

	questions, err := s.quiz.GetQuestions()
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questionOrder, answerOrder, err := s.orders.GenerateOrders(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session orders: %w", err)
	}

	session := &model.TestSession{
		ID:                   uuid.New(),
		UserID:               userID,
		UserName:             userName,
		StartedAt:            time.Now().UTC(),
		CurrentQuestionIndex: 1,
		Answers:              make(map[int]int),
		QuestionOrder:        questionOrder,
		AnswerOrder:          answerOrder,
	}

	if err := s.store.SaveActive(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("session %s created for user %d (%s)", session.ID, userID, userName)
	return session, nil
}

// GetActiveSession возвращает активную сессию пользователя, nil если ее нет
func (s *TestService) GetActiveSession(ctx context.Context, userID int64) (*model.TestSession, error) {
	return s.store.GetActiveByUserID(ctx, userID)
}

// GetCurrentQuestion возвращает текущий вопрос сессии вместе с ID его
// вариантов ответа в порядке показа этой сессии. Для несуществующей или
// завершенной сессии возвращается nil без ошибки.
func (s *TestService) GetCurrentQuestion(ctx context.Context, sessionID uuid.UUID) (*model.Question, []int, error) {
	session, err := s.store.GetActiveByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.IsCompleted() {
		return nil, nil, nil
	}

	questionID, ok := session.OriginalQuestionID(session.CurrentQuestionIndex)
	if !ok {
		return nil, nil, nil
	}

	question, err := s.quiz.GetQuestion(questionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get question %d: %w", questionID, err)
	}
	if question == nil {
		return nil, nil, nil
	}

	return question, session.OrderedAnswerIDs(questionID), nil
}

// AnswerQuestion принимает ответ на текущий вопрос сессии. Ответ
// записывается по оригинальным ID вопроса и варианта. После последнего
// ответа сессия завершается и возвращается уже с результатом. Никакая
// неудачная проверка не оставляет частичных изменений в хранилище.
func (s *TestService) AnswerQuestion(ctx context.Context, sessionID uuid.UUID, questionID, answerID int) (*model.TestSession, error) {
	key := sessionID.String()
	s.sessionLocks.Lock(key)
	defer s.sessionLocks.Unlock(key)

	session, err := s.store.GetActiveByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		if err := s.checkCompleted(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}

	currentQuestionID, ok := session.OriginalQuestionID(session.CurrentQuestionIndex)
	if !ok || currentQuestionID != questionID {
		return nil, ErrQuestionMismatch
	}

	question, err := s.quiz.GetQuestion(questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question %d: %w", questionID, err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	if question.FindAnswer(answerID) == nil {
		return nil, ErrAnswerNotFound
	}

	session.Answers[questionID] = answerID

	totalQuestions := len(session.QuestionOrder)
	if len(session.Answers) < totalQuestions {
		session.CurrentQuestionIndex++
		if err := s.store.SaveActive(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		log.Printf("user %d answered question %d (%d/%d)",
			session.UserID, questionID, len(session.Answers), totalQuestions)
		return session, nil
	}

	// Последний ответ: фиксируем его вместе с позицией "все отвечено"
	// и сразу завершаем тест.
	session.CurrentQuestionIndex = totalQuestions + 1
	if err := s.store.SaveActive(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := s.complete(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteTest завершает сессию явно. Повторный вызов для уже завершенной
// сессии — ошибка, операция не идемпотентна.
func (s *TestService) CompleteTest(ctx context.Context, sessionID uuid.UUID) (*model.TestSession, error) {
	key := sessionID.String()
	s.sessionLocks.Lock(key)
	defer s.sessionLocks.Unlock(key)

	session, err := s.store.GetActiveByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		if err := s.checkCompleted(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrSessionNotFound
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}

	if err := s.complete(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// IsTestCompleted сообщает, завершена ли сессия с данным ID
func (s *TestService) IsTestCompleted(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	completed, err := s.store.GetCompletedByID(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to get completed session: %w", err)
	}
	return completed != nil, nil
}

// CalculateResult пересчитывает результат завершенной сессии. Для
// незавершенной сессии возвращается scoring.ErrSessionNotCompleted —
// это ошибка вызывающего кода, а не "не найдено".
func (s *TestService) CalculateResult(ctx context.Context, session *model.TestSession) (*model.TestResult, error) {
	questions, err := s.quiz.GetQuestions()
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	types, err := s.quiz.GetPersonalityTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to load personality types: %w", err)
	}

	result, err := scoring.CalculateResult(session, questions, types)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveCompleted(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save completed session: %w", err)
	}
	return result, nil
}

// GetAllQuestions возвращает полный список вопросов теста
func (s *TestService) GetAllQuestions() ([]model.Question, error) {
	return s.quiz.GetQuestions()
}

// checkCompleted переводит "нет в активных" в ErrSessionCompleted, если
// сессия уже лежит в завершенных: для вызывающего это другая ситуация,
// чем полное отсутствие сессии.
func (s *TestService) checkCompleted(ctx context.Context, sessionID uuid.UUID) error {
	completed, err := s.store.GetCompletedByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get completed session: %w", err)
	}
	if completed != nil {
		return ErrSessionCompleted
	}
	return nil
}

// complete подсчитывает результат и переносит сессию из активных в
// завершенные. Вызывается под блокировкой сессии.
func (s *TestService) complete(ctx context.Context, session *model.TestSession) error {
	now := time.Now().UTC()
	session.CompletedAt = &now

	questions, err := s.quiz.GetQuestions()
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	types, err := s.quiz.GetPersonalityTypes()
	if err != nil {
		return fmt.Errorf("failed to load personality types: %w", err)
	}

	if _, err := scoring.CalculateResult(session, questions, types); err != nil {
		return fmt.Errorf("failed to calculate result: %w", err)
	}

	// Хранилища, умеющие атомарный перенос, делают его одной операцией.
	if mover, ok := s.store.(sessions.Mover); ok {
		if err := mover.MoveToCompleted(ctx, session); err != nil {
			return fmt.Errorf("failed to move session to completed: %w", err)
		}
	} else {
		if err := s.store.SaveCompleted(ctx, session); err != nil {
			return fmt.Errorf("failed to save completed session: %w", err)
		}
		if err := s.store.RemoveActive(ctx, session.ID); err != nil {
			return fmt.Errorf("failed to remove active session: %w", err)
		}
	}

	log.Printf("test completed for user %d, session %s, type: %s",
		session.UserID, session.ID, session.ResultTypeName)
	return nil
}
