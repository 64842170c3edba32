package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// Store определяет контракт хранилища сессий тестирования.
// Активные и завершенные сессии лежат в раздельных коллекциях,
// сессия находится ровно в одной из них. Отсутствие сессии — это
// (nil, nil), а не ошибка.
type Store interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error)
	GetActiveByUserID(ctx context.Context, userID int64) (*model.TestSession, error)
	SaveActive(ctx context.Context, session *model.TestSession) error
	RemoveActive(ctx context.Context, id uuid.UUID) error
	GetActiveSessions(ctx context.Context) ([]model.TestSession, error)

	SaveCompleted(ctx context.Context, session *model.TestSession) error
	GetCompletedByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error)
	GetCompleted(ctx context.Context, from, to *time.Time) ([]model.TestSession, error)
	CompletedCount(ctx context.Context) (int, error)
}

// Mover реализуется хранилищами, умеющими атомарно переносить сессию
// из активных в завершенные. Сервис тестирования использует этот путь,
// когда он доступен, вместо пары SaveCompleted+RemoveActive.
type Mover interface {
	MoveToCompleted(ctx context.Context, session *model.TestSession) error
}

// NewStore возвращает реализацию Store в зависимости от типа хранения.
// Для "postgres" требуется инициализированный пул соединений.
func NewStore(storageType, dataDir string, db *pgxpool.Pool) Store {
	switch storageType {
	case "postgres":
		return NewPostgresStore(db)
	case "json":
		return NewJSONStore(dataDir)
	default:
		return NewMemoryStore()
	}
}

// MemoryStore — in-memory реализация. Используется в тестах и для
// эфемерных запусков без постоянного хранилища.
type MemoryStore struct {
	mu        sync.RWMutex
	active    map[uuid.UUID]*model.TestSession
	completed map[uuid.UUID]*model.TestSession
}

// NewMemoryStore создает новый MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		active:    make(map[uuid.UUID]*model.TestSession),
		completed: make(map[uuid.UUID]*model.TestSession),
	}
}

func (m *MemoryStore) GetActiveByID(_ context.Context, id uuid.UUID) (*model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.active[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *MemoryStore) GetActiveByUserID(_ context.Context, userID int64) (*model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.active {
		if s.UserID == userID {
			return s.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) SaveActive(_ context.Context, session *model.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) RemoveActive(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, id)
	return nil
}

func (m *MemoryStore) GetActiveSessions(_ context.Context) ([]model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]model.TestSession, 0, len(m.active))
	for _, s := range m.active {
		result = append(result, *s.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.Before(result[j].StartedAt) })
	return result, nil
}

func (m *MemoryStore) SaveCompleted(_ context.Context, session *model.TestSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) GetCompletedByID(_ context.Context, id uuid.UUID) (*model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.completed[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *MemoryStore) GetCompleted(_ context.Context, from, to *time.Time) ([]model.TestSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []model.TestSession
	for _, s := range m.completed {
		if inRange(s, from, to) {
			result = append(result, *s.Clone())
		}
	}
	sortCompleted(result)
	return result, nil
}

func (m *MemoryStore) CompletedCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.completed), nil
}

// inRange проверяет попадание завершенной сессии в диапазон дат.
// Нулевые границы означают отсутствие ограничения.
func inRange(s *model.TestSession, from, to *time.Time) bool {
	if s.CompletedAt == nil {
		return false
	}
	if from != nil && s.CompletedAt.Before(*from) {
		return false
	}
	if to != nil && s.CompletedAt.After(*to) {
		return false
	}
	return true
}

func sortCompleted(sessions []model.TestSession) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.After(*sessions[j].CompletedAt)
	})
}
