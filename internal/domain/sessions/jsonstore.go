package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

// staleSessionAge возраст, после которого незавершенная сессия считается
// брошенной и удаляется при загрузке файла.
const staleSessionAge = 24 * time.Hour

// JSONStore — реализация Store, сохраняющая сессии в JSON-файлы.
// Активные и завершенные сессии лежат в отдельных файлах внутри dataDir.
// Подходит для serverless-развертывания без базы данных.
type JSONStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewJSONStore создает JSONStore и структуру каталогов для него
func NewJSONStore(dataDir string) *JSONStore {
	if err := os.MkdirAll(filepath.Join(dataDir, "active"), 0755); err != nil {
		log.Printf("failed to create active sessions dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "completed"), 0755); err != nil {
		log.Printf("failed to create completed sessions dir: %v", err)
	}
	return &JSONStore{dataDir: dataDir}
}

func (j *JSONStore) activePath() string {
	return filepath.Join(j.dataDir, "active", "active-sessions.json")
}

func (j *JSONStore) completedPath() string {
	return filepath.Join(j.dataDir, "completed", "completed-sessions.json")
}

func (j *JSONStore) GetActiveByID(_ context.Context, id uuid.UUID) (*model.TestSession, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadActive()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return sessions[i].Clone(), nil
		}
	}
	return nil, nil
}

func (j *JSONStore) GetActiveByUserID(_ context.Context, userID int64) (*model.TestSession, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadActive()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].UserID == userID && !sessions[i].IsCompleted() {
			return sessions[i].Clone(), nil
		}
	}
	return nil, nil
}

func (j *JSONStore) SaveActive(_ context.Context, session *model.TestSession) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadActive()
	if err != nil {
		return err
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = *session.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, *session.Clone())
	}

	return j.save(j.activePath(), sessions)
}

func (j *JSONStore) RemoveActive(_ context.Context, id uuid.UUID) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadActive()
	if err != nil {
		return err
	}

	filtered := sessions[:0]
	for i := range sessions {
		if sessions[i].ID != id {
			filtered = append(filtered, sessions[i])
		}
	}

	return j.save(j.activePath(), filtered)
}

func (j *JSONStore) GetActiveSessions(_ context.Context) ([]model.TestSession, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.loadActive()
}

func (j *JSONStore) SaveCompleted(_ context.Context, session *model.TestSession) error {
	if !session.IsCompleted() {
		return fmt.Errorf("session %s is not completed", session.ID)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadCompleted()
	if err != nil {
		return err
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = *session.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, *session.Clone())
	}

	return j.save(j.completedPath(), sessions)
}

func (j *JSONStore) GetCompletedByID(_ context.Context, id uuid.UUID) (*model.TestSession, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadCompleted()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return sessions[i].Clone(), nil
		}
	}
	return nil, nil
}

func (j *JSONStore) GetCompleted(_ context.Context, from, to *time.Time) ([]model.TestSession, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadCompleted()
	if err != nil {
		return nil, err
	}

	var result []model.TestSession
	for i := range sessions {
		if inRange(&sessions[i], from, to) {
			result = append(result, sessions[i])
		}
	}
	sortCompleted(result)
	return result, nil
}

func (j *JSONStore) CompletedCount(_ context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	sessions, err := j.loadCompleted()
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// loadActive читает файл активных сессий и попутно вычищает брошенные
// сессии старше staleSessionAge.
func (j *JSONStore) loadActive() ([]model.TestSession, error) {
	sessions, err := j.load(j.activePath())
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-staleSessionAge)
	fresh := sessions[:0]
	for i := range sessions {
		if !sessions[i].StartedAt.Before(cutoff) {
			fresh = append(fresh, sessions[i])
		}
	}

	if len(fresh) != len(sessions) {
		log.Printf("cleaned up %d stale active sessions", len(sessions)-len(fresh))
		if err := j.save(j.activePath(), fresh); err != nil {
			return nil, err
		}
	}

	return fresh, nil
}

func (j *JSONStore) loadCompleted() ([]model.TestSession, error) {
	return j.load(j.completedPath())
}

func (j *JSONStore) load(filename string) ([]model.TestSession, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var sessions []model.TestSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions from %s: %w", filename, err)
	}
	return sessions, nil
}

func (j *JSONStore) save(filename string, sessions []model.TestSession) error {
	if sessions == nil {
		sessions = []model.TestSession{}
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
