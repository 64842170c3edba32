package pending

import (
	"sync"
	"time"
)

// Action отложенное действие администратора, ожидающее следующего
// сообщения от него (например, ввода диапазона дат для отчета).
type Action struct {
	Kind      string
	Payload   string
	CreatedAt time.Time
}

// Store хранилище отложенных действий с ключом по Telegram ID пользователя.
// Записи живут не дольше ttl и вычищаются лениво при обращении.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[int64]Action
	now   func() time.Time
}

// NewStore создает новое хранилище с заданным временем жизни записей
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		items: make(map[int64]Action),
		now:   time.Now,
	}
}

// Get возвращает действие пользователя, если оно есть и не устарело
func (s *Store) Get(userID int64) (Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	a, ok := s.items[userID]
	return a, ok
}

// Set запоминает действие пользователя, затирая предыдущее
func (s *Store) Set(userID int64, kind, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	s.items[userID] = Action{Kind: kind, Payload: payload, CreatedAt: s.now()}
}

// Delete удаляет действие пользователя
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, userID)
}

func (s *Store) evictLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, a := range s.items {
		if a.CreatedAt.Before(cutoff) {
			delete(s.items, id)
		}
	}
}
