package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
)

// Sweeper периодически вычищает брошенные активные сессии: пользователь
// начал тест и пропал, а его сессия навсегда блокирует повторный старт.
type Sweeper struct {
	store    sessions.Store
	maxAge   time.Duration
	interval time.Duration
}

// NewSweeper создает новый Sweeper. Сессии старше maxAge удаляются из
// активных при каждом проходе.
func NewSweeper(store sessions.Store, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Run запускает цикл чистки до отмены контекста
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep один проход чистки
func (s *Sweeper) sweep(ctx context.Context) {
	active, err := s.store.GetActiveSessions(ctx)
	if err != nil {
		log.Printf("sweeper: failed to get active sessions: %v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-s.maxAge)
	removed := 0
	for i := range active {
		if active[i].StartedAt.Before(cutoff) {
			if err := s.store.RemoveActive(ctx, active[i].ID); err != nil {
				log.Printf("sweeper: failed to remove session %s: %v", active[i].ID, err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		log.Printf("sweeper: removed %d stale active sessions", removed)
	}
}
