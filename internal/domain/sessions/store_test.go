package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/svarg-dev/profilingbot/internal/domain/model"
)

func newSession(userID int64) *model.TestSession {
	return &model.TestSession{
		ID:                   uuid.New(),
		UserID:               userID,
		UserName:             "tester",
		StartedAt:            time.Now().UTC(),
		CurrentQuestionIndex: 1,
		Answers:              map[int]int{},
		QuestionOrder:        []int{1, 2},
		AnswerOrder:          map[int][]int{1: {1, 2}, 2: {2, 1}},
	}
}

func completeSession(s *model.TestSession, at time.Time) *model.TestSession {
	s.CompletedAt = &at
	s.ResultTypeID = 1
	s.ResultTypeName = "Социальный"
	return s
}

// storesUnderTest возвращает обе реализации хранилища для общих сценариев.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"json":   NewJSONStore(t.TempDir()),
	}
}

// TestStore_ActiveLifecycle проверяет сохранение, чтение и удаление активной
// сессии в обеих реализациях.
func TestStore_ActiveLifecycle(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := newSession(100)

			if err := store.SaveActive(ctx, session); err != nil {
				t.Fatalf("SaveActive вернул ошибку: %v", err)
			}

			byID, err := store.GetActiveByID(ctx, session.ID)
			if err != nil {
				t.Fatalf("GetActiveByID вернул ошибку: %v", err)
			}
			if byID == nil || byID.ID != session.ID {
				t.Fatal("Сессия не найдена по ID")
			}

			byUser, err := store.GetActiveByUserID(ctx, 100)
			if err != nil {
				t.Fatalf("GetActiveByUserID вернул ошибку: %v", err)
			}
			if byUser == nil || byUser.ID != session.ID {
				t.Fatal("Сессия не найдена по ID пользователя")
			}

			// Обновление существующей сессии не создает дубликата.
			session.CurrentQuestionIndex = 2
			session.Answers[1] = 2
			if err := store.SaveActive(ctx, session); err != nil {
				t.Fatalf("Повторный SaveActive вернул ошибку: %v", err)
			}
			all, err := store.GetActiveSessions(ctx)
			if err != nil {
				t.Fatalf("GetActiveSessions вернул ошибку: %v", err)
			}
			if len(all) != 1 {
				t.Fatalf("Ожидалась 1 активная сессия, получено %d", len(all))
			}
			if all[0].CurrentQuestionIndex != 2 {
				t.Errorf("Обновление не сохранилось: позиция %d", all[0].CurrentQuestionIndex)
			}

			if err := store.RemoveActive(ctx, session.ID); err != nil {
				t.Fatalf("RemoveActive вернул ошибку: %v", err)
			}
			gone, err := store.GetActiveByID(ctx, session.ID)
			if err != nil {
				t.Fatalf("GetActiveByID вернул ошибку: %v", err)
			}
			if gone != nil {
				t.Error("Сессия осталась после удаления")
			}
		})
	}
}

// TestStore_NotFoundIsNil проверяет контракт "не найдено — это (nil, nil)".
func TestStore_NotFoundIsNil(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s, err := store.GetActiveByID(ctx, uuid.New())
			if err != nil || s != nil {
				t.Errorf("Ожидалось (nil, nil), получено (%v, %v)", s, err)
			}
			s, err = store.GetCompletedByID(ctx, uuid.New())
			if err != nil || s != nil {
				t.Errorf("Ожидалось (nil, nil), получено (%v, %v)", s, err)
			}
		})
	}
}

// TestStore_CompletedRange проверяет фильтрацию завершенных сессий по
// диапазону дат и сортировку по убыванию времени завершения.
func TestStore_CompletedRange(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

			old := completeSession(newSession(1), base.AddDate(0, 0, -10))
			mid := completeSession(newSession(2), base)
			fresh := completeSession(newSession(3), base.AddDate(0, 0, 5))
			for _, s := range []*model.TestSession{old, mid, fresh} {
				if err := store.SaveCompleted(ctx, s); err != nil {
					t.Fatalf("SaveCompleted вернул ошибку: %v", err)
				}
			}

			from := base.AddDate(0, 0, -1)
			to := base.AddDate(0, 0, 6)
			got, err := store.GetCompleted(ctx, &from, &to)
			if err != nil {
				t.Fatalf("GetCompleted вернул ошибку: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Ожидалось 2 сессии в диапазоне, получено %d", len(got))
			}
			if !got[0].CompletedAt.After(*got[1].CompletedAt) {
				t.Error("Сессии не отсортированы по убыванию времени завершения")
			}

			all, err := store.GetCompleted(ctx, nil, nil)
			if err != nil {
				t.Fatalf("GetCompleted вернул ошибку: %v", err)
			}
			if len(all) != 3 {
				t.Errorf("Без диапазона ожидалось 3 сессии, получено %d", len(all))
			}

			count, err := store.CompletedCount(ctx)
			if err != nil {
				t.Fatalf("CompletedCount вернул ошибку: %v", err)
			}
			if count != 3 {
				t.Errorf("Ожидалось 3 завершенных, получено %d", count)
			}
		})
	}
}

// TestMemoryStore_CloneIsolation проверяет, что изменение полученной сессии
// не затрагивает данные в хранилище.
func TestMemoryStore_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	session := newSession(100)

	if err := store.SaveActive(ctx, session); err != nil {
		t.Fatalf("SaveActive вернул ошибку: %v", err)
	}

	got, err := store.GetActiveByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetActiveByID вернул ошибку: %v", err)
	}
	got.Answers[1] = 99
	got.QuestionOrder[0] = 99

	again, err := store.GetActiveByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetActiveByID вернул ошибку: %v", err)
	}
	if again.Answers[1] == 99 || again.QuestionOrder[0] == 99 {
		t.Error("Изменение копии затронуло данные в хранилище")
	}
}

// TestJSONStore_Persistence проверяет, что сессии переживают пересоздание
// хранилища над тем же каталогом.
func TestJSONStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewJSONStore(dir)
	session := newSession(100)
	if err := first.SaveActive(ctx, session); err != nil {
		t.Fatalf("SaveActive вернул ошибку: %v", err)
	}

	second := NewJSONStore(dir)
	got, err := second.GetActiveByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetActiveByID вернул ошибку: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не пережила пересоздание хранилища")
	}
	if got.UserID != 100 || len(got.QuestionOrder) != 2 {
		t.Errorf("Сессия восстановлена не полностью: %+v", got)
	}
}

// TestJSONStore_StaleEviction проверяет, что брошенные активные сессии
// старше суток вычищаются при загрузке.
func TestJSONStore_StaleEviction(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(t.TempDir())

	stale := newSession(1)
	stale.StartedAt = time.Now().UTC().Add(-25 * time.Hour)
	fresh := newSession(2)

	if err := store.SaveActive(ctx, stale); err != nil {
		t.Fatalf("SaveActive вернул ошибку: %v", err)
	}
	if err := store.SaveActive(ctx, fresh); err != nil {
		t.Fatalf("SaveActive вернул ошибку: %v", err)
	}

	all, err := store.GetActiveSessions(ctx)
	if err != nil {
		t.Fatalf("GetActiveSessions вернул ошибку: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Ожидалась 1 активная сессия после чистки, получено %d", len(all))
	}
	if all[0].ID != fresh.ID {
		t.Error("Вычищена не та сессия")
	}
}

// TestJSONStore_SaveCompletedRejectsActive проверяет, что незавершенную
// сессию нельзя записать в завершенные.
func TestJSONStore_SaveCompletedRejectsActive(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(t.TempDir())

	if err := store.SaveCompleted(ctx, newSession(1)); err == nil {
		t.Error("Ожидалась ошибка для незавершенной сессии")
	}
}
