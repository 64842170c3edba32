package pending

import (
	"testing"
	"time"
)

// TestStore_SetGetDelete проверяет базовый цикл: запись, чтение, удаление.
func TestStore_SetGetDelete(t *testing.T) {
	store := NewStore(time.Minute)

	store.Set(100, "report_range", "")

	action, ok := store.Get(100)
	if !ok {
		t.Fatal("Действие не найдено после Set")
	}
	if action.Kind != "report_range" {
		t.Errorf("Ожидался kind \"report_range\", получено %q", action.Kind)
	}

	store.Delete(100)
	if _, ok := store.Get(100); ok {
		t.Error("Действие осталось после Delete")
	}
}

// TestStore_Overwrite проверяет, что повторный Set затирает предыдущее действие.
func TestStore_Overwrite(t *testing.T) {
	store := NewStore(time.Minute)

	store.Set(100, "first", "a")
	store.Set(100, "second", "b")

	action, ok := store.Get(100)
	if !ok {
		t.Fatal("Действие не найдено")
	}
	if action.Kind != "second" || action.Payload != "b" {
		t.Errorf("Ожидалось последнее действие, получено %+v", action)
	}
}

// TestStore_TTLEviction проверяет, что устаревшие действия вычищаются.
func TestStore_TTLEviction(t *testing.T) {
	store := NewStore(15 * time.Minute)

	current := time.Now()
	store.now = func() time.Time { return current }

	store.Set(100, "report_range", "")

	// Через 10 минут действие еще живо.
	current = current.Add(10 * time.Minute)
	if _, ok := store.Get(100); !ok {
		t.Error("Действие вычищено раньше TTL")
	}

	// Через 16 минут от записи — уже нет.
	current = current.Add(6 * time.Minute)
	if _, ok := store.Get(100); ok {
		t.Error("Устаревшее действие не вычищено")
	}
}
