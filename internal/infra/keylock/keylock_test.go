package keylock

import (
	"sync"
	"testing"
)

// TestKeyedMutex_SerializesSameKey проверяет, что операции под одним ключом
// не пересекаются во времени.
func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			km.Lock("session-1")
			defer km.Unlock("session-1")
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Errorf("Ожидалось %d инкрементов, получено %d", goroutines, counter)
	}
}

// TestKeyedMutex_DifferentKeysIndependent проверяет, что блокировка одного
// ключа не мешает другому.
func TestKeyedMutex_DifferentKeysIndependent(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a")
	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()
	<-done
	km.Unlock("a")
}

// TestKeyedMutex_TableCleanup проверяет, что освобожденные ключи удаляются
// из таблицы.
func TestKeyedMutex_TableCleanup(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("a")
	km.Unlock("a")

	km.mu.Lock()
	size := len(km.locks)
	km.mu.Unlock()

	if size != 0 {
		t.Errorf("Ожидалась пустая таблица, в ней %d записей", size)
	}
}
