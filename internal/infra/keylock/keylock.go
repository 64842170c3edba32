package keylock

import "sync"

// KeyedMutex выдает мьютекс на строковый ключ. Используется для
// сериализации операций над одной сессией или одним пользователем,
// когда хранилище само не гарантирует атомарность read-modify-write.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex создает новый KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock захватывает мьютекс для ключа key
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock освобождает мьютекс для ключа key. Запись удаляется из таблицы,
// когда ключ больше никто не ждет, чтобы таблица не росла бесконечно.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}
