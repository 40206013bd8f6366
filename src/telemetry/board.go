package telemetry

import (
	"sort"
	"sync"
)

//Board displays telemetry values by key
//Set reports false when the board has no place for the key
type Board interface {
	Set(key, value string) bool
}

//BoardFunc adapts a function to Board
type BoardFunc func(key, value string) bool

func (f BoardFunc) Set(key, value string) bool {
	return f(key, value)
}

//MapBoard keeps the latest value of every key
//when created with keys it only accepts those
type MapBoard struct {
	mu      sync.Mutex
	allowed map[string]bool
	values  map[string]string
}

func NewMapBoard(keys ...string) *MapBoard {
	b := &MapBoard{values: map[string]string{}}
	if len(keys) > 0 {
		b.allowed = make(map[string]bool, len(keys))
		for _, k := range keys {
			b.allowed[k] = true
		}
	}
	return b
}

func (b *MapBoard) Set(key, value string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allowed != nil && !b.allowed[key] {
		return false
	}
	b.values[key] = value
	return true
}

func (b *MapBoard) Get(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok
}

//Keys returns the keys that received a value, sorted
func (b *MapBoard) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
