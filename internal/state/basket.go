package state

import (
	"sort"
	"strings"
	"sync"
)

// Basket is the user's ingredient set: lowercase names, deduplicated,
// order-irrelevant. Every mutation persists immediately. Safe for
// concurrent use; drop-watcher detections land on a separate goroutine
// from the prompt loop.
type Basket struct {
	store *FileStore
	mu    sync.Mutex
	items map[string]struct{}
}

// LoadBasket restores the basket from the store, lowercasing whatever was
// persisted so casing drift in old state files can't split entries.
func LoadBasket(store *FileStore) *Basket {
	b := &Basket{store: store, items: make(map[string]struct{})}
	for v := range store.Load(KeyBasket) {
		b.items[strings.ToLower(v)] = struct{}{}
	}
	return b
}

// Add inserts an ingredient (lowercased). Returns true if it was new.
func (b *Basket) Add(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[name]; ok {
		return false
	}
	b.items[name] = struct{}{}
	b.store.Save(KeyBasket, b.items)
	return true
}

// AddAll inserts several ingredients, returning how many were new.
// The store is written once, not per item.
func (b *Basket) AddAll(names []string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	added := 0
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := b.items[n]; !ok {
			b.items[n] = struct{}{}
			added++
		}
	}
	if added > 0 {
		b.store.Save(KeyBasket, b.items)
	}
	return added
}

// Remove deletes an ingredient. Returns true if it was present.
func (b *Basket) Remove(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[name]; !ok {
		return false
	}
	delete(b.items, name)
	b.store.Save(KeyBasket, b.items)
	return true
}

// Clear empties the basket.
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = make(map[string]struct{})
	b.store.Save(KeyBasket, b.items)
}

// Items returns the basket contents sorted for stable display.
func (b *Basket) Items() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.items))
	for v := range b.items {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of ingredients held.
func (b *Basket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Favorites is the set of favorited recipe names. Unlike the basket the
// name's casing is preserved -- it is the recipe's identity. Safe for
// concurrent use.
type Favorites struct {
	store *FileStore
	mu    sync.Mutex
	names map[string]struct{}
}

// LoadFavorites restores favorites from the store.
func LoadFavorites(store *FileStore) *Favorites {
	return &Favorites{store: store, names: store.Load(KeyFavorites)}
}

// Toggle flips membership for a recipe name and persists. Returns the new
// membership state.
func (f *Favorites) Toggle(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.names[name]; ok {
		delete(f.names, name)
	} else {
		f.names[name] = struct{}{}
	}
	f.store.Save(KeyFavorites, f.names)
	_, ok := f.names[name]
	return ok
}

// Has reports whether a recipe is favorited.
func (f *Favorites) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.names[name]
	return ok
}

// Names returns the favorited recipe names, sorted.
func (f *Favorites) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.names))
	for v := range f.names {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.names)
}
