package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const favoritesEntry = "favorites.json"

// Favorites is the ordered list of technique ids a user has starred,
// persisted as one JSON entry. Every mutation is written through
// immediately; a malformed stored entry reads back as an empty list.
type Favorites struct {
	mu   sync.Mutex
	ids  []string
	path string
}

func NewFavorites(dir string) (*Favorites, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "favorites: create directory")
	}

	ret := &Favorites{
		ids:  []string{},
		path: filepath.Join(dir, favoritesEntry),
	}

	b, err := os.ReadFile(ret.path)
	if err == nil {
		var ids []string
		if err := json.Unmarshal(b, &ids); err != nil {
			log.Warn().Err(err).Msg("stored favorites are malformed, starting empty")
		} else {
			ret.ids = ids
		}
	}

	return ret, nil
}

func (f *Favorites) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := make([]string, len(f.ids))
	copy(ret, f.ids)
	return ret
}

func (f *Favorites) IsFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(id) >= 0
}

func (f *Favorites) Add(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexOf(id) >= 0 {
		return
	}
	f.ids = append(f.ids, id)
	f.flush()
}

func (f *Favorites) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.indexOf(id)
	if idx < 0 {
		return
	}
	f.ids = append(f.ids[:idx], f.ids[idx+1:]...)
	f.flush()
}

// Toggle adds the id when absent and removes it when present, returning
// the new membership.
func (f *Favorites) Toggle(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.indexOf(id)
	if idx >= 0 {
		f.ids = append(f.ids[:idx], f.ids[idx+1:]...)
		f.flush()
		return false
	}
	f.ids = append(f.ids, id)
	f.flush()
	return true
}

func (f *Favorites) indexOf(id string) int {
	for i, v := range f.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (f *Favorites) flush() {
	b, err := json.Marshal(f.ids)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal favorites")
		return
	}
	if err := os.WriteFile(f.path, b, 0644); err != nil {
		log.Warn().Err(err).Msg("failed to persist favorites")
	}
}
