// Package history persists per-episode watch progress.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/where"
)

// cacher stores the records as one JSON document keyed by media and episode.
var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var mu sync.Mutex

// Get returns every stored record keyed by media and episode.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Lookup returns the record of one episode, if any.
func Lookup(mediaID string, episode int) (mo.Option[*Record], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[*Record](), err
	}
	if record, ok := saved[encode(mediaID, episode)]; ok {
		return mo.Some(record), nil
	}
	return mo.None[*Record](), nil
}

// Save stores the latest position of an episode. The watched percentage never decreases,
// so a re-watch does not erase completion.
func Save(record Record) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	if record.Duration > 0 {
		record.WatchedPercentage = record.Position / record.Duration * 100
	}
	if existing, exists := saved[record.encode()]; exists {
		if record.WatchedPercentage < existing.WatchedPercentage {
			record.WatchedPercentage = existing.WatchedPercentage
		}
		if record.Title == "" {
			record.Title = existing.Title
		}
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	saved[record.encode()] = &record
	return cacher.Set(saved)
}

// Remove deletes the record of one episode.
func Remove(record *Record) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher.Set(saved)
}
