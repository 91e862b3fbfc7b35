package storage

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sandeepkv93/timaru/internal/model"
)

// Cache keeps recently parsed schedules. An entry is served only while the
// file's size and modification time are unchanged.
type Cache struct {
	entries *lru.Cache[string, cachedSchedule]
}

type cachedSchedule struct {
	modTime  time.Time
	size     int64
	schedule *model.Schedule
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, cachedSchedule](size)
	if err != nil {
		return nil, fmt.Errorf("storage: schedule cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) get(path string) (*model.Schedule, bool) {
	cached, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.ModTime().Equal(cached.modTime) || info.Size() != cached.size {
		c.entries.Remove(path)
		return nil, false
	}
	return cached.schedule.Clone(), true
}

func (c *Cache) put(path string, schedule *model.Schedule) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	c.entries.Add(path, cachedSchedule{
		modTime:  info.ModTime(),
		size:     info.Size(),
		schedule: schedule.Clone(),
	})
}

func (c *Cache) remove(path string) {
	c.entries.Remove(path)
}
