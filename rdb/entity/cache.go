package entity

import (
	"sync"
	"time"

	"github.com/hatlonely/litedb/rdb/row"
	"github.com/hatlonely/litedb/rdb/table"
)

// Status 缓存状态，Cached 为 false 表示未知
type Status struct {
	Cached bool
	Since  time.Time
}

type cacheEntry[E Entity] struct {
	entity E
	since  time.Time
}

// Cache 按主键缓存实体，只支持 TEXT 类型的主键，其他主键类型的所有操作都不生效
// mu 只保护 entries，持有期间不访问数据库
type Cache[E Entity] struct {
	primaryKey string

	mu      sync.RWMutex
	entries map[string]cacheEntry[E]
}

func NewCache[E Entity](schema *table.Schema) *Cache[E] {
	c := &Cache[E]{entries: map[string]cacheEntry[E]{}}
	if pk := schema.PrimaryKey(); pk.Type == table.Text {
		c.primaryKey = pk.Name
	}
	return c
}

// Enabled 主键为 TEXT 时可用
func (c *Cache[E]) Enabled() bool {
	return c.primaryKey != ""
}

func (c *Cache[E]) keyOf(e E) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	return textKey(e.ToFields()[c.primaryKey])
}

func textKey(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case row.Value:
		return x.AsText()
	}
	return "", false
}

func (c *Cache[E]) Store(entities ...E) {
	if !c.Enabled() {
		return
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entities {
		if key, ok := c.keyOf(e); ok {
			c.entries[key] = cacheEntry[E]{entity: e, since: now}
		}
	}
}

// Find 按 keys 的顺序返回命中的实体，未命中的 key 被跳过
func (c *Cache[E]) Find(keys []string) []E {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var entities []E
	for _, key := range keys {
		if entry, ok := c.entries[key]; ok {
			entities = append(entities, entry.entity)
		}
	}
	return entities
}

func (c *Cache[E]) FindAsMap(keys []string) map[string]E {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := make(map[string]E, len(keys))
	for _, key := range keys {
		if entry, ok := c.entries[key]; ok {
			m[key] = entry.entity
		}
	}
	return m
}

func (c *Cache[E]) RemoveKeys(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

func (c *Cache[E]) Remove(entities ...E) {
	var keys []string
	for _, e := range entities {
		if key, ok := c.keyOf(e); ok {
			keys = append(keys, key)
		}
	}
	c.RemoveKeys(keys)
}

func (c *Cache[E]) Erase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry[E]{}
}

func (c *Cache[E]) Status(key string) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.entries[key]; ok {
		return Status{Cached: true, Since: entry.since}
	}
	return Status{}
}

func (c *Cache[E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
