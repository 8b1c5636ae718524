package plugins

import (
	"strings"
	"time"

	"github.com/belak/nut"
	"github.com/gobwas/glob"

	"github.com/plotbird/plotbird"
	"github.com/plotbird/plotbird/internal"
)

func init() {
	plotbird.RegisterPlugin("cache", newCachePlugin)
}

type cacheConfig struct {
	Bucket string
	TTL    internal.Duration
}

// A cacheEntry is one finished analysis reply.
type cacheEntry struct {
	Query   string
	Action  string
	Reply   string
	Created time.Time
}

// Cache keeps finished analysis replies in a nut bucket, keyed by the
// normalised query and the reply format.
type Cache struct {
	db     *nut.DB
	bucket string
	ttl    time.Duration
}

// NewCache makes sure bucket exists in db. An empty bucket name means
// "analysis" and a zero ttl keeps replies forever.
func NewCache(db *nut.DB, bucket string, ttl time.Duration) (*Cache, error) {
	if bucket == "" {
		bucket = "analysis"
	}

	if err := db.EnsureBucket(bucket); err != nil {
		return nil, err
	}

	return &Cache{db: db, bucket: bucket, ttl: ttl}, nil
}

// CacheKey folds case and whitespace so trivially different spellings of a
// query share an entry.
func CacheKey(format, query string) string {
	return format + "\x00" + normalizeQuery(query)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns the stored reply for key. Expired entries are misses.
func (c *Cache) Get(key string) (string, bool, error) {
	entry := &cacheEntry{}

	err := c.db.View(func(tx *nut.Tx) error {
		// A missing key comes back as an error, which is just a miss here.
		if tx.Bucket(c.bucket).Get(key, entry) != nil {
			entry = nil
		}
		return nil
	})
	if err != nil || entry == nil || entry.Created.IsZero() {
		return "", false, err
	}

	if c.ttl > 0 && time.Since(entry.Created) > c.ttl {
		return "", false, nil
	}

	return entry.Reply, true, nil
}

// Put stores reply under key.
func (c *Cache) Put(key, query, action, reply string) error {
	entry := &cacheEntry{
		Query:   normalizeQuery(query),
		Action:  action,
		Reply:   reply,
		Created: time.Now(),
	}

	return c.db.Update(func(tx *nut.Tx) error {
		return tx.Bucket(c.bucket).Put(key, entry)
	})
}

// Len returns the number of stored replies.
func (c *Cache) Len() (int, error) {
	var n int

	err := c.db.View(func(tx *nut.Tx) error {
		cursor := tx.Bucket(c.bucket).Cursor()

		v := &cacheEntry{}
		for _, err := cursor.First(v); err == nil; _, err = cursor.Next(v) {
			n++
			v = &cacheEntry{}
		}

		return nil
	})

	return n, err
}

// Clear drops the stored replies whose query matches pattern, or all of
// them when pattern is nil. It returns how many were dropped.
func (c *Cache) Clear(pattern glob.Glob) (int, error) {
	var dropped int

	err := c.db.Update(func(tx *nut.Tx) error {
		bucket := tx.Bucket(c.bucket)
		cursor := bucket.Cursor()

		var keys []string
		v := &cacheEntry{}
		for k, err := cursor.First(v); err == nil; k, err = cursor.Next(v) {
			if pattern == nil || pattern.Match(v.Query) {
				keys = append(keys, k)
			}
			v = &cacheEntry{}
		}

		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		dropped = len(keys)

		return nil
	})

	return dropped, err
}

type cachePlugin struct {
	cache *Cache
}

// newCachePlugin provides the analysis cache. Without a database the
// provided *Cache is nil and replies are not cached.
func newCachePlugin(b *plotbird.Bot, cm *plotbird.CommandMux, db *nut.DB) (*Cache, error) {
	if db == nil {
		b.GetLogger().Info("No database, analysis replies will not be cached")
		return nil, nil
	}

	cc := &cacheConfig{}
	if b.HasConfig("cache") {
		if err := b.Config("cache", cc); err != nil {
			return nil, err
		}
	}

	c, err := NewCache(db, cc.Bucket, cc.TTL.Duration)
	if err != nil {
		return nil, err
	}

	p := &cachePlugin{cache: c}

	cm.Private("cache", p.cacheCallback, &plotbird.HelpInfo{
		Usage:       "[clear [pattern]]",
		Description: "Reports how many analysis replies are cached, or drops those whose query matches a glob",
		Examples:    []string{"cache", "cache clear", "cache clear zeros of *"},
	})

	return c, nil
}

func (p *cachePlugin) cacheCallback(r *plotbird.Request) {
	args := strings.Fields(r.Message.Trailing())

	switch {
	case len(args) == 0:
		n, err := p.cache.Len()
		if err != nil {
			r.Logger().WithError(err).Warn("Failed to read cache size")
			r.MentionReplyf("Could not read the cache")
			return
		}
		r.MentionReplyf("%d cached %s", n, internal.Pluralize(n, "reply"))
	case args[0] == "clear":
		var pattern glob.Glob
		if len(args) > 1 {
			var err error
			pattern, err = glob.Compile(normalizeQuery(strings.Join(args[1:], " ")))
			if err != nil {
				r.MentionReplyf("Bad pattern: %s", err)
				return
			}
		}

		n, err := p.cache.Clear(pattern)
		if err != nil {
			r.Logger().WithError(err).Warn("Failed to clear cache")
			r.MentionReplyf("Could not clear the cache")
			return
		}
		r.MentionReplyf("Dropped %d cached %s", n, internal.Pluralize(n, "reply"))
	default:
		r.MentionReplyf("Unknown cache command %q", r.Message.Trailing())
	}
}
