package file

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/snooker-stats/internal/domain/playercache"
	"github.com/valyala/bytebufferpool"
)

const storeVersion = "1"

// record is the persisted shape. Player IDs serialize as string keys so the
// file stays valid JSON regardless of decoder strictness, and the version
// field leaves room for future migrations.
type record struct {
	Version       string            `json:"version"`
	Players       map[string]string `json:"players"`
	LastRefreshed string            `json:"last_refreshed,omitempty"`
}

// PlayerCacheRepository persists the player-name cache as a single JSON
// file. Writes go through a temp file plus rename so a crash mid-write
// never truncates the previous cache.
type PlayerCacheRepository struct {
	path string
}

func NewPlayerCacheRepository(path string) *PlayerCacheRepository {
	return &PlayerCacheRepository{path: path}
}

// Load reads the cache file. A missing file is not an error: it returns an
// empty cache so first boot can proceed straight to a full refresh.
func (r *PlayerCacheRepository) Load(ctx context.Context) (playercache.Cache, error) {
	if err := ctx.Err(); err != nil {
		return playercache.Cache{}, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return playercache.New(), nil
		}
		return playercache.Cache{}, crerr.Wrapf(err, "read player cache %s", r.path)
	}

	var rec record
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return playercache.Cache{}, crerr.Wrapf(err, "decode player cache %s", r.path)
	}

	cache := playercache.New()
	for key, name := range rec.Players {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		cache.Players[id] = name
	}
	if rec.LastRefreshed != "" {
		ts, err := time.Parse(time.RFC3339, rec.LastRefreshed)
		if err == nil {
			cache.LastRefreshed = &ts
		}
	}
	return cache, nil
}

func (r *PlayerCacheRepository) Save(ctx context.Context, cache playercache.Cache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := record{
		Version: storeVersion,
		Players: make(map[string]string, len(cache.Players)),
	}
	for id, name := range cache.Players {
		rec.Players[strconv.Itoa(id)] = name
	}
	if cache.LastRefreshed != nil {
		rec.LastRefreshed = cache.LastRefreshed.UTC().Format(time.RFC3339)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	raw, err := sonic.Marshal(rec)
	if err != nil {
		return crerr.Wrap(err, "encode player cache")
	}
	_, _ = buf.Write(raw)

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create cache dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return crerr.Wrap(err, "create temp cache file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return crerr.Wrapf(err, "write temp cache file %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return crerr.Wrapf(err, "close temp cache file %s", tmpPath)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return crerr.Wrapf(err, "replace player cache %s", r.path)
	}
	return nil
}
