package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"verbena/core/storage"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/singleflight"
)

// Cache is a lazily-initialized, single-writer cache of the archive
// snapshot. It is owned explicitly and passed to its consumers rather
// than living as a package global, so tests inject a fresh instance per
// run. The snapshot loads at most once per process lifetime; concurrent
// first loads collapse through singleflight.
type Cache struct {
	client storage.Client
	bucket string
	cfg    Config

	sf       singleflight.Group
	snapshot *Snapshot
}

// NewCache creates an archive cache backed by the given object storage.
func NewCache(client storage.Client, bucket string, cfg Config) *Cache {
	return &Cache{client: client, bucket: bucket, cfg: cfg}
}

// Load returns the archive snapshot, fetching it on first use. A missing
// archive object is not an error: the engine falls back to windowing
// more of the live previous-year data instead, so an empty snapshot is
// returned.
func (c *Cache) Load(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.sf.Do("archive", func() (any, error) {
		if c.snapshot != nil {
			return c.snapshot, nil
		}

		snap, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.snapshot = snap
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// LoadYear fetches a per-year archive object. Returns nil without error
// when the year has not been archived.
func (c *Cache) LoadYear(ctx context.Context, year int) (*YearArchive, error) {
	data, err := c.read(ctx, c.cfg.YearPrefix+strconv.Itoa(year)+".json")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var ya YearArchive
	if err := json.Unmarshal(data, &ya); err != nil {
		return nil, fmt.Errorf("failed to decode year archive %d: %w", year, err)
	}
	return &ya, nil
}

func (c *Cache) fetch(ctx context.Context) (*Snapshot, error) {
	data, err := c.read(ctx, c.cfg.ObjectName)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &Snapshot{Years: map[string]YearStats{}}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode archive object: %w", err)
	}
	if snap.Years == nil {
		snap.Years = map[string]YearStats{}
	}
	return &snap, nil
}

// read returns the object contents, or nil when the object does not
// exist.
func (c *Cache) read(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// Minio reports missing keys lazily on first read.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", objectName, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}
