// Package cache keeps downloaded blobs on disk for a limited time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/where"
)

const TTL = 7 * 24 * time.Hour

// Disk stores blobs as files named by the SHA-256 of their key.
type Disk struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a cache rooted at dir. An empty dir means the subtitles directory under where.Cache.
func New(dir string) *Disk {
	if dir == "" {
		dir = filepath.Join(where.Cache(), "subtitles")
	}
	return &Disk{dir: dir, ttl: TTL, now: time.Now}
}

// GenerateKey maps an arbitrary key, usually a URL, to a file name.
func GenerateKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, GenerateKey(key))
}

// Read returns the blob stored under key unless it is missing or older than the TTL.
func (d *Disk) Read(key string) ([]byte, bool) {
	path := d.path(key)

	info, err := filesystem.API().Stat(path)
	if err != nil || d.now().Sub(info.ModTime()) > d.ttl {
		return nil, false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Write stores the blob through a temporary file so readers never see a partial write.
func (d *Disk) Write(key string, data []byte) error {
	if err := filesystem.API().MkdirAll(d.dir, os.ModePerm); err != nil {
		return err
	}

	path := d.path(key)
	tmpPath := path + ".tmp"

	if err := filesystem.API().WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes entries older than the TTL and returns how many were removed.
func (d *Disk) CollectGarbage() int {
	var removed int

	_ = filesystem.API().Walk(d.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if d.now().Sub(info.ModTime()) > d.ttl {
			if filesystem.API().Remove(path) == nil {
				removed++
			}
		}
		return nil
	})

	if removed > 0 {
		log.Debugf("removed %d expired cache entries from %s", removed, d.dir)
	}
	return removed
}
