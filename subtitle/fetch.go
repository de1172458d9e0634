package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zantaku/Zantaku-sub000/filesystem"
	"github.com/zantaku/Zantaku-sub000/log"
	"github.com/zantaku/Zantaku-sub000/network"
)

// maxBlobSize caps a single subtitle download.
const maxBlobSize = 16 << 20

// FetchError reports that a track could not be retrieved or yielded no cues.
// The track is unavailable; playback continues without subtitles.
type FetchError struct {
	Track Track
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("subtitle track %s: %s", e.Track.Name(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BlobCache keeps remote blobs between runs.
type BlobCache interface {
	Read(key string) ([]byte, bool)
	Write(key string, data []byte) error
}

// Fetcher retrieves subtitle blobs over HTTP or from the filesystem.
type Fetcher struct {
	client  *http.Client
	headers map[string]string
	cache   BlobCache
}

// NewFetcher returns a fetcher sending headers with every request.
// A nil client means network.Client.
func NewFetcher(client *http.Client, headers map[string]string) *Fetcher {
	return &Fetcher{client: client, headers: headers}
}

// WithCache makes the fetcher serve remote tracks from c. Downloads are stored only once
// they parse into cues.
func (f *Fetcher) WithCache(c BlobCache) *Fetcher {
	f.cache = c
	return f
}

// Fetch returns the raw blob of a track.
func (f *Fetcher) Fetch(ctx context.Context, track Track) ([]byte, error) {
	data, _, err := f.fetch(ctx, track)
	return data, err
}

// fetch also reports whether the blob came from the cache.
func (f *Fetcher) fetch(ctx context.Context, track Track) ([]byte, bool, error) {
	if track.URL == "" {
		return nil, false, &FetchError{Track: track, Err: errors.New("empty url")}
	}

	if !isRemote(track.URL) {
		data, err := filesystem.API().ReadFile(strings.TrimPrefix(track.URL, "file://"))
		if err != nil {
			return nil, false, &FetchError{Track: track, Err: err}
		}
		return data, false, nil
	}

	if f.cache != nil {
		if data, ok := f.cache.Read(track.URL); ok {
			log.Debugf("subtitle track %s served from cache", track.Name())
			return data, true, nil
		}
	}

	resp, err := network.Get(ctx, f.client, track.URL, f.headers)
	if err != nil {
		return nil, false, &FetchError{Track: track, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, &FetchError{Track: track, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobSize+1))
	if err != nil {
		return nil, false, &FetchError{Track: track, Err: err}
	}

	if len(data) > maxBlobSize {
		return nil, false, &FetchError{Track: track, Err: errors.New("blob too large")}
	}

	return data, false, nil
}

// Load fetches and parses a track. A blob that yields no cue is reported as a FetchError
// wrapping ErrNoCues.
func (f *Fetcher) Load(ctx context.Context, track Track) ([]Cue, error) {
	data, cached, err := f.fetch(ctx, track)
	if err != nil {
		return nil, err
	}

	res := ParseDetailed(string(data), track.Format)
	if len(res.Skipped) > 0 {
		log.WithFields(map[string]any{
			"track":   track.Name(),
			"format":  res.Format.String(),
			"skipped": len(res.Skipped),
		}).Warnf("skipped malformed subtitle records, first: %s", res.Skipped[0])
	}

	if len(res.Cues) == 0 {
		return nil, &FetchError{Track: track, Err: ErrNoCues}
	}

	if f.cache != nil && !cached && isRemote(track.URL) {
		if err := f.cache.Write(track.URL, data); err != nil {
			log.Warnf("could not cache subtitle track %s: %s", track.Name(), err)
		}
	}

	log.Infof("loaded %d cues from subtitle track %s", len(res.Cues), track.Name())
	return res.Cues, nil
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
