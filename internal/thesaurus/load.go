package thesaurus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	gserrors "github.com/graphseek/graphseek/internal/errors"
)

// remoteFetchTimeout bounds remote dictionary fetches when the caller's
// context carries no deadline of its own.
const remoteFetchTimeout = 30 * time.Second

// Load reads a thesaurus from a local JSON file or a remote HTTP(S)
// dictionary, depending on the source string.
func Load(ctx context.Context, source string) (*Thesaurus, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetchRemote(ctx, source)
	}
	return LoadFromFile(source)
}

// LoadFromJSON parses a thesaurus from its JSON dictionary form.
func LoadFromJSON(data []byte) (*Thesaurus, error) {
	th := New("")
	if err := json.Unmarshal(data, th); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeThesaurusBuild, err)
	}
	return th, nil
}

// LoadFromFile reads a thesaurus from a local JSON file.
func LoadFromFile(path string) (*Thesaurus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("path", path)
	}
	return LoadFromJSON(data)
}

// SaveToFile writes the thesaurus as JSON, taking a sibling flock so two
// processes rebuilding the same dictionary cannot interleave writes.
func SaveToFile(th *Thesaurus, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("path", path)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(th, "", "  ")
	if err != nil {
		return gserrors.Wrap(gserrors.ErrCodeThesaurusBuild, err)
	}

	// Write-then-rename so readers never observe a partial dictionary.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err)
	}
	return nil
}

// fetchRemote downloads a JSON dictionary. Cancellation and deadlines
// flow through ctx; building never holds any graph lock.
func fetchRemote(ctx context.Context, url string) (*Thesaurus, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, remoteFetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("url", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable, err).
			WithDetail("url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, gserrors.Newf(gserrors.ErrCodeSourceUnavailable,
			"fetching thesaurus from %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeSourceUnavailable,
			fmt.Errorf("reading thesaurus body from %s: %w", url, err))
	}
	return LoadFromJSON(data)
}
