package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/utility/kar"
	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
	"golang.org/x/exp/mmap"
)

// StatusError is returned by HTTPFetcher for non-success responses
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// HTTPFetcher fetches resources relative to a base url
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	url := strings.TrimSuffix(f.Base, "/") + "/" + strings.TrimPrefix(id, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// DirFetcher reads resources from a directory on disk
type DirFetcher struct {
	Root string
}

// Fetch implements Fetcher
func (f *DirFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(f.Root, filepath.FromSlash(id)))
}

// OpenArchive memory maps a kar archive and serves resources from it.
// The returned fetcher must be closed once no fetches are in flight.
func OpenArchive(file string) (*ArchiveFetcher, error) {
	mapped, err := mmap.Open(file)
	if err != nil {
		return nil, err
	}
	archive, err := kar.Open(mapped)
	if err != nil {
		mapped.Close()
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return &ArchiveFetcher{
		mapped:  mapped,
		archive: archive,
	}, nil
}

// ArchiveFetcher serves resources from a kar archive
type ArchiveFetcher struct {
	mapped  *mmap.ReaderAt
	archive *kar.Archive
}

// Fetch implements Fetcher
func (f *ArchiveFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := f.archive.ReadAll(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return data, nil
}

// Close unmaps the archive
func (f *ArchiveFetcher) Close() error {
	return f.mapped.Close()
}

// NewBoxFetcher serves the shader sources compiled into the binary
func NewBoxFetcher() *BoxFetcher {
	return &BoxFetcher{
		box: packr.NewBox("../assets/datafiles"),
	}
}

// BoxFetcher resolves resources by base name inside a packed box
type BoxFetcher struct {
	box packd.Finder
}

// Fetch implements Fetcher
func (f *BoxFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.box.Find(path.Base(id))
}

// NewFetcher picks a fetcher for the configured asset source: a url is
// fetched over http, a .kar file through the archive reader, "embedded"
// from the packed box, anything else is treated as a directory.
func NewFetcher(cfg core.AssetsConfiguration) (Fetcher, error) {
	source := cfg.Source
	switch {
	case source == "" || source == "embedded":
		return NewBoxFetcher(), nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return &HTTPFetcher{Base: source}, nil
	case strings.HasSuffix(source, ".kar"):
		return OpenArchive(source)
	default:
		info, err := os.Stat(source)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("asset source %s is not a directory", source)
		}
		return &DirFetcher{Root: source}, nil
	}
}
