package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/utility/kar"
	qt "github.com/frankban/quicktest"
)

func TestHTTPFetcher(t *testing.T) {
	c := qt.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/datafiles/vsource.dat" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("void main(){}"))
	}))
	defer server.Close()

	fetcher := &HTTPFetcher{Base: server.URL + "/"}

	data, err := fetcher.Fetch(context.Background(), "assets/datafiles/vsource.dat")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "void main(){}")

	_, err = fetcher.Fetch(context.Background(), "assets/datafiles/fsource.dat")
	var statusErr *StatusError
	c.Assert(errors.As(err, &statusErr), qt.IsTrue)
	c.Assert(statusErr.Status, qt.Equals, http.StatusNotFound)
	c.Assert(strings.Contains(err.Error(), "404"), qt.IsTrue)
	c.Assert(strings.Contains(err.Error(), "fsource.dat"), qt.IsTrue)
}

func TestHTTPFetcherCancelled(t *testing.T) {
	c := qt.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never read"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&HTTPFetcher{Base: server.URL}).Fetch(ctx, "vsource.dat")
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
}

func TestDirFetcher(t *testing.T) {
	c := qt.New(t)
	root := t.TempDir()
	c.Assert(os.MkdirAll(filepath.Join(root, "datafiles"), 0755), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(root, "datafiles", "fsource.dat"), []byte("frag"), 0644), qt.IsNil)

	fetcher := &DirFetcher{Root: root}
	data, err := fetcher.Fetch(context.Background(), "datafiles/fsource.dat")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "frag")

	_, err = fetcher.Fetch(context.Background(), "datafiles/missing.dat")
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func writeArchive(c *qt.C, files map[string]string) string {
	builder, err := kar.NewBuilder(kar.Header{Author: "helix"})
	c.Assert(err, qt.IsNil)
	defer builder.Close()

	for name, contents := range files {
		c.Assert(builder.Add(name, strings.NewReader(contents)), qt.IsNil)
	}

	file := filepath.Join(c.TempDir(), "assets.kar")
	out, err := os.Create(file)
	c.Assert(err, qt.IsNil)
	defer out.Close()

	_, err = builder.WriteTo(out)
	c.Assert(err, qt.IsNil)
	return file
}

func TestArchiveFetcher(t *testing.T) {
	c := qt.New(t)
	file := writeArchive(c, map[string]string{
		"assets/datafiles/vsource.dat": "vertex",
		"assets/datafiles/fsource.dat": "fragment",
	})

	fetcher, err := OpenArchive(file)
	c.Assert(err, qt.IsNil)
	defer fetcher.Close()

	data, err := fetcher.Fetch(context.Background(), "assets/datafiles/fsource.dat")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "fragment")

	_, err = fetcher.Fetch(context.Background(), "assets/datafiles/missing.dat")
	c.Assert(errors.Is(err, kar.ErrNotFound), qt.IsTrue)
}

func TestOpenArchiveNotArchive(t *testing.T) {
	c := qt.New(t)
	file := filepath.Join(c.TempDir(), "bogus.kar")
	c.Assert(os.WriteFile(file, []byte("definitely not an archive"), 0644), qt.IsNil)

	_, err := OpenArchive(file)
	c.Assert(errors.Is(err, kar.ErrFileFormat), qt.IsTrue)
}

func TestBoxFetcher(t *testing.T) {
	c := qt.New(t)
	fetcher := NewBoxFetcher()

	data, err := fetcher.Fetch(context.Background(), "assets/datafiles/vsource.dat")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(data), "aVertexPosition"), qt.IsTrue)
	c.Assert(strings.Contains(string(data), "uProjectionMatrix"), qt.IsTrue)

	data, err = fetcher.Fetch(context.Background(), "fsource.dat")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(data), "gl_FragColor"), qt.IsTrue)
}

func TestNewFetcher(t *testing.T) {
	c := qt.New(t)

	f, err := NewFetcher(core.AssetsConfiguration{Source: "embedded"})
	c.Assert(err, qt.IsNil)
	_, ok := f.(*BoxFetcher)
	c.Assert(ok, qt.IsTrue)

	f, err = NewFetcher(core.AssetsConfiguration{Source: "http://localhost:8080/"})
	c.Assert(err, qt.IsNil)
	_, ok = f.(*HTTPFetcher)
	c.Assert(ok, qt.IsTrue)

	f, err = NewFetcher(core.AssetsConfiguration{Source: c.TempDir()})
	c.Assert(err, qt.IsNil)
	_, ok = f.(*DirFetcher)
	c.Assert(ok, qt.IsTrue)

	archive := writeArchive(c, map[string]string{"vsource.dat": "vertex"})
	f, err = NewFetcher(core.AssetsConfiguration{Source: archive})
	c.Assert(err, qt.IsNil)
	archiveFetcher, ok := f.(*ArchiveFetcher)
	c.Assert(ok, qt.IsTrue)
	archiveFetcher.Close()

	_, err = NewFetcher(core.AssetsConfiguration{Source: filepath.Join(c.TempDir(), "missing")})
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}
