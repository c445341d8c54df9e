package static

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/flosch/pongo2/v6"
)

//go:embed placeholder/index.html
var embeddedPlaceholder embed.FS

// DefaultPlaceholderLang is the page language when none is configured.
const DefaultPlaceholderLang = "en-US"

// PlaceholderData fills the placeholder page.
type PlaceholderData struct {
	Version string
	Lang    string
}

// PlaceholderFS is the bundle served when the configured root does not exist.
func PlaceholderFS() fs.FS {
	fsys, err := RenderPlaceholder(PlaceholderData{})
	if err != nil {
		return placeholderRoot()
	}
	return fsys
}

// RenderPlaceholder runs the embedded placeholder page through pongo2 and
// returns a file system holding the result as index.html.
func RenderPlaceholder(data PlaceholderData) (fs.FS, error) {
	if data.Lang == "" {
		data.Lang = DefaultPlaceholderLang
	}
	set := pongo2.NewSet("placeholder", pongo2.NewFSLoader(placeholderRoot()))
	tpl, err := set.FromFile(DefaultIndex)
	if err != nil {
		return nil, fmt.Errorf("static: load placeholder: %w", err)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context{
		"version": data.Version,
		"lang":    data.Lang,
	})
	if err != nil {
		return nil, fmt.Errorf("static: render placeholder: %w", err)
	}
	return pageFS{name: DefaultIndex, data: out, modTime: time.Now()}, nil
}

func placeholderRoot() fs.FS {
	sub, err := fs.Sub(embeddedPlaceholder, "placeholder")
	if err != nil {
		return embeddedPlaceholder
	}
	return sub
}

// pageFS is a read-only file system holding a single rendered page.
type pageFS struct {
	name    string
	data    []byte
	modTime time.Time
}

func (p pageFS) Open(name string) (fs.File, error) {
	switch name {
	case ".":
		return &pageDir{info: pageInfo{name: ".", dir: true, modTime: p.modTime}}, nil
	case p.name:
		return &pageFile{
			Reader: bytes.NewReader(p.data),
			info:   pageInfo{name: p.name, size: int64(len(p.data)), modTime: p.modTime},
		}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

type pageFile struct {
	*bytes.Reader
	info pageInfo
}

func (f *pageFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *pageFile) Close() error               { return nil }

type pageDir struct{ info pageInfo }

func (d *pageDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *pageDir) Close() error               { return nil }
func (d *pageDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

type pageInfo struct {
	name    string
	size    int64
	dir     bool
	modTime time.Time
}

func (i pageInfo) Name() string       { return i.name }
func (i pageInfo) Size() int64        { return i.size }
func (i pageInfo) ModTime() time.Time { return i.modTime }
func (i pageInfo) IsDir() bool        { return i.dir }
func (i pageInfo) Sys() any           { return nil }
func (i pageInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

var _ io.ReadSeeker = (*pageFile)(nil)
