package server

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed assets/*.svg assets/*.png
var embeddedAssets embed.FS

// DefaultAssets returns the built-in badge images, named
// "<status>.<format>" such as "uptodate.svg".
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// AssetsWithOverrides serves files from dir when present and falls back to
// the built-in images otherwise. An empty dir returns [DefaultAssets].
func AssetsWithOverrides(dir string) fs.FS {
	if dir == "" {
		return DefaultAssets()
	}
	return overlayFS{top: os.DirFS(dir), bottom: DefaultAssets()}
}

type overlayFS struct {
	top, bottom fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.bottom.Open(name)
}
