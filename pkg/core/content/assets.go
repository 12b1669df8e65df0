package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrAssetNotFound is returned for missing or out-of-directory assets.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is an image reference resolved against the assets directory.
type Asset struct {
	File        string
	Caption     string
	Path        string
	Exists      bool
	Placeholder string
}

// Assets resolves image files by name inside one directory.
type Assets struct {
	dir string
}

func NewAssets(dir string) *Assets {
	return &Assets{dir: dir}
}

func (a *Assets) Dir() string { return a.dir }

// Resolve looks img up. A missing file yields the placeholder note shown
// in place of the picture.
func (a *Assets) Resolve(img Image) Asset {
	asset := Asset{File: img.File, Caption: img.Caption}
	path, err := a.Path(img.File)
	if err == nil {
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			asset.Path = path
			asset.Exists = true
			return asset
		}
	}
	asset.Placeholder = fmt.Sprintf("(Coloca %s en %s/)", img.File, strings.TrimRight(filepath.ToSlash(a.dir), "/"))
	return asset
}

// ResolveAll resolves images in order.
func (a *Assets) ResolveAll(imgs []Image) []Asset {
	out := make([]Asset, len(imgs))
	for i, img := range imgs {
		out[i] = a.Resolve(img)
	}
	return out
}

// Path maps an asset name to a file inside the directory. Names that are
// empty or would escape the directory are rejected.
func (a *Assets) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return filepath.Join(a.dir, name), nil
}
