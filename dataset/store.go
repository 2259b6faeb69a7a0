package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cquammen/cinema"
	"github.com/cquammen/cinema/cache"
	intImage "github.com/cquammen/cinema/internal/image"
)

// File names inside a dataset directory.
const (
	InfoFile      = "info.json"
	RenderingFile = "rendering.json"
)

// DefaultSheetCacheSize is the number of decoded sprite sheets a Store
// keeps by default.
const DefaultSheetCacheSize = 8

// Option configures a Store.
type Option func(*options)

type options struct {
	sheetCacheSize int
}

// WithSheetCacheSize sets how many decoded sprite sheets are kept.
// Zero disables the limit.
func WithSheetCacheSize(n int) Option {
	return func(o *options) {
		o.sheetCacheSize = max(n, 0)
	}
}

// Store is a Cinema dataset on disk.
type Store struct {
	dir       string
	info      *cinema.Dataset
	rendering *cinema.Rendering
	files     *reader
	sheets    *cache.Cache[string, *cinema.SpriteSheet]
}

// Open loads the dataset in dir. rendering.json is optional; without it
// every scalar field is drawn with the gray color map.
func Open(dir string, opts ...Option) (*Store, error) {
	o := options{sheetCacheSize: DefaultSheetCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	files, err := newReader()
	if err != nil {
		return nil, err
	}
	s := &Store{
		dir:    dir,
		files:  files,
		sheets: cache.New[string, *cinema.SpriteSheet](o.sheetCacheSize),
	}

	data, err := files.readFile(filepath.Join(dir, InfoFile))
	if err != nil {
		files.close()
		return nil, err
	}
	if s.info, err = cinema.ParseDataset(data); err != nil {
		files.close()
		return nil, err
	}

	s.rendering = cinema.NewRendering()
	data, err = files.readFile(filepath.Join(dir, RenderingFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cinema.Logger().Warn("dataset: no rendering.json, using gray color maps", "dir", dir)
		data = []byte("{}")
	case err != nil:
		files.close()
		return nil, err
	}
	if err := s.rendering.Load(data); err != nil {
		files.close()
		return nil, err
	}

	s.sheets.OnEvict(func(key string, _ *cinema.SpriteSheet) {
		cinema.Logger().Debug("dataset: sheet evicted", "controls", key)
	})
	cinema.Logger().Info("dataset: loaded", "dir", dir, "dataset", s.info.String())
	return s, nil
}

// Close releases the decompressor. The Store must not be used afterwards.
func (s *Store) Close() {
	s.files.close()
}

// Dir returns the dataset directory.
func (s *Store) Dir() string {
	return s.dir
}

// Info returns the dataset metadata from info.json.
func (s *Store) Info() *cinema.Dataset {
	return s.info
}

// Rendering returns the color maps from rendering.json.
func (s *Store) Rendering() *cinema.Rendering {
	return s.rendering
}

// SheetPath returns the file holding the sprite sheet of controls.
// Parameters missing from controls take their defaults.
func (s *Store) SheetPath(controls cinema.Controls) (string, error) {
	name, err := Expand(s.info.NamePattern, s.info, controls)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(name)), nil
}

// Fetch reads and decodes the sprite sheet of controls. Recently used
// sheets are served from memory.
func (s *Store) Fetch(ctx context.Context, controls cinema.Controls) (*cinema.SpriteSheet, error) {
	full, _ := s.info.DefaultControls().Merge(controls)
	key := full.Key()
	if sheet, ok := s.sheets.Get(key); ok {
		cinema.Logger().Debug("dataset: sheet cache hit", "controls", key)
		return sheet, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.SheetPath(full)
	if err != nil {
		return nil, err
	}
	data, err := s.files.readFile(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := intImage.LoadImageFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: decode %s: %w", path, err)
	}
	sheet, err := s.split(img)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}

	s.sheets.Set(key, sheet)
	return sheet, nil
}

// split cuts a decoded sheet into slots: of the dataset's image height
// when known, else into SlotCount()+1 equal slots.
func (s *Store) split(img *cinema.ImageBuf) (*cinema.SpriteSheet, error) {
	if s.info.Height > 0 {
		return cinema.NewSpriteSheet(img, s.info.Height)
	}
	return cinema.NewSpriteSheetSlots(img, s.info.SlotCount()+1)
}
