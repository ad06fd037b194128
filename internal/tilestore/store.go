package tilestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ringmast4r/camtiles/internal/cloudwriter"
	"github.com/ringmast4r/camtiles/internal/models"
)

// Store persists tile-pipeline output units under a root directory. Every
// unit is written whole via temp-then-rename, so an aborted run never leaves
// a partial file in place of a unit. With zstd compression enabled, units get
// a .json.zst suffix; with a cloud factory configured, each unit is also
// uploaded after the local write.
type Store struct {
	root        string
	compression string
	cloud       cloudwriter.CloudWriterFactory
	bucket      string
}

type Option func(*Store)

// WithCompression selects "zstd" or "" (plain JSON).
func WithCompression(compression string) Option {
	return func(s *Store) { s.compression = compression }
}

// WithCloud mirrors every written unit to cloud storage.
func WithCloud(factory cloudwriter.CloudWriterFactory, bucket string) Option {
	return func(s *Store) {
		s.cloud = factory
		s.bucket = bucket
	}
}

func New(root string, opts ...Option) *Store {
	s := &Store{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ext() string {
	if s.compression == "zstd" {
		return ".json.zst"
	}
	return ".json"
}

// TilePath returns the path recorded in the tile index for a key, relative to
// the store root's parent so it matches what the front end requests.
func (s *Store) TilePath(subdir string, key models.TileKey) string {
	return filepath.ToSlash(filepath.Join(s.root, subdir, key.String()+s.ext()))
}

// WriteTile persists one tile unit under {root}/{subdir}/{z}/{x}/{y}.
func (s *Store) WriteTile(subdir string, key models.TileKey, tile *models.Tile) error {
	return s.writeJSON(filepath.Join(subdir, key.String()+s.ext()), tile, false)
}

// WriteIndex persists a tile index at {root}/{subdir}/index.json, indented
// for human inspection like the rest of the summary units.
func (s *Store) WriteIndex(subdir string, index *models.TileIndex) error {
	return s.writeJSON(filepath.Join(subdir, "index"+s.ext()), index, true)
}

// WriteAggregate persists an aggregate FeatureCollection at
// {root}/aggregates/{name}.
func (s *Store) WriteAggregate(name string, collection *models.FeatureCollection) error {
	return s.writeJSON(filepath.Join("aggregates", name+s.ext()), collection, false)
}

func (s *Store) writeJSON(relPath string, v interface{}, indent bool) error {
	data, err := encodeJSON(v, indent)
	if err != nil {
		return err
	}
	if s.compression == "zstd" {
		data, err = compress(data)
		if err != nil {
			return err
		}
	}

	fullPath := filepath.Join(s.root, relPath)
	if err := WriteFileAtomic(fullPath, data); err != nil {
		return err
	}

	if s.cloud != nil {
		object := filepath.ToSlash(fullPath)
		w, err := s.cloud.NewWriter(s.bucket, object)
		if err != nil {
			return fmt.Errorf("failed to open cloud writer for %s: %w", object, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to upload %s: %w", object, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to upload %s: %w", object, err)
		}
	}
	return nil
}

// ReadTile loads a previously written tile unit, transparently decompressing
// .json.zst files. Used by consumers and the test suite.
func (s *Store) ReadTile(subdir string, key models.TileKey) (*models.Tile, error) {
	var tile models.Tile
	if err := s.readJSON(filepath.Join(subdir, key.String()+s.ext()), &tile); err != nil {
		return nil, err
	}
	return &tile, nil
}

// ReadIndex loads a previously written tile index.
func (s *Store) ReadIndex(subdir string) (*models.TileIndex, error) {
	var index models.TileIndex
	if err := s.readJSON(filepath.Join(subdir, "index"+s.ext()), &index); err != nil {
		return nil, err
	}
	return &index, nil
}

func (s *Store) readJSON(relPath string, v interface{}) error {
	fullPath := filepath.Join(s.root, relPath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fullPath, err)
	}
	if strings.HasSuffix(fullPath, ".zst") {
		data, err = decompress(data)
		if err != nil {
			return fmt.Errorf("failed to decompress %s: %w", fullPath, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", fullPath, err)
	}
	return nil
}

// WriteFileAtomic writes data to path through a temp file in the destination
// directory followed by a rename, creating parent directories as needed. A
// crash mid-write leaves only the temp file behind, never a truncated unit.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// WriteJSONFileAtomic marshals v and writes it atomically, for units living
// outside a store root such as the canonical dataset rewritten by merge.
func WriteJSONFileAtomic(path string, v interface{}, indent bool) error {
	data, err := encodeJSON(v, indent)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func encodeJSON(v interface{}, indent bool) ([]byte, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode output unit: %w", err)
	}
	return data, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to compress output unit: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress output unit: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(dec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
