// file: internal/backup/backup.go
// version: 2.0.0
// guid: 8f9e0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

// Package backup archives saved progress as gzip-compressed tarballs that
// restore into any Store backend.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	ulid "github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/jdfalk/cfr-navigator/internal/database"
)

const (
	manifestName = "manifest.json"
	entriesName  = "progress.json"
	fileSuffix   = ".tar.gz"

	formatVersion = 1
)

// ErrInvalidArchive is returned when a file is not a progress backup.
var ErrInvalidArchive = errors.New("not a progress backup")

// Info describes a backup file on disk.
type Info struct {
	Filename     string    `json:"filename"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	DatabaseType string    `json:"database_type"`
	Entries      int       `json:"entries"`
	CreatedAt    time.Time `json:"created_at"`
}

// Manifest is stored alongside the entries in every archive.
type Manifest struct {
	Version      int       `json:"version"`
	DatabaseType string    `json:"database_type"`
	Entries      int       `json:"entries"`
	CreatedAt    time.Time `json:"created_at"`
}

// Config holds backup configuration
type Config struct {
	Dir              string
	MaxBackups       int // 0 keeps every backup
	CompressionLevel int
}

// DefaultConfig returns default backup configuration
func DefaultConfig() Config {
	return Config{
		Dir:              "backups",
		MaxBackups:       10,
		CompressionLevel: gzip.BestCompression,
	}
}

// Create writes every entry in store to a new archive in cfg.Dir, then prunes
// the oldest archives beyond cfg.MaxBackups.
func Create(store database.Store, dbType string, cfg Config) (*Info, error) {
	entries, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	// ulid keeps names unique and sortable within the same second
	now := time.Now().UTC()
	filename := fmt.Sprintf("progress_%s_%s%s", now.Format("20060102_150405"), ulid.Make().String(), fileSuffix)
	path := filepath.Join(cfg.Dir, filename)

	manifest := Manifest{
		Version:      formatVersion,
		DatabaseType: dbType,
		Entries:      len(entries),
		CreatedAt:    now,
	}
	if err := writeArchive(path, cfg.CompressionLevel, manifest, entries); err != nil {
		os.Remove(path)
		return nil, err
	}

	info, err := describe(path, manifest)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", info.Path).Int("entries", info.Entries).Msg("progress backup created")

	if err := prune(cfg.Dir, cfg.MaxBackups); err != nil {
		log.Warn().Err(err).Str("dir", cfg.Dir).Msg("failed to prune old backups")
	}
	return info, nil
}

func writeArchive(path string, level int, manifest Manifest, entries []database.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	gzipWriter, err := gzip.NewWriterLevel(file, level)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tarWriter := tar.NewWriter(gzipWriter)

	if entries == nil {
		entries = []database.Entry{}
	}
	for _, member := range []struct {
		name string
		v    any
	}{
		{manifestName, manifest},
		{entriesName, entries},
	} {
		data, err := json.MarshalIndent(member.v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", member.name, err)
		}
		header := &tar.Header{
			Name:    member.name,
			Mode:    0644,
			Size:    int64(len(data)),
			ModTime: manifest.CreatedAt,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", member.name, err)
		}
		if _, err := tarWriter.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", member.name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return file.Close()
}

// Read returns the manifest and entries stored in the archive at path.
func Read(path string) (Manifest, []database.Entry, error) {
	var manifest Manifest

	file, err := os.Open(path)
	if err != nil {
		return manifest, nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return manifest, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer gzipReader.Close()

	var entries []database.Entry
	var sawManifest, sawEntries bool

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return manifest, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}

		switch header.Name {
		case manifestName:
			if err := json.NewDecoder(tarReader).Decode(&manifest); err != nil {
				return manifest, nil, fmt.Errorf("%w: bad manifest: %v", ErrInvalidArchive, err)
			}
			sawManifest = true
		case entriesName:
			if err := json.NewDecoder(tarReader).Decode(&entries); err != nil {
				return manifest, nil, fmt.Errorf("%w: bad entries: %v", ErrInvalidArchive, err)
			}
			sawEntries = true
		default:
			log.Warn().Str("member", header.Name).Str("file", path).Msg("ignoring unknown backup member")
		}
	}

	if !sawManifest || !sawEntries {
		return manifest, nil, fmt.Errorf("%w: missing %s or %s", ErrInvalidArchive, manifestName, entriesName)
	}
	if manifest.Version != formatVersion {
		return manifest, nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidArchive, manifest.Version)
	}
	if manifest.Entries != len(entries) {
		return manifest, nil, fmt.Errorf("%w: manifest lists %d entries, archive holds %d", ErrInvalidArchive, manifest.Entries, len(entries))
	}
	return manifest, entries, nil
}

// Restore loads the archive at path into store and returns how many entries
// were written. With replace set, existing entries are removed first.
func Restore(path string, store database.Store, replace bool) (int, error) {
	_, entries, err := Read(path)
	if err != nil {
		return 0, err
	}

	if replace {
		existing, err := store.List("")
		if err != nil {
			return 0, fmt.Errorf("failed to read progress: %w", err)
		}
		for _, e := range existing {
			if err := store.Delete(e.Key); err != nil {
				return 0, fmt.Errorf("failed to clear %s: %w", e.Key, err)
			}
		}
	}

	for i, e := range entries {
		if err := store.Set(e.Key, e.Value); err != nil {
			return i, fmt.Errorf("failed to restore %s: %w", e.Key, err)
		}
	}
	log.Info().Str("file", path).Int("entries", len(entries)).Bool("replace", replace).Msg("progress restored")
	return len(entries), nil
}

// List returns the backups in dir, oldest first. A missing directory holds
// no backups. Files that cannot be read as backups are skipped.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		manifest, _, err := Read(path)
		if err != nil {
			log.Debug().Err(err).Str("file", path).Msg("skipping unreadable backup")
			continue
		}
		info, err := describe(path, manifest)
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].Filename < backups[j].Filename })
	return backups, nil
}

// Delete deletes a specific backup file
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

func describe(path string, manifest Manifest) (*Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup file: %w", err)
	}
	checksum, err := fileChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}
	return &Info{
		Filename:     filepath.Base(path),
		Path:         path,
		Size:         fileInfo.Size(),
		Checksum:     checksum,
		DatabaseType: manifest.DatabaseType,
		Entries:      manifest.Entries,
		CreatedAt:    manifest.CreatedAt,
	}, nil
}

// fileChecksum calculates the SHA256 checksum of a file
func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// prune removes the oldest backups beyond max.
func prune(dir string, max int) error {
	if max <= 0 {
		return nil
	}
	backups, err := List(dir)
	if err != nil {
		return err
	}
	for i := 0; i < len(backups)-max; i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			log.Warn().Err(err).Str("file", backups[i].Filename).Msg("failed to delete old backup")
			continue
		}
		log.Debug().Str("file", backups[i].Filename).Msg("pruned old backup")
	}
	return nil
}
