// Package storage loads shard data and caches it to disk, the way the
// Rust reference server's frodopir.rs does: check a local cache file
// first, and only hit the backend (S3, or a local directory) when the
// cache is missing. This keeps a slow backend (one the release
// deployment puts behind S3) off the hot path on every restart.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leakcheck/creds-pir/internal/keyword"
	"github.com/leakcheck/creds-pir/internal/shard"
)

// Backend loads the raw record set for a shard id. A local directory
// backend is provided below; a blob-store backend (S3 or similar) can
// implement the same interface without touching the caching logic.
type Backend interface {
	LoadRecords(shardID string) (records []string, m, eleSize, plaintextBits int, err error)
}

// LocalDirBackend reads one JSON file per shard from a directory, each
// holding the fields LoadRecords needs.
type LocalDirBackend struct {
	Dir string
}

type localShardFile struct {
	Records       []string `json:"records"`
	M             int      `json:"m"`
	EleSize       int      `json:"ele_size"`
	PlaintextBits int      `json:"plaintext_bits"`
}

func (b *LocalDirBackend) LoadRecords(shardID string) ([]string, int, int, int, error) {
	path := filepath.Join(b.Dir, shardID+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("storage: reading %s: %w", path, err)
	}
	var f localShardFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, 0, 0, 0, fmt.Errorf("storage: parsing %s: %w", path, err)
	}
	return f.Records, f.M, f.EleSize, f.PlaintextBits, nil
}

// Metadata is the cached, derived state for one shard: its full PIR
// shard (database + published parameters) and its local keyword index.
type Metadata struct {
	Shard *shard.Shard
	HPT   *keyword.LocalHashPrefixTable
}

type metadataFile struct {
	ShardID       string   `json:"shard_id"`
	Records       []string `json:"records"`
	M             int      `json:"m"`
	EleSize       int      `json:"ele_size"`
	PlaintextBits int      `json:"plaintext_bits"`
	Dim           int      `json:"dim"`
	PrefixBits    int      `json:"prefix_bits"`
}

// CachePath returns the metadata cache file path for shardID under dir.
func CachePath(dir, shardID string) string {
	return filepath.Join(dir, shardID+".metadata.json")
}

// LoadOrBuild returns shardID's cached metadata if present, otherwise
// loads the raw records from backend, builds the shard's public
// parameters and keyword index, and writes the cache for next time.
func LoadOrBuild(backend Backend, cacheDir, shardID string, dim, prefixBits int) (*Metadata, error) {
	cachePath := CachePath(cacheDir, shardID)
	if raw, err := os.ReadFile(cachePath); err == nil {
		return rebuildFromCache(raw)
	}

	records, m, eleSize, plaintextBits, err := backend.LoadRecords(shardID)
	if err != nil {
		return nil, err
	}
	meta, err := build(shardID, records, m, eleSize, plaintextBits, dim, prefixBits)
	if err != nil {
		return nil, err
	}
	if err := writeCache(cachePath, shardID, records, m, eleSize, plaintextBits, dim, prefixBits); err != nil {
		return nil, err
	}
	return meta, nil
}

func build(shardID string, records []string, m, eleSize, plaintextBits, dim, prefixBits int) (*Metadata, error) {
	s, err := shard.New(shardID, records, m, eleSize, plaintextBits, dim)
	if err != nil {
		return nil, err
	}
	hpt, err := keyword.NewLocalHashPrefixTable(s.Entries(), prefixBits)
	if err != nil {
		return nil, err
	}
	return &Metadata{Shard: s, HPT: hpt}, nil
}

func rebuildFromCache(raw []byte) (*Metadata, error) {
	var f metadataFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("storage: parsing cache: %w", err)
	}
	return build(f.ShardID, f.Records, f.M, f.EleSize, f.PlaintextBits, f.Dim, f.PrefixBits)
}

func writeCache(path, shardID string, records []string, m, eleSize, plaintextBits, dim, prefixBits int) error {
	f := metadataFile{
		ShardID: shardID, Records: records, M: m, EleSize: eleSize,
		PlaintextBits: plaintextBits, Dim: dim, PrefixBits: prefixBits,
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
