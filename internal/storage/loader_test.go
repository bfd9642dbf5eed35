package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeShardFile(t *testing.T, dir, shardID string, n, byteLen int) []string {
	t.Helper()
	records := make([]string, n)
	for i := range records {
		buf := make([]byte, byteLen)
		_, err := rand.Read(buf)
		require.NoError(t, err)
		records[i] = base64.StdEncoding.EncodeToString(buf)
	}
	f := localShardFile{Records: records, M: n, EleSize: byteLen * 8, PlaintextBits: 10}
	raw, err := json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, shardID+".json"), raw, 0o644))
	return records
}

func TestLoadOrBuildColdThenCached(t *testing.T) {
	dataDir := t.TempDir()
	cacheDir := t.TempDir()

	records := writeShardFile(t, dataDir, "shard-a", 6, 32)
	backend := &LocalDirBackend{Dir: dataDir}

	meta, err := LoadOrBuild(backend, cacheDir, "shard-a", 64, 20)
	require.NoError(t, err)
	require.Equal(t, records, meta.Shard.Entries())
	require.Equal(t, 6, meta.HPT.Len())

	_, err = os.Stat(CachePath(cacheDir, "shard-a"))
	require.NoError(t, err)

	// Remove the backend's source file entirely: a cache hit must not
	// need it.
	require.NoError(t, os.Remove(filepath.Join(dataDir, "shard-a.json")))

	meta2, err := LoadOrBuild(backend, cacheDir, "shard-a", 64, 20)
	require.NoError(t, err)
	require.Equal(t, records, meta2.Shard.Entries())
}

func TestLoadOrBuildMissingBackendFile(t *testing.T) {
	dataDir := t.TempDir()
	cacheDir := t.TempDir()
	backend := &LocalDirBackend{Dir: dataDir}

	_, err := LoadOrBuild(backend, cacheDir, "does-not-exist", 64, 20)
	require.Error(t, err)
}
