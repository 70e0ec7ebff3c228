package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/sinklog/config"
	"github.com/philipp01105/sinklog/core"
)

func TestFile_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path})
	require.NoError(t, err)

	d.Log(core.ErrorLevel, "DB", "query failed", core.Prop("table", "users"), nil)
	d.LogBatch([]core.Entry{
		core.NewEntry(core.WarningLevel, "DB", "slow", nil, nil),
		core.NewEntry(core.WarningLevel, "DB", "slower", nil, nil),
	})
	require.NoError(t, d.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "query failed", first["message"])
	assert.Equal(t, "DB", first["category"])
	assert.Contains(t, lines[2], `"message":"slower"`)
}

func TestFile_TextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path, Format: "text"})
	require.NoError(t, err)

	d.Log(core.InfoLevel, "", "hello", nil, nil)
	require.NoError(t, d.Dispose())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[INFO] hello\n", string(data))
}

func TestFile_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoPath)

	_, err = FromConfiguration(config.Default())
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestFile_FromConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.log")
	cfg := config.Default()
	cfg.Options = map[string]string{"path": path, "maxSizeMB": "5", "format": "text"}

	d, err := FromConfiguration(cfg)
	require.NoError(t, err)
	defer d.Dispose()

	assert.Equal(t, path, d.Path())
	assert.Equal(t, 5, d.out.MaxSize)
	assert.Equal(t, "FileDestinationConfiguration", d.ConfigurationName())
}

func TestFile_Rotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.log")
	d, err := New(Config{Path: path})
	require.NoError(t, err)

	d.Log(core.ErrorLevel, "", "before", nil, nil)
	require.NoError(t, d.Rotate())
	d.Log(core.ErrorLevel, "", "after", nil, nil)
	require.NoError(t, d.Dispose())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after")
	assert.NotContains(t, string(data), "before")
}
