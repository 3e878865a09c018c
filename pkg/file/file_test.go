package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_WriteAndReadRaw(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	require.NoError(t, fs.WriteFileRaw(path, []byte(`{"ok":true}`)))

	data, err := fs.ReadFileRaw(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileService_JsonRoundTrip(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "identity.json")

	in := map[string]string{"station_id": "RS-07"}
	require.NoError(t, fs.WriteJsonFile(path, in))

	var out map[string]string
	require.NoError(t, fs.ReadJsonFile(path, &out))
	assert.Equal(t, in, out)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station:\n  id: RS-09\n"), 0600))

	var out struct {
		Station struct {
			ID string `yaml:"id"`
		} `yaml:"station"`
	}
	require.NoError(t, fs.ReadYamlFile(path, &out))
	assert.Equal(t, "RS-09", out.Station.ID)
}

func TestFileService_ExistsAndRemove(t *testing.T) {
	fs := NewFileService()
	path := filepath.Join(t.TempDir(), "blob")

	exists, err := fs.IsFileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, fs.WriteFileRaw(path, []byte("x")))
	exists, err = fs.IsFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, fs.RemoveFile(path))
	assert.NoError(t, fs.RemoveFile(path))
}
