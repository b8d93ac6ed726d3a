package jsonstore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Token string `json:"token"`
	N     int    `json:"n"`
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Save(fs, "/home/u/.tada/creds.json", record{Token: "abc", N: 2}, 0o600))

	var got record
	found, err := Load(fs, "/home/u/.tada/creds.json", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{Token: "abc", N: 2}, got)

	info, err := fs.Stat("/home/u/.tada/creds.json")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestLoadMissing(t *testing.T) {
	var got record
	found, err := Load(afero.NewMemMapFs(), "/nope.json", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{"), 0o600))
	var got record
	_, err := Load(fs, "/bad.json", &got)
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, Save(fs, "/a.json", record{}, 0o600))
	require.NoError(t, Remove(fs, "/a.json"))
	require.NoError(t, Remove(fs, "/a.json"), "second remove is a no-op")
	ok, _ := afero.Exists(fs, "/a.json")
	assert.False(t, ok)
}
