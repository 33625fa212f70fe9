package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

func TestSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	body := `[{"id":"a1","total":10.5,"owner":"ignored"},{"id":"a2"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := NewSource[account](path).DeserializeList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []account{{ID: "a1", Total: 10.5}, {ID: "a2"}}, out)
}

func TestSource_Null(t *testing.T) {
	out, err := NewReaderSource[account](strings.NewReader("null")).DeserializeList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestSource_Errors(t *testing.T) {
	_, err := NewSource[account](filepath.Join(t.TempDir(), "missing.json")).DeserializeList(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewReaderSource[account](strings.NewReader(`{"id":"not a list"}`)).DeserializeList(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
