package matcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validData = `{
  "version": 1,
  "characters": [
    {"character": "一", "medians": [[[0, 128], [256, 128]]]},
    {"character": "丨", "medians": [[[128, 0], [128, 256]]]}
  ]
}`

func TestParseData(t *testing.T) {
	df, err := ParseData([]byte(validData))
	require.NoError(t, err)
	assert.Equal(t, 1, df.Version)
	require.Len(t, df.Characters, 2)
	assert.Equal(t, "一", df.Characters[0].Character)
	require.Len(t, df.Characters[0].Medians, 1)
	assert.Len(t, df.Characters[0].Medians[0], 2)
}

func TestParseDataRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing version", `{"characters": []}`},
		{"missing characters", `{"version": 1}`},
		{"version zero", `{"version": 0, "characters": []}`},
		{"character without medians", `{"version": 1, "characters": [{"character": "x"}]}`},
		{"empty character string", `{"version": 1, "characters": [{"character": "", "medians": [[[0,0]]]}]}`},
		{"empty medians", `{"version": 1, "characters": [{"character": "x", "medians": []}]}`},
		{"point with one coordinate", `{"version": 1, "characters": [{"character": "x", "medians": [[[1]]]}]}`},
		{"string coordinates", `{"version": 1, "characters": [{"character": "x", "medians": [[["a", "b"]]]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseData([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParseDataRejectsNewerVersion(t *testing.T) {
	_, err := ParseData([]byte(`{"version": 99, "characters": []}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.json")
	require.NoError(t, os.WriteFile(path, []byte(validData), 0o644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
