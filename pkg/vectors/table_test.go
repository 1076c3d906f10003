package vectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `name: custom
description: hand written
cases:
  - id: 1
    speed: 50
    strength: 50
    you: {x: 0, y: 0}
    opponent: {x: 5, y: 0}
    guarding: false
    expected: 100
  - id: 2
    speed: 50
    strength: 50
    you: {x: 10, y: 10}
    opponent: {x: 10, y: 10}
    expected: -999
`

func TestNames(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"boundary", "decision"}, names)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		cases int
	}{
		{"boundary", 26},
		{"decision", 33},
		{" Decision ", 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(tt.name)
			require.NoError(t, err)
			assert.Len(t, tbl.Cases, tt.cases)
			assert.NotEmpty(t, tbl.Description)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("missing")
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = Load("")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestLoad_Notes(t *testing.T) {
	tbl, err := Load("boundary")
	require.NoError(t, err)

	noted := make([]int, 0)
	for _, c := range tbl.Cases {
		if c.Note != "" {
			noted = append(noted, c.ID)
		}
	}
	assert.Equal(t, []int{16, 18}, noted)
}

func TestLoadAll(t *testing.T) {
	list, err := LoadAll()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "boundary", list[0].Name)
	assert.Equal(t, "decision", list[1].Name)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(p, []byte(testTable), 0600))

	tbl, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "custom", tbl.Name)
	require.Len(t, tbl.Cases, 2)
	assert.Equal(t, 5.0, tbl.Cases[0].Opponent.X)
	assert.False(t, tbl.Cases[1].Guarding)

	_, err = LoadFile("")
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not yaml", "name: [unclosed"},
		{"no name", "cases:\n  - id: 1\n"},
		{"no cases", "name: empty\n"},
		{"duplicate ids", "name: dup\ncases:\n  - id: 1\n  - id: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			assert.ErrorIs(t, err, ErrInvalidTable)
		})
	}
}

func TestCase_Strike(t *testing.T) {
	tbl, err := Parse([]byte(testTable))
	require.NoError(t, err)

	s := tbl.Cases[0].Strike()
	assert.Equal(t, 50.0, s.Punch.Speed)
	assert.Equal(t, 50.0, s.Punch.Strength)
	assert.Equal(t, 0.0, s.You.X)
	assert.Equal(t, 5.0, s.Opponent.X)
	assert.False(t, s.Guarding)
}
