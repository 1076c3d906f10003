package vectors

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mchmarny/punch/pkg/damage"
	"gopkg.in/yaml.v3"
)

const tableExt = ".yaml"

var (
	//go:embed tables/*.yaml
	f embed.FS

	ErrTableNotFound = errors.New("table not found")
	ErrInvalidTable  = errors.New("invalid table")
)

// Case is a single literal test vector.
type Case struct {
	ID       int             `json:"id" yaml:"id"`
	Speed    float64         `json:"speed" yaml:"speed"`
	Strength float64         `json:"strength" yaml:"strength"`
	You      damage.Position `json:"you" yaml:"you"`
	Opponent damage.Position `json:"opponent" yaml:"opponent"`
	Guarding bool            `json:"guarding" yaml:"guarding"`
	Expected float64         `json:"expected" yaml:"expected"`
	Note     string          `json:"note,omitempty" yaml:"note,omitempty"`
}

// Strike converts the case into calculator input.
func (c Case) Strike() damage.Strike {
	return damage.Strike{
		Punch:    damage.Punch{Speed: c.Speed, Strength: c.Strength},
		You:      c.You,
		Opponent: c.Opponent,
		Guarding: c.Guarding,
	}
}

// Table is a named list of cases.
type Table struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Cases       []*Case `json:"cases" yaml:"cases"`
}

// Names returns the sorted names of the embedded tables.
func Names() ([]string, error) {
	entries, err := f.ReadDir("tables")
	if err != nil {
		return nil, fmt.Errorf("reading embedded tables: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != tableExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), tableExt))
	}
	sort.Strings(names)
	return names, nil
}

// Load returns the embedded table with the given name.
func Load(name string) (*Table, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrTableNotFound)
	}

	b, err := f.ReadFile(path.Join("tables", name+tableExt))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing table %s: %w", name, err)
	}
	return t, nil
}

// LoadAll returns every embedded table in name order.
func LoadAll() ([]*Table, error) {
	names, err := Names()
	if err != nil {
		return nil, err
	}

	list := make([]*Table, 0, len(names))
	for _, n := range names {
		t, err := Load(n)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}

// LoadFile reads a table from a YAML file on disk.
func LoadFile(p string) (*Table, error) {
	if p == "" {
		return nil, errors.New("table file path required")
	}

	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading table file %s: %w", p, err)
	}

	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing table file %s: %w", p, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML table.
func Parse(b []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidTable)
	}
	if len(t.Cases) == 0 {
		return fmt.Errorf("%w: %s has no cases", ErrInvalidTable, t.Name)
	}

	seen := make(map[int]bool, len(t.Cases))
	for i, c := range t.Cases {
		if c == nil {
			return fmt.Errorf("%w: %s case at index %d is empty", ErrInvalidTable, t.Name, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %s has duplicate case id %d", ErrInvalidTable, t.Name, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
