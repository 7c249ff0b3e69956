package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LinkableTypes is the set of field-type names that refer to another sheet.
// A column whose type is in the set holds row indexes into the sheet of the
// same name.
type LinkableTypes struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewLinkableTypes returns a set holding names. Blank names are ignored.
func NewLinkableTypes(names ...string) *LinkableTypes {
	lt := &LinkableTypes{names: make(map[string]struct{}, len(names))}
	lt.Register(names...)
	return lt
}

// Register adds names to the set.
func (lt *LinkableTypes) Register(names ...string) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		lt.names[n] = struct{}{}
	}
}

// Contains reports whether typeName links to another sheet.
// A nil set contains nothing.
func (lt *LinkableTypes) Contains(typeName string) bool {
	if lt == nil || typeName == "" {
		return false
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	_, ok := lt.names[typeName]
	return ok
}

// All returns the registered names sorted alphabetically.
func (lt *LinkableTypes) All() []string {
	if lt == nil {
		return nil
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	out := make([]string, 0, len(lt.names))
	for n := range lt.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered names.
func (lt *LinkableTypes) Len() int {
	if lt == nil {
		return 0
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return len(lt.names)
}

// LoadLinkableTypes reads a list of sheet names from a JSON or YAML file
// holding a single array of strings. The format is chosen by extension.
func LoadLinkableTypes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read linkable types: %w", err)
	}

	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &names)
	default:
		err = json.Unmarshal(data, &names)
	}
	if err != nil {
		return nil, fmt.Errorf("decode linkable types %s: %w", filepath.Base(path), err)
	}
	return names, nil
}
