package commands

import (
	"sort"

	"github.com/tyemirov/dirtree/internal/utils"
)

// defaultExcludedNames lists version-control, dependency, cache and editor directories
// together with the tool's own output and configuration files.
var defaultExcludedNames = []string{
	".git",
	".gitignore",
	".vscode",
	".vscodeignore",
	"README.md",
	"__pycache__",
	"codebase",
	"node_modules",
	"out",
	"requirements.txt",
	"sandbox",
	"venv",
	"xdata",
	utils.DefaultOutputFileName,
	utils.LocalConfigFileName,
}

// ExclusionSet holds entry names that are never rendered or traversed.
// Names are compared exactly against a single path segment, never against a path.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds a set from names. Surrounding whitespace is trimmed and empty names are dropped.
func NewExclusionSet(names ...string) ExclusionSet {
	normalizedNames := utils.NormalizeNames(names)
	set := ExclusionSet{names: make(map[string]struct{}, len(normalizedNames))}
	for _, name := range normalizedNames {
		set.names[name] = struct{}{}
	}
	return set
}

// DefaultExclusions returns the built-in exclusion set.
func DefaultExclusions() ExclusionSet {
	return NewExclusionSet(defaultExcludedNames...)
}

// Contains reports whether name is excluded.
func (set ExclusionSet) Contains(name string) bool {
	_, excluded := set.names[name]
	return excluded
}

// Union returns a new set holding the members of both sets.
func (set ExclusionSet) Union(other ExclusionSet) ExclusionSet {
	return NewExclusionSet(append(set.Names(), other.Names()...)...)
}

// Names returns the members in ascending order.
func (set ExclusionSet) Names() []string {
	names := make([]string, 0, len(set.names))
	for name := range set.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of members.
func (set ExclusionSet) Len() int {
	return len(set.names)
}
