package commands

// TreeBuilder renders directory trees as box-drawn text, skipping every entry named in Exclusions.
type TreeBuilder struct {
	Exclusions ExclusionSet
	// Warn receives one message per directory that could not be listed. Nil disables reporting.
	Warn func(message string)
}

// NewTreeBuilder returns a TreeBuilder using the provided exclusion set.
func NewTreeBuilder(exclusions ExclusionSet) *TreeBuilder {
	return &TreeBuilder{Exclusions: exclusions}
}
