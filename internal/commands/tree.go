// Package commands contains the directory tree rendering used by the dirtree command.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	lineTerminator      = "\n"

	// errorReadDirectoryFormat is used when a directory cannot be listed for a reason other than permissions.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorBuildTreeFormat is used when building the tree for a root fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// warningUnreadableDirectoryFormat is reported for every directory skipped because of permissions.
	warningUnreadableDirectoryFormat = "skipping unreadable directory %s: %v"
)

// SubtreeStatus distinguishes a listed directory from one that could not be read.
type SubtreeStatus int

const (
	// SubtreeListed means the directory was listed; its text may still be empty.
	SubtreeListed SubtreeStatus = iota
	// SubtreeUnreadable means listing was denied and the subtree contributes nothing.
	SubtreeUnreadable
)

// String returns a human-readable status name.
func (status SubtreeStatus) String() string {
	switch status {
	case SubtreeListed:
		return "listed"
	case SubtreeUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Subtree is the rendering of a single directory's descendants.
type Subtree struct {
	Text   string
	Status SubtreeStatus
}

// TreeResult is the rendering of a whole tree together with every directory skipped on the way.
type TreeResult struct {
	Text                  string
	UnreadableDirectories []string
}

// Build renders the children of directoryPath, each line starting with prefix.
// A directory whose listing is denied yields an empty string; any other filesystem error is returned.
func (treeBuilder *TreeBuilder) Build(directoryPath string, prefix string) (string, error) {
	subtree, buildError := treeBuilder.BuildSubtree(directoryPath, prefix)
	if buildError != nil {
		return "", buildError
	}
	return subtree.Text, nil
}

// BuildSubtree is Build with the listing status of directoryPath exposed.
func (treeBuilder *TreeBuilder) BuildSubtree(directoryPath string, prefix string) (Subtree, error) {
	return treeBuilder.renderDirectory(directoryPath, prefix, nil)
}

// BuildResult renders the tree under rootDirectoryPath and collects the paths of unreadable directories.
func (treeBuilder *TreeBuilder) BuildResult(rootDirectoryPath string) (TreeResult, error) {
	var unreadableDirectories []string
	subtree, buildError := treeBuilder.renderDirectory(rootDirectoryPath, "", &unreadableDirectories)
	if buildError != nil {
		return TreeResult{}, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, buildError)
	}
	return TreeResult{Text: subtree.Text, UnreadableDirectories: unreadableDirectories}, nil
}

// renderDirectory lists directoryPath and renders its visible children depth first.
func (treeBuilder *TreeBuilder) renderDirectory(directoryPath string, prefix string, unreadableDirectories *[]string) (Subtree, error) {
	childNames, listError := treeBuilder.visibleChildNames(directoryPath)
	if listError != nil {
		if errors.Is(listError, fs.ErrPermission) {
			treeBuilder.reportUnreadable(directoryPath, listError, unreadableDirectories)
			return Subtree{Status: SubtreeUnreadable}, nil
		}
		return Subtree{}, fmt.Errorf(errorReadDirectoryFormat, directoryPath, listError)
	}

	var rendered strings.Builder
	for childIndex, childName := range childNames {
		isLastChild := childIndex == len(childNames)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		rendered.WriteString(prefix + connector + childName + lineTerminator)

		childPath := filepath.Join(directoryPath, childName)
		if !isDirectory(childPath) {
			continue
		}
		childSubtree, childError := treeBuilder.renderDirectory(childPath, childPrefix, unreadableDirectories)
		if childError != nil {
			return Subtree{}, childError
		}
		rendered.WriteString(childSubtree.Text)
	}

	return Subtree{Text: rendered.String(), Status: SubtreeListed}, nil
}

// visibleChildNames returns the names inside directoryPath that are not excluded, in ascending byte order.
func (treeBuilder *TreeBuilder) visibleChildNames(directoryPath string) ([]string, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}
	childNames := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if treeBuilder.Exclusions.Contains(directoryEntry.Name()) {
			continue
		}
		childNames = append(childNames, directoryEntry.Name())
	}
	sort.Strings(childNames)
	return childNames, nil
}

func (treeBuilder *TreeBuilder) reportUnreadable(directoryPath string, listError error, unreadableDirectories *[]string) {
	if unreadableDirectories != nil {
		*unreadableDirectories = append(*unreadableDirectories, directoryPath)
	}
	if treeBuilder.Warn != nil {
		treeBuilder.Warn(fmt.Sprintf(warningUnreadableDirectoryFormat, directoryPath, listError))
	}
}

// isDirectory follows symbolic links; an entry whose status cannot be read counts as a file.
func isDirectory(path string) bool {
	fileInformation, statError := os.Stat(path)
	return statError == nil && fileInformation.IsDir()
}
