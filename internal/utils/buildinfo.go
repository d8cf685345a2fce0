package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// Version may be stamped at build time with -ldflags "-X github.com/tyemirov/dirtree/internal/utils.Version=v1.2.3".
var Version = EmptyString

// GetApplicationVersion reports the stamped version, then the module version from
// build info, then the output of git describe when run inside a checkout.
func GetApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, lookupError := findRepositoryDirectory(".")
	if lookupError != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findRepositoryDirectory walks upward from startDirectory until it finds a directory containing .git.
func findRepositoryDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return EmptyString, fmt.Errorf("resolve absolute path for %s: %w", startDirectory, absoluteError)
	}

	currentDirectory := absoluteStartDirectory
	for {
		gitPath := filepath.Join(currentDirectory, GitDirectoryName)
		if fileInformation, statError := os.Stat(gitPath); statError == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}
	return EmptyString, fmt.Errorf("%s directory not found in or above %s", GitDirectoryName, absoluteStartDirectory)
}
