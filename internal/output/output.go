// Package output persists rendered trees and reports where they were written.
package output

import (
	"fmt"
	"io"
	"os"
)

const (
	outputFilePermissions = 0o644

	// confirmationFormat is printed once after the tree file has been written.
	confirmationFormat = "Folder structure written to %q\n"

	errorWriteTreeFormat    = "writing tree to %s: %w"
	errorConfirmationFormat = "printing confirmation: %w"
)

// WriteTree creates or truncates outputPath and writes renderedTree to it in a single write.
func WriteTree(outputPath string, renderedTree string) error {
	if writeError := os.WriteFile(outputPath, []byte(renderedTree), outputFilePermissions); writeError != nil {
		return fmt.Errorf(errorWriteTreeFormat, outputPath, writeError)
	}
	return nil
}

// Confirm prints the single confirmation line naming outputPath.
func Confirm(writer io.Writer, outputPath string) error {
	if _, printError := fmt.Fprintf(writer, confirmationFormat, outputPath); printError != nil {
		return fmt.Errorf(errorConfirmationFormat, printError)
	}
	return nil
}
