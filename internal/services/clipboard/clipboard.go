// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	supported bool
	writeAll  func(text string) error
}

// NewService constructs a clipboard service backed by the operating system clipboard.
func NewService() *Service {
	return &Service{supported: !clipboard.Unsupported, writeAll: clipboard.WriteAll}
}

// Copy writes text to the system clipboard. It fails when no clipboard utility is available.
func (service *Service) Copy(text string) error {
	if !service.supported {
		return errors.New("clipboard unsupported on this system")
	}
	if writeError := service.writeAll(text); writeError != nil {
		return fmt.Errorf("write clipboard: %w", writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
