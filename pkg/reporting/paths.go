package reporting

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/data"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns results/<SYMBOL>, with index carets stripped
func (p *DefaultPathManager) GetDefaultOutputDir(symbol string) string {
	name := data.SymbolDirName(symbol)
	if strings.TrimSpace(name) == "" {
		name = "UNKNOWN"
	}
	return filepath.Join("results", name)
}

// EnsureDirectoryExists creates the parent directory of path
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir is GetDefaultOutputDir on a default path manager
func DefaultOutputDir(symbol string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(symbol)
}
