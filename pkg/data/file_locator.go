package data

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// CandidatePaths lists where a price file for symbol may live, in lookup order:
//
//	{root}/{SYMBOL}/monthly.{ext}
//	{root}/{kind}/{SYMBOL}/monthly.{ext}
//	{root}/{SYMBOL}.{ext}
//
// Index symbols such as ^IXIC are looked up without the caret.
func (f *DefaultFileLocator) CandidatePaths(dataRoot, kind, symbol string) []string {
	ext := kind
	if ext == "" {
		ext = SourceCSV
	}
	name := SymbolDirName(symbol)

	return []string{
		filepath.Join(dataRoot, name, "monthly."+ext),
		filepath.Join(dataRoot, kind, name, "monthly."+ext),
		filepath.Join(dataRoot, name+"."+ext),
	}
}

// FindDataFile returns the first existing candidate, or "" when there is none
func (f *DefaultFileLocator) FindDataFile(dataRoot, kind, symbol string) string {
	for _, path := range f.CandidatePaths(dataRoot, kind, symbol) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// SymbolDirName turns a symbol into a file-system friendly name
func SymbolDirName(symbol string) string {
	name := strings.ToUpper(strings.TrimSpace(symbol))
	name = strings.TrimPrefix(name, "^")
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(name)
}
