package common

import (
	"fmt"
	"io"
	"runtime"
)

const (
	// Application information
	ProjectName = "Lump-Sum vs DCA Backtest"
	ProjectRepo = "github.com/ducminhle1904/lumpsum-dca-backtest"
)

// Build information, set via -ldflags "-X .../cmd/common.Version=..."
var (
	Version     = "1.0.0"
	BuildDate   = "unknown"
	BuildCommit = "dev"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	ProjectName  string `json:"project_name"`
	Version      string `json:"version"`
	BuildDate    string `json:"build_date"`
	BuildCommit  string `json:"build_commit"`
	GoVersion    string `json:"go_version"`
	Architecture string `json:"architecture"`
	Repository   string `json:"repository"`
}

// GetVersionInfo returns complete version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		ProjectName:  ProjectName,
		Version:      Version,
		BuildDate:    BuildDate,
		BuildCommit:  BuildCommit,
		GoVersion:    runtime.Version(),
		Architecture: runtime.GOOS + "/" + runtime.GOARCH,
		Repository:   ProjectRepo,
	}
}

// PrintVersion prints version information in a formatted way
func PrintVersion(w io.Writer, appName string) {
	info := GetVersionInfo()

	fmt.Fprintf(w, "%s v%s\n", appName, info.Version)
	fmt.Fprintf(w, "Build: %s (%s)\n", info.BuildCommit, info.BuildDate)
	fmt.Fprintf(w, "Go: %s (%s)\n", info.GoVersion, info.Architecture)
}

// PrintDetailedVersion prints detailed version information
func PrintDetailedVersion(w io.Writer, appName string) {
	info := GetVersionInfo()

	fmt.Fprintf(w, "╔═══════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║           VERSION INFORMATION         ║\n")
	fmt.Fprintf(w, "╠═══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ Application: %-24s ║\n", appName)
	fmt.Fprintf(w, "║ Version:     %-24s ║\n", info.Version)
	fmt.Fprintf(w, "║ Repository:  %-24s ║\n", info.Repository)
	fmt.Fprintf(w, "║ Build Date:  %-24s ║\n", info.BuildDate)
	fmt.Fprintf(w, "║ Build Hash:  %-24s ║\n", info.BuildCommit)
	fmt.Fprintf(w, "║ Go Version:  %-24s ║\n", info.GoVersion)
	fmt.Fprintf(w, "║ Platform:    %-24s ║\n", info.Architecture)
	fmt.Fprintf(w, "╚═══════════════════════════════════════╝\n")
}

// GetFullVersion returns a full version string with build info
func GetFullVersion() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s-%s (%s)", info.Version, info.BuildCommit, info.BuildDate)
}

// IsDevBuild returns true if this is a development build
func IsDevBuild() bool {
	return BuildCommit == "dev"
}
