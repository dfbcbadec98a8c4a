// Package version хранит метаданные сборки, которые прошиваются через
// -ldflags "-X dungeon-core/internal/version.BuildDate=...".
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const Name = "dungeon-core"

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от первого релиза ядра.
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

type VersionInfo struct {
	Name       string `json:"name"`
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	GoVersion  string `json:"go"`
	Module     string `json:"module,omitempty"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID переводит дату сборки в номер.
func CalculateBuildID(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}

	// Часы, а не AddDate: обе даты в UTC, переходов на летнее время нет
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info собирает сведения о сборке. Безопасно вызывать в любой момент.
func Info() VersionInfo {
	info := VersionInfo{
		Name:      Name,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Version
		if info.Commit == "" {
			info.Commit = vcsRevision(bi)
		}
	}

	id, err := CalculateBuildID(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

func vcsRevision(bi *debug.BuildInfo) string {
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// String - строка для лога при старте.
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("%s build unknown (%s) %s", info.Name, info.Error, info.GoVersion)
	}
	return fmt.Sprintf(
		"%s build %d (%s) commit[%s] branch[%s] ci[%s] %s",
		info.Name,
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.GoVersion,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
