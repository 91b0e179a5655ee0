// Package version exposes the build identity stamped in at link time
package version

// Release builds override these with
// -ldflags "-X 'qbank/internal/core/version.tag=v1.4.0' -X 'qbank/internal/core/version.commit=abcd123'"
var (
	tag    = "dev"
	commit = "none"
	date   = "unknown"
)

// BuildInfo identifies a running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info reports the identity of this build
func Info() BuildInfo {
	return BuildInfo{
		Service: "qbank-api",
		Version: tag,
		Commit:  commit,
		Date:    date,
	}
}
