package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo stamps the connection with process identity so
// server-side query logs can attribute traffic. role is the process
// role ("api", "audit", "migrate"); tag is the build or deploy tag
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	var info clickhouse.ClientInfo
	add := func(name, version string) {
		info.Products = append(info.Products, struct{ Name, Version string }{
			Name:    name,
			Version: strings.TrimSpace(version),
		})
	}

	host, _ := os.Hostname()
	add("qbank", tag)
	add("role", role)
	add("go", runtime.Version())
	add("commit", buildRevision())
	add("host", host)
	return info
}

// buildRevision reports the short vcs sha baked into the binary
func buildRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
