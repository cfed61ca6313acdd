// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/kp2vcard/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X github.com/dmitrijs2005/kp2vcard/internal/buildinfo.buildDate=$(date -u +%F) \
//	  -X github.com/dmitrijs2005/kp2vcard/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	buildVersion = notAvailable
	buildDate    = notAvailable
	buildCommit  = notAvailable
)

func valueOrNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// Version returns the release version, or "N/A" for development builds.
func Version() string {
	return valueOrNA(buildVersion)
}

// String renders the three build values on separate lines.
func String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		valueOrNA(buildVersion), valueOrNA(buildDate), valueOrNA(buildCommit))
}

// PrintBuildData writes String to w.
func PrintBuildData(w io.Writer) {
	_, _ = io.WriteString(w, String())
}
