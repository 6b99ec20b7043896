package main

// Release metadata, stamped by the build.
var (
	// Version is the semantic version of the binary. Release builds set it
	// with -ldflags "-X main.Version=<version>".
	Version = "dev"

	// GitCommit is the commit the binary was built from, set with
	// -ldflags "-X main.GitCommit=<commit>".
	GitCommit = ""

	// BuildDate is the RFC3339 build timestamp, set with
	// -ldflags "-X main.BuildDate=<date>".
	BuildDate = ""
)
