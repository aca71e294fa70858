package app

// Build metadata, set at link time via -ldflags.
var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)
