package handler

import (
	"os"
)

// Verbosity controls how much of a captured trace is rendered.
type Verbosity int

const (
	// VerbosityOmit renders no trace. Handlers also skip capture.
	VerbosityOmit Verbosity = iota
	// VerbosityFrames renders function names and locations.
	VerbosityFrames
	// VerbosityFull adds source excerpts around each frame.
	VerbosityFull
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityFrames:
		return "frames"
	case VerbosityFull:
		return "full"
	default:
		return "omit"
	}
}

// Environment keys read by the handlers' hooks.
const (
	EnvLibBacktrace = "REPORT_LIB_BACKTRACE"
	EnvBacktrace    = "REPORT_BACKTRACE"
	EnvSpanTrace    = "REPORT_SPANTRACE"
	EnvShowHidden   = "REPORT_SHOW_HIDDEN"
	EnvNoColor      = "NO_COLOR"
)

// ParseVerbosity maps a setting to a Verbosity: "" and "0" omit, "full"
// selects full output and any other value renders frames.
func ParseVerbosity(s string) Verbosity {
	switch s {
	case "", "0":
		return VerbosityOmit
	case "full":
		return VerbosityFull
	default:
		return VerbosityFrames
	}
}

// VerbosityFromEnv reads REPORT_LIB_BACKTRACE, falling back to
// REPORT_BACKTRACE.
func VerbosityFromEnv() Verbosity {
	if v, ok := os.LookupEnv(EnvLibBacktrace); ok {
		return ParseVerbosity(v)
	}
	return ParseVerbosity(os.Getenv(EnvBacktrace))
}

// SpanTraceFromEnv reports whether span trace capture is enabled, using def
// when REPORT_SPANTRACE is unset.
func SpanTraceFromEnv(def bool) bool {
	if v, ok := os.LookupEnv(EnvSpanTrace); ok {
		return v != "0"
	}
	return def
}

// ShowHiddenFromEnv reports whether frame filtering is disabled.
func ShowHiddenFromEnv() bool {
	switch os.Getenv(EnvShowHidden) {
	case "1", "on", "y":
		return true
	}
	return false
}
