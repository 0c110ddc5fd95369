package domain

// LogLevel represents the severity of a vertex log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// SpanStageKey is the span attribute naming the pipeline stage a span belongs to.
const SpanStageKey = "stage"

// Pipeline stage names, used for spans and telemetry vertices.
const (
	StageCache     = "cache"
	StageKeys      = "keys"
	StageFetch     = "fetch"
	StageExtract   = "extract"
	StagePlan      = "plan"
	StageConfigure = "configure"
	StageInstall   = "install"
	StageIncludes  = "includes"
)
