/*
Package log provides structured logging for chartsync using zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific loggers, configurable log levels, and
helper functions for common logging patterns. All logs include
timestamps and support filtering by severity level.

Logs go to stderr by default. Stdout is reserved for machine-readable
reconciliation results, so a caller can pipe chartsync's reports into
another tool while the diagnostic stream stays separate.

# Architecture

	┌──────────────────── LOGGING SYSTEM ────────────────────┐
	│                                                        │
	│  ┌──────────────────────────────────────────┐          │
	│  │            Global Logger                 │          │
	│  │  - Zerolog instance                      │          │
	│  │  - Initialized via log.Init()            │          │
	│  │  - Thread-safe for concurrent use        │          │
	│  └──────────────────┬───────────────────────┘          │
	│                     │                                  │
	│  ┌──────────────────▼───────────────────────┐          │
	│  │           Configuration                  │          │
	│  │  - Level: debug/info/warn/error          │          │
	│  │  - Format: JSON or console (human)       │          │
	│  │  - Output: stderr, file, custom writer   │          │
	│  └──────────────────┬───────────────────────┘          │
	│                     │                                  │
	│  ┌──────────────────▼───────────────────────┐          │
	│  │         Context Loggers                  │          │
	│  │  - WithComponent("reconciler")           │          │
	│  │  - WithRelease("myapp", "default")       │          │
	│  │  - WithRun("run-abc123")                 │          │
	│  └──────────────────┬───────────────────────┘          │
	│                     │                                  │
	│  ┌──────────────────▼───────────────────────┐          │
	│  │            Log Output                    │          │
	│  │                                          │          │
	│  │  {                                       │          │
	│  │    "level": "info",                      │          │
	│  │    "component": "reconciler",            │          │
	│  │    "release": "myapp",                   │          │
	│  │    "time": "2024-10-13T10:30:00Z",       │          │
	│  │    "message": "Release deployed"         │          │
	│  │  }                                       │          │
	│  └──────────────────────────────────────────┘          │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all chartsync packages
  - Thread-safe concurrent writes

Log Levels:
  - Debug: Detailed debugging information
  - Info: General informational messages
  - Warn: Warning messages (potential issues)
  - Error: Error messages (operation failed)
  - Fatal: Critical errors (process exits)

Configuration:
  - Level: Filter messages below threshold
  - JSONOutput: JSON vs human-readable console
  - Output: io.Writer for log destination (stderr, file)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithRelease: Add release name and namespace context
  - WithRun: Add reconciliation run ID context

# Usage

Initializing the Logger:

	import "github.com/chartsync/chartsync/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stderr,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stderr,
	})

Simple Logging:

	log.Info("Watch loop started")
	log.Debug("Probing helm version")
	log.Warn("Release left unconverged, will retry next cycle")
	log.Error("Failed to open journal")
	log.Fatal("Cannot start without a helm binary") // Exits process

Structured Logging:

	log.Logger.Info().
		Str("release", "myapp").
		Str("action", "deploy").
		Msg("Release converged")

	log.Logger.Error().
		Err(err).
		Str("release", "myapp").
		Msg("Reconciliation failed")

Component Loggers:

	// Create component-specific logger
	engineLog := log.WithComponent("reconciler")
	engineLog.Info().Msg("Session probed")

	// Release-scoped logger for one reconciliation run
	runLog := log.WithRelease("myapp", "default")
	runLog.Info().Str("action", "deploy").Msg("Deploying release")

# Integration Points

This package integrates with:

  - pkg/reconciler: Logs decisions, actions, and run outcomes
  - pkg/api: Logs server lifecycle and request failures
  - pkg/journal: Logs append failures without failing the run
  - cmd/chartsync: Initializes the logger from CLI flags

# Log Output Examples

JSON Format (Production):

	{"level":"info","component":"reconciler","release":"myapp","namespace":"default","time":"2024-10-13T10:30:00Z","message":"Release deployed"}
	{"level":"warn","component":"loop","release":"myapp","time":"2024-10-13T10:30:01Z","message":"Release left unconverged, will retry next cycle"}
	{"level":"error","component":"reconciler","release":"myapp","error":"Failure when executing Helm command. Exited 1.","time":"2024-10-13T10:30:02Z","message":"Reconciliation failed"}

Console Format (Development):

	10:30:00 INF Release deployed component=reconciler release=myapp namespace=default
	10:30:01 WRN Release left unconverged, will retry next cycle component=loop release=myapp
	10:30:02 ERR Reconciliation failed component=reconciler release=myapp error="Failure when executing Helm command. Exited 1."

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance
  - Initialized once at application start
  - Accessible from all packages without passing
  - Simplifies logging in deeply nested calls

Context Logger Pattern:
  - Create child loggers with context fields
  - Pass context loggers to functions
  - Automatically includes context in all logs
  - Avoids repetitive field specification

Error Logging Pattern:
  - Always use .Err(err) for error objects
  - Consistent error format across the codebase
  - Enables error tracking and alerting

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create component-specific loggers
  - Include context (release, namespace, run ID)

Don't:
  - Log repository passwords or values that may hold secrets
  - Use Debug level in production
  - Write logs to stdout (it carries reconciliation reports)
  - Concatenate strings (use .Str, .Int)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - 12-Factor App Logs: https://12factor.net/logs
*/
package log
