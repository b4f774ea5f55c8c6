package dirsize

import (
	"log/slog"
	"time"
)

// Engines selectable through Options.Engine.
const (
	// EngineScheduler is the two-pool task scheduler.
	EngineScheduler = "scheduler"
	// EngineFastwalk walks the tree with fastwalk.
	EngineFastwalk = "fastwalk"
)

// Options configures a traversal and CLI behavior.
type Options struct {
	// Path is the root of the tree to measure.
	Path string
	// HumanReadable formats the result with unit suffixes (output only).
	HumanReadable bool
	// IgnoreHardlinks counts every hard link separately.
	IgnoreHardlinks bool
	// FollowSymlinks resolves symbolic links and counts their targets.
	FollowSymlinks bool
	// MaxRetries bounds retries of a transiently failing path
	// (0=DefaultMaxRetries, negative=unlimited).
	MaxRetries int
	// Engine selects the traversal implementation.
	Engine string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Progress forces the progress line on or off; nil means auto-detect.
	Progress *bool
	// Output represents output format (text or json).
	Output string
	// Debug indicates whether debug output is enabled.
	Debug bool
	// ConfigPath overrides the config file location.
	ConfigPath string
	// Version indicates whether to show version and exit.
	Version bool
	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}
