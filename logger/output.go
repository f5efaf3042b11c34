package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Generated file summary, errors with hints
//	1 (-v)      - + per-package progress, watcher events
//	2 (-vv)     - + timing, config loaded, directives found
//	3 (-vvv)    - + per-group engine decisions (selection, instantiation)
//	4 (-vvvv)   - + full output description dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Files written, check verdicts
	OutputErrors                        // Errors with hints

	// Level 1 (-v) - Informational
	OutputProgress // Per-package progress
	OutputWatch    // Watcher events

	// Level 2 (-vv) - Detailed
	OutputTiming     // Per-package timing
	OutputConfig     // Config values loaded
	OutputDirectives // Directives parsed per package

	// Level 3 (-vvv) - Engine decisions
	OutputEngine

	// Level 4 (-vvvv) - Full dump
	OutputDataDump
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputProgress:   VerbosityInfo,
	OutputWatch:      VerbosityInfo,
	OutputTiming:     VerbosityDebug,
	OutputConfig:     VerbosityDebug,
	OutputDirectives: VerbosityDebug,
	OutputEngine:     VerbosityTrace,
	OutputDataDump:   VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}
