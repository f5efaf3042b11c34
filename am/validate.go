package am

import (
	"path/filepath"
	"strings"

	"github.com/teranos/invokegen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Generate.Output == "" {
		return errors.New("generate.output cannot be empty")
	}
	if filepath.Base(c.Generate.Output) != c.Generate.Output {
		return errors.Newf("generate.output must be a file name without directories, got %q", c.Generate.Output)
	}
	if !strings.HasSuffix(c.Generate.Output, ".go") || c.Generate.Output == ".go" {
		return errors.Newf("generate.output must name a .go file, got %q", c.Generate.Output)
	}
	if strings.HasSuffix(c.Generate.Output, "_test.go") {
		return errors.Newf("generate.output cannot be a test file, got %q", c.Generate.Output)
	}

	switch c.Generate.Casing {
	case CasingGo, CasingVerbatim:
	default:
		return errors.Newf("generate.casing must be %q or %q, got %q", CasingGo, CasingVerbatim, c.Generate.Casing)
	}

	switch c.Generate.Selector {
	case SelectorAuto, SelectorSeq, SelectorSlice:
	default:
		return errors.Newf("generate.selector must be one of auto, seq, slice, got %q", c.Generate.Selector)
	}

	// Jobs: 0 = GOMAXPROCS, negative = invalid
	if c.Generate.Jobs < 0 {
		return errors.Newf("generate.jobs must be >= 0, got %d", c.Generate.Jobs)
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
