package am

// Config represents the invokegen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" yaml:"generate" json:"generate"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// GenerateConfig controls how generated files are named and rendered
type GenerateConfig struct {
	Output   string `mapstructure:"output" toml:"output" yaml:"output" json:"output"`         // File written into each package (default: invoke_impl_gen.go)
	Casing   string `mapstructure:"casing" toml:"casing" yaml:"casing" json:"casing"`         // go | verbatim
	Selector string `mapstructure:"selector" toml:"selector" yaml:"selector" json:"selector"` // auto | seq | slice
	Jobs     int    `mapstructure:"jobs" toml:"jobs" yaml:"jobs" json:"jobs"`                 // Concurrent groups; 0 = GOMAXPROCS
	Tags     string `mapstructure:"tags" toml:"tags" yaml:"tags" json:"tags"`                 // Build tags passed to the package loader
}

// LogConfig configures logging output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Theme string `mapstructure:"theme" toml:"theme" yaml:"theme" json:"theme"` // Color theme: gruvbox, everforest
}

// WatchConfig configures `generate --watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"` // Quiet period before regenerating
}

// Casing modes for generated identifiers
const (
	CasingGo       = "go"       // camel case, exported per member visibility
	CasingVerbatim = "verbatim" // engine names unchanged (invoke_all, METHOD_COUNT, ...)
)

// Selector styles for the subset/enumerated/enum selector parameter
const (
	SelectorAuto  = "auto"  // iter.Seq when the module's go version allows it
	SelectorSeq   = "seq"   // iter.Seq[int] / iter.Seq[Tag]
	SelectorSlice = "slice" // []int / []Tag
)

// File names
const (
	ProjectConfigName = "invokegen.toml"
	UserConfigName    = "am.toml"
	DefaultOutputName = "invoke_impl_gen.go"
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
