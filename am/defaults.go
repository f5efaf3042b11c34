package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.output", DefaultOutputName)
	v.SetDefault("generate.casing", CasingGo)
	v.SetDefault("generate.selector", SelectorAuto)
	v.SetDefault("generate.jobs", 0)
	v.SetDefault("generate.tags", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")

	v.SetDefault("watch.debounce_ms", 300)
}

// Default returns a Config holding only default values
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always unmarshal
		panic(err)
	}
	return cfg
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generate: {Output: %s, Casing: %s, Selector: %s, Jobs: %d}, Log: {JSON: %t}}",
		c.Generate.Output, c.Generate.Casing, c.Generate.Selector, c.Generate.Jobs, c.Log.JSON)
}
