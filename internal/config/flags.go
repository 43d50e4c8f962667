package config

import (
	"flag"
	"strings"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Flags are the command-line overrides.
type Flags struct {
	fs *flag.FlagSet

	Config       *string
	Debug        *bool
	Windowed     *bool
	Fullscreen   *bool
	Width        *int
	Height       *int
	WatchShaders *bool
	Open         *bool
	WriteConfig  *string
	Models       stringList
}

// NewFlags registers the viewer flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{
		fs:           fs,
		Config:       fs.String("config", "", "Path to config file"),
		Debug:        fs.Bool("debug", false, "Enable debug logging"),
		Windowed:     fs.Bool("windowed", false, "Run in windowed mode"),
		Fullscreen:   fs.Bool("fullscreen", false, "Run in fullscreen mode"),
		Width:        fs.Int("width", 0, "Window width"),
		Height:       fs.Int("height", 0, "Window height"),
		WatchShaders: fs.Bool("watch-shaders", false, "Reload shaders when their files change"),
		Open:         fs.Bool("open", false, "Pick models with a file dialog"),
		WriteConfig:  fs.String("write-config", "", "Write the effective config to this path and exit"),
	}
	fs.Var(&f.Models, "model", "OBJ file to load (repeatable)")
	return f
}

var cli = NewFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// apply copies flag overrides into cfg. Positional arguments are model paths
// and follow the -model flags.
func (f *Flags) apply(cfg *Config) {
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if *f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if *f.Width > 0 {
		cfg.Window.Width = *f.Width
	}
	if *f.Height > 0 {
		cfg.Window.Height = *f.Height
	}
	if *f.WatchShaders {
		cfg.Shaders.Watch = true
	}
	if *f.Open {
		cfg.OpenDialog = true
	}
	cfg.WriteConfig = *f.WriteConfig
	cfg.AddModels(f.Models...)
	cfg.AddModels(f.fs.Args()...)
}
