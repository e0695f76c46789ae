package data

// Config holds the data loader options.
type Config struct {
	// Path is the directory, relative to the source root, scanned for data files.
	Path string `mapstructure:"path" default:"data"`
	// Exclude removes processed data files from the build output.
	Exclude bool `mapstructure:"exclude" default:"false"`
	// AllowScript enables the script parser for .hcl data files. The option
	// keeps its historical name, allowjs.
	AllowScript bool `mapstructure:"allowjs" default:"false"`
}

// DefaultPath is used when Config.Path is empty.
const DefaultPath = "data"
