// Package config loads the generator's settings from flags or
// environment variables (every flag below is also settable as
// CRITGEN_<NAME>), mirroring how the rest of the corpus wires
// namsral/flag.
package config

import "github.com/namsral/flag"

type Config struct {
	Output        string
	MinPly        int
	MaxPly        int
	TTLog2Size    int
	LogLevel      string
	ProgressEvery int
}

// Load parses args into c, falling back to the documented defaults.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("critgen", "CRITGEN", flag.ContinueOnError)
	fs.StringVar(&c.Output, "output", "critical.db", "path to write the critical-positions database to")
	fs.IntVar(&c.MinPly, "min-ply", 15, "minimum ply (inclusive) eligible for classification")
	fs.IntVar(&c.MaxPly, "max-ply", 28, "maximum ply (inclusive) eligible for classification")
	fs.IntVar(&c.TTLog2Size, "tt-log2-size", 23, "log2 of the transposition table entry count")
	fs.StringVar(&c.LogLevel, "log-level", "info", "zerolog level: debug, info, warn, error")
	fs.IntVar(&c.ProgressEvery, "progress-every", 100000, "log a progress line every N critical entries found")
	return fs.Parse(args)
}
