package cli

import (
	"flag"

	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/logging"
)

// databaseFlags selects the backend the same way the server does. The
// defaults come from the environment.
type databaseFlags struct {
	URL     string
	Path    string
	Verbose bool
}

func (d *databaseFlags) register(fs *flag.FlagSet, defaults config.Database) {
	fs.StringVar(&d.URL, "database-url", defaults.URL, "Cloud database URL (postgres:// or mysql://); empty uses the local SQLite file")
	fs.StringVar(&d.Path, "db", defaults.Path, "Path to the local SQLite database file")
	fs.BoolVar(&d.Verbose, "verbose", false, "Enable verbose logging")
}

func (d *databaseFlags) config() config.Database {
	return config.Database{URL: d.URL, Path: d.Path}
}

func (d *databaseFlags) logger() *zap.Logger {
	if !d.Verbose {
		return zap.NewNop()
	}
	return logging.Must(config.Log{Level: "debug", Format: "console"})
}
