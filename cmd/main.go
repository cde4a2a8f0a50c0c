package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newApp assembles the command tree. Global flags live on the root command;
// urfave/cli resolves them through the command lineage, so every action reads
// them off its own cli.Command.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "ytlist",
		Usage:    "Reconcile markdown tracklists with YouTube playlists",
		Version:  "0.3.0",
		Flags:    rootFlags(),
		Commands: r.register(),
	}
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format (text or json)",
			Value:   "text",
		},
	}
}
