package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/shared"
)

// Setup prepares a fresh machine: config file, cache directory tree, and the
// run-history database. Rerunning is safe; existing files are left alone.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	r.configure(cmd)

	configPath := cmd.String("config")
	if configPath == "" {
		path, err := shared.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		configPath = path
	}

	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("✓ Config already exists at %s\n", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlain("✓ Config written to %s\n", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	for _, dir := range []string{
		config.CacheDir(),
		filepath.Dir(config.TokenPath()),
		config.CheckpointDir(),
	} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	r.writePlain("✓ Cache directories ready under %s\n", config.CacheDir())

	db, err := shared.NewDatabase(config.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to create history database: %w", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.writePlain("✓ History database ready at %s\n", config.DatabasePath())

	r.writePlainln("Next steps:")
	r.writePlain("1. Download OAuth desktop credentials to %s\n", config.ClientSecretsPath())
	r.writePlain("2. Run 'ytlist auth login' to authorize access\n")
	r.writePlain("3. Run 'ytlist search <document.md>' to resolve your first tracklist\n")

	return nil
}
