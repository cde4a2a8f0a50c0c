// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// searchCommand resolves every track in a document against YouTube and
// caches the results.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search YouTube for every track in a document and cache the results",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-search tracks that already have cached results",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a resolution report (.md or .json)",
			},
		},
		Action: r.Search,
	}
}

// createCommand builds a new playlist from a document.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a new YouTube playlist from a document",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "document"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Playlist title (defaults to the document title)",
			},
			&cli.StringFlag{
				Name:  "privacy",
				Usage: "Playlist privacy: private, unlisted or public",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the plan without creating anything",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-search tracks that already have cached results",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a summary report (.md or .json)",
			},
		},
		Action: r.Create,
	}
}

// syncCommand reconciles an existing playlist with a document.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile an existing playlist with a document",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "document"},
			&cli.StringArg{Name: "playlist"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "remove-unknown",
				Usage: "Delete playlist items the document does not mention",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the plan without touching the playlist",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-search tracks that already have cached results",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a summary report (.md or .json)",
			},
		},
		Action: r.Sync,
	}
}

// reviewCommand launches the interactive match picker.
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Review and change which video each track resolved to",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "document"},
		},
		Action: r.Review,
	}
}

// authCommand manages the cached OAuth credential.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize access to your playlists in the browser",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token",
				Action: r.AuthLogout,
			},
		},
	}
}

// historyCommand lists recorded runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "operation",
				Usage: "Only show runs for one operation (search, create or sync)",
			},
		},
		Action: r.History,
	}
}

// cacheCommand inspects the resolution cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Resolution cache operations",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show what the resolution cache holds",
				Action: r.CacheStatus,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls against the YouTube Data API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to an API endpoint, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "endpoint"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// setupCommand prepares the on-disk layout.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file, cache directories and history database",
		Action: r.Setup,
	}
}
