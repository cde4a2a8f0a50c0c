package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ytlist/ytlist/internal/auth"
	"github.com/ytlist/ytlist/internal/cache"
	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/repositories"
	"github.com/ytlist/ytlist/internal/services"
	"github.com/ytlist/ytlist/internal/shared"
	"github.com/ytlist/ytlist/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action. The client stack behind the engine needs a cached
// OAuth token, so it is built lazily by the actions that talk to the API
// rather than at startup; auth, setup, review and history work without one.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	store   *cache.Store
	client  *services.YouTubeClient
	budget  *services.QuotaBudget
	engine  tasks.SyncEngine
	db      *sql.DB
	history *repositories.RunRepository
}

// RunnerOpts contains configuration options for creating a Runner. Engine,
// Store and History are test seams; when nil they are built from the config.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	Engine  tasks.SyncEngine
	Store   *cache.Store
	History *repositories.RunRepository
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		store:   opts.Store,
		engine:  opts.Engine,
		history: opts.History,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, createCommand, syncCommand, reviewCommand, authCommand,
		historyCommand, cacheCommand, apiCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure resolves configuration once per invocation: the --config flag,
// then the XDG config file, then embedded defaults. Also applies --verbose.
func (r *Runner) configure(cmd *cli.Command) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.config != nil {
		return
	}

	if path, ok := shared.FindConfig(cmd.String("config")); ok {
		config, err := shared.LoadConfig(path)
		if err == nil {
			r.logger.Debug("config loaded", "path", path)
			r.config = config
			r.configPath = path
			return
		}
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
	}

	r.config = shared.DefaultConfig()
}

func (r *Runner) jsonOutput(cmd *cli.Command) bool {
	return strings.EqualFold(cmd.String("output"), "json")
}

// openStore opens the resolution cache at the configured location.
func (r *Runner) openStore() (*cache.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := cache.Open(r.config.SearchCachePath(), r.logger)
	if err != nil {
		return nil, err
	}
	r.store = store
	return store, nil
}

// youtubeClient builds an API client authenticated with the cached token.
// Fails with shared.ErrNotAuthenticated before any quota is spent when no
// usable token exists.
func (r *Runner) youtubeClient(ctx context.Context) (*services.YouTubeClient, error) {
	if r.client != nil {
		return r.client, nil
	}

	manager, err := auth.NewManager(r.config, r.logger)
	if err != nil {
		return nil, err
	}
	httpClient, err := manager.Client(ctx)
	if err != nil {
		return nil, err
	}

	retry := services.DefaultRetryPolicy(r.logger)
	retry.MaxAttempts = r.config.Client.MaxRetries
	retry.BaseDelay = r.config.RetryBase()
	retry.MaxDelay = r.config.RetryMax()

	r.budget = services.NewQuotaBudget(r.config.Client.QuotaLimit)
	r.client = services.NewYouTubeClient(services.YouTubeClientOpts{
		HTTPClient: httpClient,
		RateLimit:  r.config.RateLimit(),
		Retry:      &retry,
		Budget:     r.budget,
		MaxResults: r.config.Search.MaxResults,
		Logger:     r.logger,
	})
	return r.client, nil
}

// buildEngine wires the full stack behind the sync engine: cache store,
// authenticated client, and checkpoint store.
func (r *Runner) buildEngine(ctx context.Context) (tasks.SyncEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	client, err := r.youtubeClient(ctx)
	if err != nil {
		return nil, err
	}

	checkpoints := tasks.NewCheckpointStore(r.config.CheckpointDir(), r.logger)
	r.engine = tasks.NewReconcileEngine(client, store, checkpoints, client.Budget(), r.logger)
	return r.engine, nil
}

func (r *Runner) quotaSpent() int {
	if r.budget == nil {
		return 0
	}
	return r.budget.Spent()
}

// openHistory opens the run-history database, applying migrations on first
// use. Mutating commands treat a failure here as a warning; the history
// command itself surfaces it.
func (r *Runner) openHistory() (*repositories.RunRepository, error) {
	if r.history != nil {
		return r.history, nil
	}

	db, err := shared.NewDatabase(r.config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	r.db = db
	r.history = repositories.NewRunRepository(db)
	return r.history, nil
}

// beginRun records the start of a mutating command. History is best-effort:
// failures log a warning and the command proceeds.
func (r *Runner) beginRun(run *models.Run) {
	repo, err := r.openHistory()
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return
	}
	if err := repo.Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
	}
}

// finishRun stamps the run outcome and persists it. The status follows the
// operation error: quota exhaustion left a checkpoint behind, so it counts
// as interrupted rather than failed.
func (r *Runner) finishRun(run *models.Run, res *tasks.SyncResult, runErr error) {
	quota := r.quotaSpent()
	if res != nil {
		run.SetPlaylistID(res.PlaylistID)
		run.SetCounts(res.Added, res.Skipped, res.Moved, res.Removed, res.UnknownKept, res.NotFound)
		quota = max(quota, res.QuotaSpent)
	}
	run.SetQuotaSpent(quota)

	switch {
	case runErr == nil:
		run.Finish(models.RunCompleted)
	case errors.Is(runErr, shared.ErrQuotaExceeded):
		run.Finish(models.RunInterrupted)
	default:
		run.Finish(models.RunFailed)
	}

	if r.history == nil || run.ID() == "" {
		return
	}
	if err := r.history.Update(run); err != nil {
		r.logger.Warn("failed to record run outcome", "error", err)
	}
}

// quotaAbort reports whether the run stopped on quota exhaustion.
func quotaAbort(err error) bool {
	return errors.Is(err, shared.ErrQuotaExceeded)
}

// writeQuotaNotice tells the user the run resumes where it stopped.
func (r *Runner) writeQuotaNotice() {
	r.writePlain("\n⚠️ API quota exhausted; progress is saved. Rerun the same command to resume.\n")
}

// progress starts a goroutine draining engine updates to the output writer.
// The returned stop function closes the channel and blocks until the drain
// finishes, so summary output never interleaves with progress lines.
func (r *Runner) progress() (chan tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range ch {
			r.renderProgress(update)
		}
	}()

	stop := func() {
		close(ch)
		<-done
	}
	return ch, stop
}

// renderProgress writes one progress line. Step messages carry their own
// [n/total] markers and icons; phase transitions get a separator line.
func (r *Runner) renderProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.ResolveTracks:
		if update.Step == 0 {
			r.writePlain("\n🔍 %s\n", update.Message)
		} else {
			r.writePlain("   %s\n", update.Message)
		}
	case tasks.FetchRemote:
		r.writePlain("\n📥 %s\n", update.Message)
	case tasks.CreatePlaylist:
		r.writePlain("\n📝 %s\n", update.Message)
	case tasks.AddItems, tasks.ReorderItems, tasks.RemoveItems:
		r.writePlain("   %s\n", update.Message)
	default:
		r.writePlain("\n%s\n", update.Message)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
