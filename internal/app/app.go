// Package app implements the application layer for memo.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/memo/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/memo"
	"go.trai.ch/zerr"
)

// StatterFactory returns a dependency statter bounded to limit concurrent stats.
type StatterFactory func(limit int) ports.DependencyStatter

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	stores       ports.StoreOpener
	hasher       ports.Fingerprinter
	statters     StatterFactory
	tracer       ports.Tracer
	trackers     ports.TrackerFactory

	stdout  io.Writer
	stderr  io.Writer
	workDir string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	stores ports.StoreOpener,
	hasher ports.Fingerprinter,
	statters StatterFactory,
	tracer ports.Tracer,
	trackers ports.TrackerFactory,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		stores:       stores,
		hasher:       hasher,
		statters:     statters,
		tracer:       tracer,
		trackers:     trackers,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput sets the streams wrapped commands write to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkingDir runs commands in dir instead of the process working directory.
func (a *App) WithWorkingDir(dir string) *App {
	a.workDir = dir
	return a
}

// ConfigureLogging switches the logger to debug output or JSON records when
// the logger supports it.
func (a *App) ConfigureLogging(verbose, json bool) {
	if l, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		l.SetVerbose(verbose)
	}
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(json)
	}
}

// Close releases every entry store the App opened.
func (a *App) Close() error {
	return a.stores.Close()
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Deps are files the command reads.
	Deps []string
	// ContextDeps are directories whose listing the command depends on.
	ContextDeps []string
	// TTL overrides the configured entry lifetime when positive.
	TTL time.Duration
	// CacheDir and CacheIdentifier override the configuration when set.
	CacheDir        string
	CacheIdentifier string
	// NoCache runs the command without looking up or storing an entry.
	NoCache bool
	// Watch re-runs the command whenever a dependency changes.
	Watch bool
	// TTY runs the command attached to a pseudo terminal.
	TTY bool
}

// request is one cacheable invocation.
type request struct {
	cmd         domain.Command
	namespace   string
	deps        []string
	contextDeps []string
	ttl         time.Duration
}

// Run executes a command through the cache. On a validated hit the recorded
// output is replayed and the command is not started. Cache problems never
// change the outcome of the command.
func (a *App) Run(ctx context.Context, args []string, opts RunOptions) error {
	if len(args) == 0 {
		return domain.ErrNoCommand
	}

	cwd, err := a.cwd()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cwd, opts.CacheDir, opts.CacheIdentifier)
	if err != nil {
		return err
	}
	if opts.TTL > 0 {
		cfg.TTL = opts.TTL
	}

	tp := setupOTel(telemetry.NewBridge(a.logger))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	req := request{
		cmd:         domain.Command{Args: args, Dir: cwd, TTY: opts.TTY},
		namespace:   cfg.CacheIdentifier,
		contextDeps: absPaths(cwd, opts.ContextDeps),
		ttl:         cfg.TTL,
	}
	req.deps = a.dependencies(req.cmd, opts.Deps)

	protocol := a.protocol(ctx, cfg, opts.NoCache)

	if opts.Watch {
		return a.watch(ctx, protocol, req)
	}
	return a.runOnce(ctx, protocol, req, nil)
}

func (a *App) cwd() (string, error) {
	if a.workDir != "" {
		return filepath.Abs(a.workDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return cwd, nil
}

func (a *App) loadConfig(cwd, cacheDir, identifier string) (domain.Config, error) {
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	if cacheDir != "" {
		cfg.CacheDirectory = absPath(cwd, cacheDir)
	}
	if identifier != "" {
		cfg.CacheIdentifier = identifier
	}
	return cfg, nil
}

// dependencies returns the program that will run followed by the declared
// dependencies, all absolute.
func (a *App) dependencies(cmd domain.Command, declared []string) []string {
	deps := absPaths(cmd.Dir, declared)

	exe, err := a.executor.Resolve(cmd)
	if err != nil {
		a.logger.Debug(fmt.Sprintf("not tracking executable: %v", err))
		return deps
	}
	return append([]string{exe}, deps...)
}

// protocol opens the cache for cfg. It returns nil when caching is disabled
// or the store cannot be opened.
func (a *App) protocol(ctx context.Context, cfg domain.Config, noCache bool) *memo.Protocol {
	if noCache {
		a.logger.Debug("cache disabled by --no-cache")
		return nil
	}

	store, err := a.stores.Open(ctx, cfg.CacheDirectory, domain.StoreOptions{
		DefaultTTL:     cfg.TTL,
		CheckFrequency: cfg.CheckFrequency,
	})
	if err != nil {
		a.logger.Warn(fmt.Sprintf("cache disabled: %v", err))
		return nil
	}

	return memo.New(
		a.hasher,
		a.statters(cfg.StatConcurrency),
		store,
		a.logger,
		a.tracer,
		memo.WithTTL(cfg.TTL),
	)
}

func (a *App) runOnce(ctx context.Context, protocol *memo.Protocol, req request, tracker ports.DependencyTracker) error {
	descriptor := req.cmd.Descriptor()

	if protocol != nil {
		if hit, ok := protocol.Lookup(ctx, req.namespace, descriptor); ok {
			if stdout, stderr, ok := decodeOutput(hit.Result); ok {
				a.logger.Debug("cache hit for " + req.cmd.Name())
				memo.Register(hit, tracker)
				return a.replay(stdout, stderr)
			}
			a.logger.Debug("ignoring cache entry with unexpected result")
		}
	}

	var stdout, stderr bytes.Buffer
	err := a.executor.Execute(
		ctx,
		req.cmd,
		io.MultiWriter(a.stdout, &stdout),
		io.MultiWriter(a.stderr, &stderr),
	)

	if tracker != nil {
		for _, dep := range req.deps {
			tracker.AddDependency(dep)
		}
		for _, dep := range req.contextDeps {
			tracker.AddContextDependency(dep)
		}
	}

	if err != nil {
		return err
	}

	if protocol != nil {
		protocol.Store(ctx, req.namespace, descriptor, req.deps, req.contextDeps, encodeOutput(stdout.Bytes(), stderr.Bytes()), req.ttl)
	}
	return nil
}

func (a *App) replay(stdout, stderr []byte) error {
	if _, err := a.stdout.Write(stdout); err != nil {
		return zerr.Wrap(err, "failed to replay output")
	}
	if _, err := a.stderr.Write(stderr); err != nil {
		return zerr.Wrap(err, "failed to replay output")
	}
	return nil
}

// watch runs the request, then again every time a tracked path changes,
// until ctx is canceled.
func (a *App) watch(ctx context.Context, protocol *memo.Protocol, req request) error {
	tracker, err := a.trackers.NewWatchTracker()
	if err != nil {
		return zerr.Wrap(err, "failed to start watch mode")
	}
	defer func() {
		_ = tracker.Close()
	}()

	for {
		if err := a.runOnce(ctx, protocol, req, tracker); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Error(err)
		}

		a.logger.Info("watching for changes")
		changed, err := tracker.Changed(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return zerr.Wrap(err, "watch failed")
		}
		a.logger.Info("changed: " + strings.Join(changed, ", "))
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	CacheDir string
}

// Clean removes the cache directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cwd, err := a.cwd()
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(cwd, opts.CacheDir, "")
	if err != nil {
		return err
	}

	dir := cfg.CacheDirectory
	a.logger.Info(fmt.Sprintf("removing %s...", dir))
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(errors.Join(domain.ErrCleanFailed, err), "dir", dir)
	}
	a.logger.Info(fmt.Sprintf("removed %s", dir))
	return nil
}

// StatsOptions configuration for the Stats method.
type StatsOptions struct {
	CacheDir string
}

// StatsReport describes the entry store of a cache directory.
type StatsReport struct {
	Directory string
	Exists    bool
	domain.StoreStats
}

// Stats reports the number of live and expired entries. A cache directory
// without a database reports zero entries and is not created.
func (a *App) Stats(ctx context.Context, opts StatsOptions) (StatsReport, error) {
	cwd, err := a.cwd()
	if err != nil {
		return StatsReport{}, err
	}
	cfg, err := a.loadConfig(cwd, opts.CacheDir, "")
	if err != nil {
		return StatsReport{}, err
	}

	report := StatsReport{Directory: cfg.CacheDirectory}
	if _, err := os.Stat(domain.DatabasePath(cfg.CacheDirectory)); errors.Is(err, fs.ErrNotExist) {
		return report, nil
	}

	store, err := a.stores.Open(ctx, cfg.CacheDirectory, domain.StoreOptions{
		DefaultTTL:     cfg.TTL,
		CheckFrequency: cfg.CheckFrequency,
	})
	if err != nil {
		return report, err
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return report, err
	}
	report.Exists = true
	report.StoreStats = stats
	return report, nil
}

// setupOTel configures the OpenTelemetry SDK to report spans through the bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}

func absPaths(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, absPath(base, p))
	}
	return out
}

func absPath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
