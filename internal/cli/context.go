package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/goreads/goreads/internal/book"
	"github.com/goreads/goreads/internal/config"
	"github.com/goreads/goreads/internal/goodreads"
	"github.com/goreads/goreads/internal/output"
	"github.com/goreads/goreads/internal/release"
	"github.com/goreads/goreads/internal/store"
)

// FetchFunc retrieves a user's complete shelf from Goodreads.
type FetchFunc func(ctx context.Context, userID int, progress goodreads.ProgressFunc) (*book.Library, error)

// StoreFactory opens the local snapshot store.
type StoreFactory func() (*store.Store, error)

// BumpFunc dispatches a version bump to the external bumper.
type BumpFunc func(ctx context.Context, inc release.Increment) error

// cmdContext holds the resolved context for a CLI command.
// Created once per command invocation, not shared between commands.
type cmdContext struct {
	Config config.Config
	Output *output.Writer

	// Factories for the heavy lifting (set in resolveCmdContext,
	// overridable in tests).
	Fetch     FetchFunc
	OpenStore StoreFactory
	Bump      BumpFunc
}

// resolveCmdContext loads config and wires the default collaborators.
func resolveCmdContext(_ context.Context, mode output.Mode) (*cmdContext, error) {
	w := output.New(mode)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, _, err := config.Load(cwd)
	if err != nil {
		w.Error("invalid configuration", "check .goreads.toml syntax, or delete it to use defaults")
		return nil, displayed(err)
	}

	cc := &cmdContext{
		Config: cfg,
		Output: w,
	}
	cc.Fetch = defaultFetchFunc(cfg)
	cc.OpenStore = func() (*store.Store, error) {
		return store.Open(cfg.Cache.Path)
	}
	// The bumper's output goes straight to the process streams; the
	// dispatcher adds no messaging of its own.
	cc.Bump = release.New(cfg.Release.Tool, cfg.Release.VersionFile, os.Stdout, os.Stderr).Dispatch

	return cc, nil
}

// defaultFetchFunc builds a Goodreads client from config.
func defaultFetchFunc(cfg config.Config) FetchFunc {
	return func(ctx context.Context, userID int, progress goodreads.ProgressFunc) (*book.Library, error) {
		timeout, err := cfg.Goodreads.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		client := goodreads.NewClient(timeout)
		client.Shelf = cfg.Goodreads.Shelf
		client.MaxParallel = cfg.Goodreads.MaxParallel
		return client.FetchLibrary(ctx, userID, progress)
	}
}

// parseUserID validates a Goodreads user ID argument.
func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user ID %q: must be a positive integer", arg)
	}
	return id, nil
}
