package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/goreads/goreads/internal/book"
	"github.com/goreads/goreads/internal/goodreads"
	"github.com/goreads/goreads/internal/output"
	"github.com/goreads/goreads/internal/render"
	"github.com/goreads/goreads/internal/store"
)

func newFetchCmd(f *flags) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "fetch <user-id>",
		Short: "Fetch a user's shelf and display it",
		Long: `Fetches the complete shelf for a Goodreads user, saves it as a
snapshot in the local cache, and renders it as a table. With --cached,
the latest snapshot is displayed without contacting Goodreads.`,
		Example: `  goreads fetch 12345
  goreads fetch 12345 --cached`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			cc, err := resolveCmdContext(cmd.Context(), f.outputMode())
			if err != nil {
				return err
			}
			return RunFetch(cmd.Context(), cc, userID, cached)
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "display the latest cached snapshot instead of fetching")
	return cmd
}

// RunFetch fetches (or loads) a library and renders it.
func RunFetch(ctx context.Context, cc *cmdContext, userID int, cached bool) error {
	lib, err := resolveLibrary(ctx, cc, userID, cached)
	if err != nil {
		return err
	}

	if cc.Output.Mode() == output.ModeJSON {
		return render.Export(cc.Output.Out(), lib, render.FormatJSON)
	}
	render.Library(cc.Output.Out(), lib)
	return nil
}

// resolveLibrary returns the user's library, either from the cache or
// by fetching it fresh (saving a new snapshot on success).
func resolveLibrary(ctx context.Context, cc *cmdContext, userID int, cached bool) (*book.Library, error) {
	if cached {
		return loadCachedLibrary(ctx, cc, userID)
	}

	progress := newFetchSpinner(cc, userID)
	lib, err := cc.Fetch(ctx, userID, progress.update)
	progress.stop()
	if err != nil {
		var se *goodreads.StatusError
		if errors.As(err, &se) && se.StatusCode == 404 {
			cc.Output.Error(fmt.Sprintf("user %d not found", userID), "check the user ID on goodreads.com")
			return nil, displayed(err)
		}
		return nil, fmt.Errorf("fetching library: %w", err)
	}
	cc.Output.Infof("fetched %d books for user %d", len(lib.Books), userID)

	saveSnapshot(ctx, cc, lib)
	return lib, nil
}

func loadCachedLibrary(ctx context.Context, cc *cmdContext, userID int) (*book.Library, error) {
	s, err := cc.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	defer s.Close()

	lib, snap, err := s.LatestSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			cc.Output.Error(fmt.Sprintf("no cached snapshot for user %d", userID), fmt.Sprintf("run: goreads fetch %d", userID))
			return nil, displayed(err)
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	cc.Output.Infof("snapshot from %s (%d books)", snap.FetchedAt.Format(time.RFC3339), snap.BookCount)
	return lib, nil
}

// saveSnapshot records a fetched library in the cache. Failures are
// logged, not fatal: the fetch result is still worth rendering.
func saveSnapshot(ctx context.Context, cc *cmdContext, lib *book.Library) {
	s, err := cc.OpenStore()
	if err != nil {
		slog.Warn("could not open snapshot cache", "error", err)
		return
	}
	defer s.Close()

	if _, err := s.SaveSnapshot(ctx, lib, time.Now().UTC()); err != nil {
		slog.Warn("could not save snapshot", "error", err)
	}
}

// fetchSpinner shows page-fetch progress in text mode.
// Progress callbacks arrive from concurrent page fetches.
type fetchSpinner struct {
	mu sync.Mutex
	sp *spinner.Spinner
}

func newFetchSpinner(cc *cmdContext, userID int) *fetchSpinner {
	if cc.Output.Mode() != output.ModeText {
		return &fetchSpinner{}
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = fmt.Sprintf(" fetching shelf for user %d...", userID)
	sp.Start()
	return &fetchSpinner{sp: sp}
}

func (p *fetchSpinner) update(fetched, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sp == nil {
		return
	}
	p.sp.Suffix = fmt.Sprintf(" fetching shelf page %d/%d...", fetched, total)
}

func (p *fetchSpinner) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sp != nil {
		p.sp.Stop()
	}
}
