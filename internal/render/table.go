// Package render draws libraries and snapshot history for the terminal.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/goreads/goreads/internal/book"
	"github.com/goreads/goreads/internal/store"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Faint(true)
)

// Library renders the user's shelf as a table with a summary footer.
func Library(w io.Writer, lib *book.Library) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Library for Goodreads user %d", lib.UserID)))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Title", "Author", "Series", "Pages", "Rating", "Date Read"})

	for _, b := range lib.Books {
		t.AppendRow(table.Row{
			b.Title,
			b.AuthorName,
			seriesCell(b),
			pagesCell(b.NumberOfPages),
			b.UserRating.Stars(),
			dateCell(b.DateRead),
		})
	}
	t.Render()

	s := lib.Stats()
	summary := fmt.Sprintf("%d books, %d pages", s.Books, s.TotalPages)
	if s.Rated > 0 {
		summary += fmt.Sprintf(", avg rating %.1f over %d rated", s.AverageRating, s.Rated)
	}
	fmt.Fprintln(w, summaryStyle.Render(summary))
}

// Snapshots renders cached snapshot history, newest first.
func Snapshots(w io.Writer, userID int, snaps []store.Snapshot) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Cached snapshots for Goodreads user %d", userID)))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Fetched", "Books"})
	for _, snap := range snaps {
		t.AppendRow(table.Row{snap.ID, snap.FetchedAt.Format(time.RFC3339), snap.BookCount})
	}
	t.Render()
}

func seriesCell(b book.Book) string {
	if b.SeriesName == "" {
		return ""
	}
	return fmt.Sprintf("%s #%s", b.SeriesName, book.FormatSeriesEntry(b.SeriesEntry))
}

func pagesCell(pages int) string {
	if pages == 0 {
		return ""
	}
	return fmt.Sprintf("%d", pages)
}

func dateCell(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
