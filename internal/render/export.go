package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goreads/goreads/internal/book"
)

// Format is an export document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (must be json, yaml, or csv)", s)
	}
}

// Export writes the library to w in the given format.
func Export(w io.Writer, lib *book.Library, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lib)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(lib)
	case FormatCSV:
		return exportCSV(w, lib)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var csvHeader = []string{
	"title", "author_name", "series_name", "series_entry",
	"number_of_pages", "user_rating", "date_read", "user_review",
}

func exportCSV(w io.Writer, lib *book.Library) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range lib.Books {
		record := []string{
			b.Title,
			b.AuthorName,
			b.SeriesName,
			csvSeriesEntry(b),
			csvInt(b.NumberOfPages),
			csvInt(int(b.UserRating)),
			csvDate(b.DateRead),
			b.UserReview,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvSeriesEntry(b book.Book) string {
	if b.SeriesName == "" {
		return ""
	}
	return book.FormatSeriesEntry(b.SeriesEntry)
}

func csvInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func csvDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}
