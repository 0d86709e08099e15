// Package book defines the library data model shared by the fetcher,
// the cache, and the renderers.
package book

import (
	"fmt"
	"strings"
	"time"
)

// Rating is a user rating from 1 to 5 stars. Zero means unrated.
type Rating int

const (
	NoRating      Rating = 0
	DidNotLikeIt  Rating = 1
	ItWasOK       Rating = 2
	LikedIt       Rating = 3
	ReallyLikedIt Rating = 4
	ItWasAmazing  Rating = 5
)

// ratingStrings maps Goodreads star tooltips to ratings.
var ratingStrings = map[string]Rating{
	"did not like it": DidNotLikeIt,
	"it was ok":       ItWasOK,
	"liked it":        LikedIt,
	"really liked it": ReallyLikedIt,
	"it was amazing":  ItWasAmazing,
}

// RatingFromString maps a Goodreads star tooltip ("liked it", "it was
// amazing", ...) to a Rating. Unrecognized strings map to NoRating.
func RatingFromString(s string) Rating {
	return ratingStrings[strings.ToLower(strings.TrimSpace(s))]
}

// Stars renders the rating as filled/empty star glyphs, or "-" when unrated.
func (r Rating) Stars() string {
	if r < DidNotLikeIt || r > ItWasAmazing {
		return "-"
	}
	return strings.Repeat("★", int(r)) + strings.Repeat("☆", 5-int(r))
}

// Book is a single entry on a user's "read" shelf.
type Book struct {
	Title         string     `json:"title" yaml:"title"`
	AuthorName    string     `json:"author_name" yaml:"author_name"`
	NumberOfPages int        `json:"number_of_pages,omitempty" yaml:"number_of_pages,omitempty"`
	DateRead      *time.Time `json:"date_read,omitempty" yaml:"date_read,omitempty"`
	UserRating    Rating     `json:"user_rating" yaml:"user_rating"`
	UserReview    string     `json:"user_review,omitempty" yaml:"user_review,omitempty"`
	SeriesName    string     `json:"series_name,omitempty" yaml:"series_name,omitempty"`
	SeriesEntry   float64    `json:"series_entry,omitempty" yaml:"series_entry,omitempty"`
}

// Validate checks internal consistency. Title and author are required;
// series name and entry must be provided together.
func (b *Book) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("book has no title")
	}
	if b.AuthorName == "" {
		return fmt.Errorf("book %q has no author", b.Title)
	}
	if (b.SeriesName != "") != (b.SeriesEntry != 0) {
		return fmt.Errorf("book %q: series name and entry must be set together", b.Title)
	}
	return nil
}

// FullTitle formats title, series, and author into one line:
// "The Fifth Season (The Broken Earth, #1) by N.K. Jemisin".
func (b *Book) FullTitle() string {
	var sb strings.Builder
	sb.WriteString(b.Title)
	if b.SeriesName != "" && b.SeriesEntry != 0 {
		sb.WriteString(fmt.Sprintf(" (%s, #%s)", b.SeriesName, FormatSeriesEntry(b.SeriesEntry)))
	}
	sb.WriteString(" by ")
	sb.WriteString(b.AuthorName)
	return sb.String()
}

// FormatSeriesEntry renders a series position without a trailing ".0"
// for whole-number entries (1, 2, 2.5).
func FormatSeriesEntry(entry float64) string {
	if entry == float64(int64(entry)) {
		return fmt.Sprintf("%d", int64(entry))
	}
	return fmt.Sprintf("%g", entry)
}

// Library is the complete "read" shelf for one user.
type Library struct {
	UserID int    `json:"user_id" yaml:"user_id"`
	Books  []Book `json:"books" yaml:"books"`
}

// Stats summarizes a library for display.
type Stats struct {
	Books         int
	TotalPages    int
	Rated         int
	AverageRating float64
}

// Stats computes summary statistics over the library's books.
func (l *Library) Stats() Stats {
	var s Stats
	s.Books = len(l.Books)
	var ratingSum int
	for _, b := range l.Books {
		s.TotalPages += b.NumberOfPages
		if b.UserRating != NoRating {
			s.Rated++
			ratingSum += int(b.UserRating)
		}
	}
	if s.Rated > 0 {
		s.AverageRating = float64(ratingSum) / float64(s.Rated)
	}
	return s
}
