package goodreads

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/goreads/goreads/internal/book"
)

// Series annotations appear inside the title link in a few shapes:
// "(Name, #2)", "(Name #2.5)", "Name, Vol. 3", "(Name Book 4)".
var seriesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\((.*?)(?:,\s*|\s+)#(\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`^(.*?),?\s*Vol\.\s*(\d+(?:\.\d+)?)\b`),
	regexp.MustCompile(`^\((.*?)\s+Book\s+(\d+(?:\.\d+)?)\)`),
}

var pageNumberPattern = regexp.MustCompile(`\d{1,6}`)

// Date-read strings come in full and month-only forms.
var dateFormats = []string{"Jan 2, 2006", "Jan 2006"}

// ParseBooks extracts books from one page of shelf HTML. Rows missing a
// title or author (ads, ghost rows) are skipped.
func ParseBooks(pageHTML string) ([]book.Book, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var books []book.Book
	doc.Find(`tr[id^="review_"]`).Each(func(_ int, row *goquery.Selection) {
		b := parseRow(row)
		if b.Title == "" || b.AuthorName == "" {
			return
		}
		books = append(books, b)
	})
	return books, nil
}

// ParsePageCount reads the total page count from the pagination links on
// the first shelf page. A missing pagination block means a single page.
func ParsePageCount(pageHTML string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return 0, err
	}

	total := 1
	doc.Find("div#reviewPagination a").Each(func(_ int, link *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(link.Text()))
		if err == nil && n > total {
			total = n
		}
	})
	return total, nil
}

// parseRow extracts one book from a review table row.
func parseRow(row *goquery.Selection) book.Book {
	var b book.Book

	b.AuthorName = strings.TrimSpace(row.Find("td.field.author a").First().Text())

	titleLink := row.Find("td.field.title a").First()
	// The link's first text node is the bare title; a nested span holds
	// the series annotation.
	b.Title = firstTextNode(titleLink)
	if series := strings.TrimSpace(titleLink.Find("span.darkGreyText").Text()); series != "" {
		if name, entry, ok := parseSeries(series); ok {
			b.SeriesName = name
			b.SeriesEntry = entry
		}
	}

	if pages := row.Find("td.field.num_pages nobr").Text(); pages != "" {
		if m := pageNumberPattern.FindString(pages); m != "" {
			b.NumberOfPages, _ = strconv.Atoi(m)
		}
	}

	title, ok := row.Find("td.field.rating span.staticStars").Attr("title")
	if ok {
		b.UserRating = book.RatingFromString(title)
	}

	b.UserReview = strings.TrimSpace(row.Find(`span[id^="freeTextContainerreview"]`).First().Text())

	dateCell := row.Find("td.field.date_read")
	dateText := strings.TrimSpace(dateCell.Find("span.date_read_value").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dateCell.Find("span[title]").First().Text())
	}
	if dateText != "" {
		if d, ok := parseDate(dateText); ok {
			b.DateRead = &d
		}
	}

	return b
}

// parseSeries matches a series annotation against the known shapes and
// returns the series name and entry number.
func parseSeries(text string) (string, float64, bool) {
	for _, pat := range seriesPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		entry, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		return strings.TrimSpace(m[1]), entry, true
	}
	return "", 0, false
}

// parseDate parses a date-read string. Month-only dates resolve to the
// last day of that month.
func parseDate(text string) (time.Time, bool) {
	for _, format := range dateFormats {
		d, err := time.Parse(format, text)
		if err != nil {
			continue
		}
		if format == "Jan 2006" {
			// Day zero of the next month is the last day of this one.
			d = time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		}
		return d, true
	}
	return time.Time{}, false
}

// firstTextNode returns the first non-empty direct text child of the
// selection, falling back to the full text when there is none.
func firstTextNode(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if text := strings.TrimSpace(c.Data); text != "" {
				return text
			}
		}
	}
	return strings.TrimSpace(sel.Text())
}
