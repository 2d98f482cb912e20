package wiki

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/rfctools/wikihist/internal/markup"
)

// Selector paths into DokuWiki's revision-log markup. The log page carries
// one div per revision inside the page__revisions form, and the next-page
// control is a small form holding the next offset in a hidden input.
const (
	revisionRowsPath  = "form#page__revisions/div/ul/li/div"
	revisionInputPath = "input[name=rev2[]]"
	summaryPath       = "span.sum"
	userPath          = "span.user"
	nextCursorPath    = "div.pagenav-next/form/div/input[name=first]"
)

// summaryCutset is trimmed from both ends of a change summary: hyphen,
// en-dash, and the usual whitespace characters DokuWiki pads summaries with.
const summaryCutset = "–- \n\r\t\v\x00"

// RawRow is one revision-log row before author resolution.
type RawRow struct {
	// Rev is the revision identifier from the row's hidden input.
	// It doubles as the Unix-seconds timestamp of the edit.
	Rev int64

	// Summary is the cleaned change summary.
	Summary string

	// Username is the editor's login name, stripped of control
	// characters. Empty when the row carries no user span.
	Username string
}

// ParseRows extracts the revision rows visible on a parsed revision-log
// page, in document order.
//
// Rows are parsed tolerantly: a missing summary or user span yields an
// empty string, while a row without a parsable revision input is dropped
// entirely, since a record without a revision identifier is meaningless.
func ParseRows(doc *html.Node) []RawRow {
	containers := markup.Query(doc, revisionRowsPath)
	rows := make([]RawRow, 0, len(containers))

	for _, row := range containers {
		inputs := markup.Query(row, revisionInputPath)
		if len(inputs) == 0 {
			continue
		}
		value, _ := markup.Attr(inputs[0], "value")
		rev, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}

		rows = append(rows, RawRow{
			Rev:      rev,
			Summary:  cleanSummary(firstText(row, summaryPath)),
			Username: cleanUsername(firstChildText(row, userPath)),
		})
	}

	return rows
}

// ParseNextCursor extracts the next pagination offset from the page's
// next-page control. The second return value is false when there is no next
// page or the control's value is not a number.
func ParseNextCursor(doc *html.Node) (int, bool) {
	inputs := markup.Query(doc, nextCursorPath)
	if len(inputs) == 0 {
		return 0, false
	}
	value, ok := markup.Attr(inputs[0], "value")
	if !ok {
		return 0, false
	}
	next, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return next, true
}

// firstText returns the text of the first node matching path under row,
// or "" if none matches.
func firstText(row *html.Node, path string) string {
	nodes := markup.Query(row, path)
	if len(nodes) == 0 {
		return ""
	}
	return markup.Text(nodes[0])
}

// firstChildText returns the text of the first child of the first node
// matching path under row. The user span nests the username as its first
// child, ahead of edit-size decorations.
func firstChildText(row *html.Node, path string) string {
	nodes := markup.Query(row, path)
	if len(nodes) == 0 || nodes[0].FirstChild == nil {
		return ""
	}
	return markup.Text(nodes[0].FirstChild)
}

// cleanSummary normalizes a change summary: collapse newlines and carriage
// returns to spaces, then trim dashes and whitespace from both ends only.
func cleanSummary(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.Trim(s, summaryCutset)
}

// cleanUsername strips control characters from anywhere in a username.
func cleanUsername(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\n", "", "\r", "", "\t", "", "\v", "", "\x00", "").Replace(s)
}
