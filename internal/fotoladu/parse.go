package fotoladu

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	callRe  = regexp.MustCompile(`kuvapiltfuncarhiiv\(([^)]*)\)`)
	totalRe = regexp.MustCompile(`Leitud fotosid:\s*([\d\s]+)`)
	pagesRe = regexp.MustCompile(`var\s+lk_nr\s*=\s*(\d+)`)
	rowsRe  = regexp.MustCompile(`var\s+ridu\s*=\s*(\d+)`)
	limitRe = regexp.MustCompile(`var\s+limit\s*=\s*(\d+)`)
)

var errUnterminated = errors.New("unterminated string literal")

// entryKeys is the positional layout of kuvapiltfuncarhiiv arguments.
var entryKeys = []string{
	"id", "aasta", "B", "L", "tapsus", "w", "h",
	"peakaust", "kaust", "fail", "lend", "fotonr",
	"kaardileht", "tyyp", "allikas",
}

// Entry is one photo listed on a search results page.
type Entry struct {
	ID         int64
	Aasta      string
	B          string
	L          string
	Tapsus     string
	W          string
	H          string
	Peakaust   string
	Kaust      string
	Fail       string
	Lend       string
	Fotonr     string
	Kaardileht string
	Tyyp       string
	Allikas    string
}

// Meta holds the paging counters embedded in a results page.
// Missing counters are zero.
type Meta struct {
	Total int
	Pages int
	Rows  int
	Limit int
}

type Page struct {
	Entries []Entry
	Meta    Meta
}

// PageSize is rows*limit when both are known, else the number of entries.
func (p *Page) PageSize() int {
	if p.Meta.Rows > 0 && p.Meta.Limit > 0 {
		return p.Meta.Rows * p.Meta.Limit
	}
	return len(p.Entries)
}

// TotalPages never reports fewer pages than the total count implies.
func (p *Page) TotalPages() int {
	pages := p.Meta.Pages
	size := p.PageSize()
	if size > 0 && p.Meta.Total > 0 {
		if n := (p.Meta.Total + size - 1) / size; n > pages {
			pages = n
		}
	}
	return pages
}

// ParsePage extracts entries and paging counters from a results page.
// Calls without a numeric id or a file name are skipped.
func ParsePage(html string) *Page {
	page := &Page{Meta: parseMeta(html)}

	for _, m := range callRe.FindAllStringSubmatch(html, -1) {
		args, err := splitArgs(m[1])
		if err != nil {
			continue
		}

		entry, ok := newEntry(positional(args))
		if !ok {
			continue
		}
		page.Entries = append(page.Entries, entry)
	}

	return page
}

// positional maps kuvapiltfuncarhiiv arguments onto their keys.
func positional(args []string) map[string]string {
	values := make(map[string]string, len(entryKeys))
	for i, key := range entryKeys {
		if i < len(args) {
			values[key] = args[i]
		}
	}
	return values
}

func newEntry(values map[string]string) (Entry, bool) {
	id, err := strconv.ParseInt(values["id"], 10, 64)
	if err != nil || values["fail"] == "" {
		return Entry{}, false
	}

	return Entry{
		ID:         id,
		Aasta:      values["aasta"],
		B:          values["B"],
		L:          values["L"],
		Tapsus:     values["tapsus"],
		W:          values["w"],
		H:          values["h"],
		Peakaust:   values["peakaust"],
		Kaust:      values["kaust"],
		Fail:       values["fail"],
		Lend:       values["lend"],
		Fotonr:     values["fotonr"],
		Kaardileht: values["kaardileht"],
		Tyyp:       values["tyyp"],
		Allikas:    values["allikas"],
	}, true
}

func parseMeta(html string) Meta {
	return Meta{
		Total: matchInt(totalRe, html),
		Pages: matchInt(pagesRe, html),
		Rows:  matchInt(rowsRe, html),
		Limit: matchInt(limitRe, html),
	}
}

func matchInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// splitArgs splits a JavaScript argument list of string and number literals.
func splitArgs(s string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		esc   bool
	)

	flush := func() {
		args = append(args, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case quote != 0 && r == '\\':
			esc = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		case r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, errUnterminated
	}
	if strings.TrimSpace(s) != "" {
		flush()
	}

	return args, nil
}
