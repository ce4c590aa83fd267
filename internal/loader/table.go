package loader

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/samber/lo"

	"fotoladuViewer/internal/models"
)

type Row struct {
	Label string
	Value string
}

// Table is the metadata of one record laid out as labelled rows.
type Table struct {
	Rows []Row
}

var tableFields = []struct {
	label string
	value func(models.ImageRecord) models.Field
}{
	{"Fotoladu ID", func(r models.ImageRecord) models.Field { return r.FotoladuID }},
	{"Year", func(r models.ImageRecord) models.Field { return r.Aasta }},
	{"Width", func(r models.ImageRecord) models.Field { return r.W }},
	{"Height", func(r models.ImageRecord) models.Field { return r.H }},
	{"Main folder", func(r models.ImageRecord) models.Field { return r.Peakaust }},
	{"Folder", func(r models.ImageRecord) models.Field { return r.Kaust }},
	{"File", func(r models.ImageRecord) models.Field { return r.Fail }},
	{"Flight", func(r models.ImageRecord) models.Field { return r.Lend }},
	{"Photo no.", func(r models.ImageRecord) models.Field { return r.Fotonr }},
	{"Map sheet", func(r models.ImageRecord) models.Field { return r.Kaardileht }},
	{"Type", func(r models.ImageRecord) models.Field { return r.Tyyp }},
	{"Source", func(r models.ImageRecord) models.Field { return r.Allikas }},
}

// NewTable always yields the same twelve rows in the same order. Missing values
// are shown as models.Unknown.
func NewTable(rec models.ImageRecord) Table {
	rows := make([]Row, 0, len(tableFields))
	for _, f := range tableFields {
		rows = append(rows, Row{Label: f.label, Value: f.value(rec).Display()})
	}

	return Table{Rows: rows}
}

var tableTmpl = template.Must(template.New("metadata").Parse(
	`<table class="metadata"><tbody>{{range .Rows}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>{{end}}</tbody></table>`,
))

// HTML renders the table with every value escaped.
func (t Table) HTML() template.HTML {
	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, t); err != nil {
		return ""
	}

	return template.HTML(buf.String())
}

// ParseTags splits comma-separated tag input, dropping blanks.
func ParseTags(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	}))
}
