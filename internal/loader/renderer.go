package loader

import (
	"html/template"
	"sync"
)

// Element ids of the viewer page.
const (
	ElementPhoto    = "photo"
	ElementPhotoFix = "photo-fix"
	ElementPhotoRaw = "photo-raw"
	ElementMetadata = "metadata"
	ElementTagForm  = "tag-form"
)

// RawPlaceholder is the source given to the raw image element when a record has no raw URL.
const RawPlaceholder = "#"

// Renderer is the target a loaded record is reflected into.
type Renderer interface {
	SetImageSource(elementID, src string)
	SetFragment(fragment string)
	SetTable(elementID string, table Table)
}

// Document is an in-memory Renderer. It is safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	sources  map[string]string
	tables   map[string]Table
	fragment string
}

func NewDocument() *Document {
	return &Document{
		sources: make(map[string]string),
		tables:  make(map[string]Table),
	}
}

func (d *Document) SetImageSource(elementID, src string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sources[elementID] = src
}

func (d *Document) SetFragment(fragment string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fragment = fragment
}

func (d *Document) SetTable(elementID string, table Table) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.tables[elementID] = table
}

func (d *Document) ImageSource(elementID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.sources[elementID]
}

func (d *Document) Fragment() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.fragment
}

func (d *Document) Table(elementID string) (Table, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tables[elementID]
	return t, ok
}

// TableHTML returns the markup of the table set on elementID, or "" if none was set.
func (d *Document) TableHTML(elementID string) template.HTML {
	t, ok := d.Table(elementID)
	if !ok {
		return ""
	}
	return t.HTML()
}
