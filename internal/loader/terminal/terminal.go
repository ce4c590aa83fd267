package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"fotoladuViewer/internal/loader"
)

// Renderer prints what the loader renders as labelled lines.
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
}

func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) SetImageSource(elementID, src string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s %s\n", color.CyanString("%-12s", elementID), src)
}

func (r *Renderer) SetFragment(fragment string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s %s\n", color.YellowString("%-12s", "fragment"), fragment)
}

func (r *Renderer) SetTable(elementID string, table loader.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, color.CyanString("%s", elementID))
	for _, row := range table.Rows {
		fmt.Fprintf(r.out, "  %s %s\n", color.WhiteString("%-12s", row.Label), row.Value)
	}
}
