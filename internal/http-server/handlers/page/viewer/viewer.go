package viewer

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/loader"
)

//go:embed templates/index.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageData struct {
	PhotoFix string
	PhotoRaw string
	Fragment string
	Metadata template.HTML
	Failed   bool
}

// New renders the viewer page. Every request runs one load cycle over source;
// a query with tags counts as a tag form submit.
func New(log *slog.Logger, source loader.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.page.viewer.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doc := loader.NewDocument()
		l := loader.New(log, source, doc, loader.VariantBatch)

		var err error
		if tags := r.URL.Query().Get("tags"); tags != "" {
			err = l.SubmitTags(r.Context(), loader.ParseTags(tags))
		} else {
			err = l.OnPageLoad(r.Context())
		}
		if err != nil {
			log.Warn("page rendered without image", sl.Err(err))
		}

		data := pageData{
			PhotoFix: doc.ImageSource(loader.ElementPhotoFix),
			PhotoRaw: doc.ImageSource(loader.ElementPhotoRaw),
			Fragment: doc.Fragment(),
			Metadata: doc.TableHTML(loader.ElementMetadata),
			Failed:   err != nil,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err = pageTmpl.Execute(w, data); err != nil {
			log.Error("failed to render page", sl.Err(err))
		}
	}
}
