package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "fotoladuViewer/docs"
	"fotoladuViewer/internal/catalog"
	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/http-server/handlers/image/deleteImage"
	"fotoladuViewer/internal/http-server/handlers/image/getImage"
	"fotoladuViewer/internal/http-server/handlers/image/random"
	"fotoladuViewer/internal/http-server/handlers/ingest/startIngest"
	"fotoladuViewer/internal/http-server/handlers/page/viewer"
	"fotoladuViewer/internal/http-server/handlers/tags/submitTags"
	"fotoladuViewer/internal/http-server/middleware/mwlogger"
	"fotoladuViewer/internal/kafka/producer"
	"fotoladuViewer/internal/lib/imageurl"
)

// New mounts the viewer page, the JSON API and the image files. The ingest
// endpoint is only mounted when jobs is not nil.
func New(log *slog.Logger, cfg *config.Config, cat *catalog.Catalog, jobs producer.ProducerIface) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/", viewer.New(log, cat))

	router.Handle(imageurl.Prefix+"/*", http.StripPrefix(imageurl.Prefix+"/", http.FileServer(http.Dir(cfg.DataDir))))

	router.Route("/api", func(r chi.Router) {
		r.Get("/random", random.New(log, cat, cfg.HTTPServer.MaxRandomCount))
		r.Get("/image/{id}", getImage.New(log, cat))
		r.Delete("/image/{id}", deleteImage.New(log, cat))
		r.Post("/tags", submitTags.New(log))

		if jobs != nil {
			r.Post("/ingest", startIngest.New(log, jobs))
		}
	})

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	return router
}
