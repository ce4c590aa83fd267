package submitTags

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"fotoladuViewer/internal/lib/api/response"
	"fotoladuViewer/internal/loader"
)

// New is the server side of the tag form. Tagging has no backend yet, so every
// submission is answered with 501.
// @Summary      Submit tags
// @Tags         tags
// @Produce      json
// @Failure      501  {object}  response.Response
// @Router       /api/tags [post]
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tags.submitTags.New"

		log.Debug("tag submission rejected", slog.String("op", op))

		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, response.Error(loader.ErrTagsNotImplemented.Error()))
	}
}
