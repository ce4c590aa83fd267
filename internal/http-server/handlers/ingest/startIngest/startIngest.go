package startIngest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fotoladuViewer/internal/kafka/producer"
	"fotoladuViewer/internal/lib/api/response"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/models"
)

type Request struct {
	FotoNr     *int         `json:"foto_nr" validate:"required_without_all=Aasta Kaardileht LennuNr SailikuNr BBox"`
	Aasta      string       `json:"aasta,omitempty"`
	Kaardileht string       `json:"kaardileht,omitempty"`
	LennuNr    string       `json:"lennu_nr,omitempty"`
	FotoTyyp   string       `json:"foto_tyyp,omitempty"`
	Allikas    string       `json:"allikas,omitempty"`
	SailikuNr  string       `json:"sailiku_nr,omitempty"`
	MaxPages   int          `json:"max_pages,omitempty" validate:"min=0,max=200"`
	BBox       *BBoxRequest `json:"bbox,omitempty"`
}

type BBoxRequest struct {
	ALat float64 `json:"a_lat" validate:"min=-90,max=90"`
	ALng float64 `json:"a_lng" validate:"min=-180,max=180"`
	ULat float64 `json:"u_lat" validate:"min=-90,max=90,gtfield=ALat"`
	ULng float64 `json:"u_lng" validate:"min=-180,max=180,gtfield=ALng"`
}

type Response struct {
	response.Response
	JobID uuid.UUID `json:"job_id"`
}

// New queues a Fotoladu search or bounding-box query for download into the catalogue.
// @Summary      Start ingest
// @Description  Publishes an ingest job for a Fotoladu archive search
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        request  body      startIngest.Request  true  "Search parameters"
// @Success      202      {object}  startIngest.Response
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/ingest [post]
func New(log *slog.Logger, jobProducer producer.ProducerIface) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ingest.startIngest.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request"))
			return
		}
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		job := models.IngestJob{
			ID:         uuid.New(),
			FotoNr:     req.FotoNr,
			Aasta:      req.Aasta,
			Kaardileht: req.Kaardileht,
			LennuNr:    req.LennuNr,
			FotoTyyp:   req.FotoTyyp,
			Allikas:    req.Allikas,
			SailikuNr:  req.SailikuNr,
			MaxPages:   req.MaxPages,
		}
		if req.BBox != nil {
			bbox := models.BBox(*req.BBox)
			job.BBox = &bbox
		}

		message, err := json.Marshal(job)
		if err != nil {
			log.Error("failed to marshal ingest job", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to prepare job"))
			return
		}

		if err = jobProducer.SendMessage(r.Context(), []byte(job.ID.String()), message); err != nil {
			log.Error("failed to publish ingest job", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to start ingest"))
			return
		}

		log.Info("ingest job published", slog.String("job_id", job.ID.String()))

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, Response{
			Response: response.OK(),
			JobID:    job.ID,
		})
	}
}
