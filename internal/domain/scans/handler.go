package scans

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"animal-rfid-relay/internal/domain/animals"
	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/api/animal", scanAnimalHandler(svc, log))
}

// scanRequest es el cuerpo enviado por el lector RFID.
type scanRequest struct {
	UID string `json:"uid"`
}

// maxScanBody acota el body de /api/animal; solo trae un uid.
const maxScanBody = 1 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// scanAnimalHandler godoc
// @Summary Buscar animal por RFID
// @Description Busca el animal por rfid_code. Si existe lo devuelve, notifica a los chats configurados y emite `rfid-scanned` al live feed. Si no existe responde 404 y notifica que el tag no está registrado.
// @Tags animal
// @Accept json
// @Produce json
// @Param payload body scanRequest true "Tag leído"
// @Success 200 {object} animals.Response
// @Failure 400 {object} errorResponse "UID required"
// @Failure 404 {object} errorResponse "not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /api/animal [post]
func scanAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxScanBody)

		// JSON inválido, body vacío o demasiado grande cuentan como uid ausente.
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			animals.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "UID required"})
			return
		}

		ev, err := svc.Scan(r.Context(), req.UID)
		if err != nil {
			switch {
			case errors.Is(err, ErrUIDRequired):
				animals.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "UID required"})
			case errors.Is(err, animals.ErrNotFound):
				log.Info("rfid not registered", map[string]any{"rfid_code": ev.RFIDCode, "scan_id": ev.ID})
				animals.WriteJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			default:
				log.Error("scan lookup failed", map[string]any{"err": errs.Loggable(err)})
				animals.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
			return
		}

		log.Info("rfid scanned", map[string]any{"rfid_code": ev.RFIDCode, "scan_id": ev.ID, "nama": ev.Animal.Name})
		animals.WriteJSON(w, http.StatusOK, animals.NewResponse(ev.Animal))
	}
}
