package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"animal-rfid-relay/internal/platform/errs"
	"animal-rfid-relay/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/hewan", listAnimalsHandler(svc, log))
}

// Response es la representación JSON de un animal (mismos nombres que las columnas).
type Response struct {
	ID           int64  `json:"id"`
	RFIDCode     string `json:"rfid_code"`
	Name         string `json:"nama"`
	Species      string `json:"jenis"`
	Age          int    `json:"usia"`
	HealthStatus string `json:"status_kesehatan"`
}

// listResponse es la página devuelta por GET /hewan.
type listResponse struct {
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
	Data       []Response `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Lista paginada de animales con búsqueda (nama o jenis, sin distinguir mayúsculas) y orden por columna permitida.
// @Tags hewan
// @Produce json
// @Param page query int false "Página (1-based). Por defecto 1"
// @Param limit query int false "Filas por página (1-100). Por defecto 10"
// @Param search query string false "Substring a buscar en nama o jenis"
// @Param sortBy query string false "Columna de orden" Enums(id, rfid_code, nama, jenis, usia, status_kesehatan)
// @Param order query string false "ASC o DESC; cualquier otro valor => ASC"
// @Success 200 {object} listResponse
// @Failure 400 {object} messageResponse "sortBy inválido"
// @Failure 500 {object} messageResponse "internal error"
// @Router /hewan [get]
func listAnimalsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()

		page, err := svc.List(r.Context(), ListInput{
			Page:   atoiOrZero(qs.Get("page")),
			Limit:  atoiOrZero(qs.Get("limit")),
			Search: qs.Get("search"),
			SortBy: qs.Get("sortBy"),
			Order:  qs.Get("order"),
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidSort):
				WriteJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			default:
				log.Error("list animals failed", map[string]any{"err": errs.Loggable(err)})
				WriteJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal error"})
			}
			return
		}

		out := make([]Response, 0, len(page.Items))
		for _, a := range page.Items {
			out = append(out, NewResponse(a))
		}

		WriteJSON(w, http.StatusOK, listResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
			Data:       out,
		})
	}
}

func NewResponse(a Animal) Response {
	return Response{
		ID:           a.ID,
		RFIDCode:     a.RFIDCode,
		Name:         a.Name,
		Species:      a.Species,
		Age:          a.Age,
		HealthStatus: a.HealthStatus,
	}
}

// atoiOrZero: valores no numéricos caen al default del service.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
