package handler

import (
	"net/http"
	"strconv"

	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/severity"
	"certhub/internal/certificate/templates"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/httputil"
)

type maxImpedanceResponse struct {
	Device compliance.DeviceType `json:"device"`
	Rating int                   `json:"rating"`
	Known  bool                  `json:"known"`
	MaxZs  *float64              `json:"max_zs"`
}

// handleMaxImpedance answers known=false for combinations outside the table;
// that is a normal outcome, not an error.
func (h *Handler) handleMaxImpedance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	device, err := compliance.ParseDeviceType(q.Get("device"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rating, err := strconv.Atoi(q.Get("rating"))
	if err != nil || rating <= 0 {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "rating must be a positive number of amps"))
		return
	}
	maxZs := compliance.LookupMaxImpedance(device, rating)
	httputil.WriteJSON(w, http.StatusOK, maxImpedanceResponse{
		Device: device,
		Rating: rating,
		Known:  maxZs != nil,
		MaxZs:  maxZs,
	})
}

func (h *Handler) handleImpedanceTable(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": compliance.Table()})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"templates": templates.All()})
}

func (h *Handler) handleListObservationCodes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"codes": severity.Definitions()})
}
