package handler

import (
	"net/http"

	id "certhub/pkg/domain"
	"certhub/pkg/platform/httputil"
)

func (h *Handler) handleAddBoard(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decode[BoardRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.AddBoard(r.Context(), t.certificateID, t.version, req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusCreated, change)
}

func (h *Handler) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[BoardRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.UpdateBoard(r.Context(), t.certificateID, t.version, boardID, req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cert, err := h.certificates.DeleteBoard(r.Context(), t.certificateID, t.version, boardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleAddCircuit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[CircuitRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.AddCircuit(r.Context(), t.certificateID, t.version, boardID, req.patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusCreated, change)
}

func (h *Handler) handleUpdateCircuit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	circuitID, err := pathID(r, "circuitID", id.ParseCircuitID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[CircuitRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.UpdateCircuit(r.Context(), t.certificateID, t.version, boardID, circuitID, req.patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) handleDeleteCircuit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	circuitID, err := pathID(r, "circuitID", id.ParseCircuitID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cert, err := h.certificates.DeleteCircuit(r.Context(), t.certificateID, t.version, boardID, circuitID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[TemplateRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.ApplyTemplate(r.Context(), t.certificateID, t.version, boardID, req.Template)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusCreated, change)
}

func (h *Handler) handleBulkAddCircuits(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[BulkCircuitsRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.BulkAddCircuits(r.Context(), t.certificateID, t.version, boardID, req.Count)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusCreated, change)
}

func (h *Handler) handleReorderCircuits(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	boardID, err := pathID(r, "boardID", id.ParseBoardID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[ReorderCircuitsRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.ReorderCircuits(r.Context(), t.certificateID, t.version, boardID, req.ordered)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) handleAddObservation(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decode[ObservationRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.AddObservation(r.Context(), t.certificateID, t.version, req.patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusCreated, change)
}

func (h *Handler) handleUpdateObservation(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	observationID, err := pathID(r, "observationID", id.ParseObservationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	req, ok := decode[ObservationRequest](h, w, r)
	if !ok {
		return
	}
	change, err := h.certificates.UpdateObservation(r.Context(), t.certificateID, t.version, observationID, req.patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	setETag(w, change.Version)
	httputil.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) handleDeleteObservation(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	observationID, err := pathID(r, "observationID", id.ParseObservationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cert, err := h.certificates.DeleteObservation(r.Context(), t.certificateID, t.version, observationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}
