package handler

import (
	"net/http"
	"strconv"

	"certhub/internal/certificate/models"
	"certhub/internal/certificate/service"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/httputil"
)

type listResponse struct {
	Certificates []*models.Certificate `json:"certificates"`
	Count        int                   `json:"count"`
}

type reviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[CreateCertificateRequest](h, w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.Create(r.Context(), service.CreateInput{
		Type:         req.certType,
		PropertyRef:  req.PropertyRef,
		Client:       req.Client,
		Installation: req.Installation,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/certificates/"+cert.ID.String())
	h.writeCertificate(w, http.StatusCreated, cert)
}

// handleList serves the review queue when filtered by status=submitted.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var filter models.ListFilter
	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		filter.Status = status
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			h.writeError(w, r, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		filter.Limit = limit
	}

	certs, err := h.certificates.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Certificates: certs, Count: len(certs)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	certificateID, err := pathID(r, "certificateID", id.ParseCertificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cert, err := h.certificates.Get(r.Context(), certificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decode[UpdateCertificateRequest](h, w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.UpdateFields(r.Context(), t.certificateID, t.version, req.patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.Submit(r.Context(), t.certificateID, t.version)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[ApproveRequest](h, w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.Approve(r.Context(), t.certificateID, t.version, req.Comments)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[RejectRequest](h, w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.Reject(r.Context(), t.certificateID, t.version, req.Reason, req.Comments)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleRequestRevision(w http.ResponseWriter, r *http.Request) {
	t, ok := h.target(w, r)
	if !ok {
		return
	}
	req, ok := decodeOptional[RequestRevisionRequest](h, w, r)
	if !ok {
		return
	}
	cert, err := h.certificates.RequestRevision(r.Context(), t.certificateID, t.version, req.Comments)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCertificate(w, http.StatusOK, cert)
}

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	certificateID, err := pathID(r, "certificateID", id.ParseCertificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reviews, err := h.certificates.ListReviews(r.Context(), certificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviewsResponse{Reviews: reviews})
}

func (h *Handler) handleCompleteness(w http.ResponseWriter, r *http.Request) {
	certificateID, err := pathID(r, "certificateID", id.ParseCertificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := h.certificates.RunCompletenessCheck(r.Context(), certificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleObservationSummary(w http.ResponseWriter, r *http.Request) {
	certificateID, err := pathID(r, "certificateID", id.ParseCertificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.certificates.ObservationSummary(r.Context(), certificateID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
