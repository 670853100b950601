package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"certhub/internal/certificate/completeness"
	"certhub/internal/certificate/models"
	"certhub/internal/certificate/service"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/httputil"
	"certhub/pkg/platform/sentinel"
	"certhub/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

// Service defines the certificate operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.Certificate, error)
	Get(ctx context.Context, certificateID id.CertificateID) (*models.Certificate, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Certificate, error)
	UpdateFields(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.CertificatePatch) (*models.Certificate, error)

	Submit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64) (*models.Certificate, error)
	Approve(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, comments string) (*models.Certificate, error)
	Reject(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, reason, comments string) (*models.Certificate, error)
	RequestRevision(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, comments string) (*models.Certificate, error)
	ListReviews(ctx context.Context, certificateID id.CertificateID) ([]models.Review, error)
	RunCompletenessCheck(ctx context.Context, certificateID id.CertificateID) (*completeness.Report, error)
	ObservationSummary(ctx context.Context, certificateID id.CertificateID) (*service.ObservationSummary, error)

	AddBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.BoardPatch) (*service.BoardChange, error)
	UpdateBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, patch models.BoardPatch) (*service.BoardChange, error)
	DeleteBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID) (*models.Certificate, error)

	AddCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, patch models.CircuitPatch) (*service.CircuitChange, error)
	UpdateCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, circuitID id.CircuitID, patch models.CircuitPatch) (*service.CircuitChange, error)
	DeleteCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, circuitID id.CircuitID) (*models.Certificate, error)
	ApplyTemplate(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, templateKey string) (*service.CircuitChange, error)
	BulkAddCircuits(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, count int) (*service.CircuitsChange, error)
	ReorderCircuits(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, ordered []id.CircuitID) (*service.BoardChange, error)

	AddObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.ObservationPatch) (*service.ObservationChange, error)
	UpdateObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, observationID id.ObservationID, patch models.ObservationPatch) (*service.ObservationChange, error)
	DeleteObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, observationID id.ObservationID) (*models.Certificate, error)
}

// Handler serves the certificate editor, review workflow and lookup tables.
type Handler struct {
	certificates Service
	logger       *slog.Logger
}

func New(certificates Service, logger *slog.Logger) *Handler {
	return &Handler{certificates: certificates, logger: logger}
}

// Register mounts the certificate routes. Authentication is applied by the
// caller; every route here expects an actor on the context.
func (h *Handler) Register(r chi.Router) {
	r.Route("/certificates", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)

		r.Route("/{certificateID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)

			r.Post("/submit", h.handleSubmit)
			r.Post("/approve", h.handleApprove)
			r.Post("/reject", h.handleReject)
			r.Post("/request-revision", h.handleRequestRevision)
			r.Get("/reviews", h.handleListReviews)
			r.Get("/completeness", h.handleCompleteness)
			r.Get("/observation-summary", h.handleObservationSummary)

			r.Post("/boards", h.handleAddBoard)
			r.Route("/boards/{boardID}", func(r chi.Router) {
				r.Patch("/", h.handleUpdateBoard)
				r.Delete("/", h.handleDeleteBoard)
				r.Post("/circuits", h.handleAddCircuit)
				r.Post("/circuits/bulk", h.handleBulkAddCircuits)
				r.Post("/circuits/template", h.handleApplyTemplate)
				r.Put("/circuits/order", h.handleReorderCircuits)
				r.Patch("/circuits/{circuitID}", h.handleUpdateCircuit)
				r.Delete("/circuits/{circuitID}", h.handleDeleteCircuit)
			})

			r.Post("/observations", h.handleAddObservation)
			r.Patch("/observations/{observationID}", h.handleUpdateObservation)
			r.Delete("/observations/{observationID}", h.handleDeleteObservation)
		})
	})

	r.Get("/compliance/max-impedance", h.handleMaxImpedance)
	r.Get("/compliance/impedance-table", h.handleImpedanceTable)
	r.Get("/circuit-templates", h.handleListTemplates)
	r.Get("/observation-codes", h.handleListObservationCodes)
}

// expectedVersion reads If-Match. Absent means unconditional.
func expectedVersion(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get("If-Match"))
	if raw == "" || raw == "*" {
		return 0, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	v, err := strconv.ParseInt(strings.Trim(raw, `"`), 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "If-Match must be a certificate version")
	}
	return v, nil
}

func setETag(w http.ResponseWriter, version int64) {
	w.Header().Set("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}

func pathID[T any](r *http.Request, param string, parse func(string) (T, error)) (T, error) {
	v, err := parse(chi.URLParam(r, param))
	if err != nil {
		var zero T
		return zero, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", param)
	}
	return v, nil
}

// target bundles the certificate id and If-Match version every mutation needs.
type target struct {
	certificateID id.CertificateID
	version       int64
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request) (target, bool) {
	certificateID, err := pathID(r, "certificateID", id.ParseCertificateID)
	if err != nil {
		h.writeError(w, r, err)
		return target{}, false
	}
	version, err := expectedVersion(r)
	if err != nil {
		h.writeError(w, r, err)
		return target{}, false
	}
	return target{certificateID: certificateID, version: version}, true
}

// writeError maps a version conflict on a conditional request to 412 and
// everything else through httputil.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if r.Header.Get("If-Match") != "" && errors.Is(err, sentinel.ErrVersionMismatch) {
		err = dErrors.New(dErrors.CodePreconditionFailed, "certificate version does not match If-Match")
	}
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "certificate request failed",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "certificate request rejected",
			"request_id", requestcontext.RequestID(ctx),
			"path", r.URL.Path,
			"code", string(code),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func decode[T any](h *Handler, w http.ResponseWriter, r *http.Request) (*T, bool) {
	ctx := r.Context()
	return httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}

// decodeOptional accepts a missing body for requests whose fields are all
// optional at the HTTP boundary.
func decodeOptional[T any](h *Handler, w http.ResponseWriter, r *http.Request) (*T, bool) {
	ctx := r.Context()
	return httputil.DecodeOptionalAndPrepare[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}

func (h *Handler) writeCertificate(w http.ResponseWriter, status int, cert *models.Certificate) {
	setETag(w, cert.Version)
	httputil.WriteJSON(w, status, cert)
}
