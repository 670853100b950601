package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/handler/mocks"
	"certhub/internal/certificate/models"
	"certhub/internal/certificate/service"
	"certhub/internal/certificate/severity"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
	"certhub/pkg/platform/sentinel"
)

type CertificateHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	certID  id.CertificateID
	boardID id.BoardID
}

func TestCertificateHandlerSuite(t *testing.T) {
	suite.Run(t, new(CertificateHandlerSuite))
}

func (s *CertificateHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
	s.certID = id.NewCertificateID()
	s.boardID = id.NewBoardID()
}

func (s *CertificateHandlerSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			s.Require().NoError(err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CertificateHandlerSuite) certificate(status models.Status, version int64) *models.Certificate {
	return &models.Certificate{
		ID:        s.certID,
		Type:      models.TypePeriodicConditionReport,
		Status:    status,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Version:   version,
	}
}

func (s *CertificateHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *CertificateHandlerSuite) path(suffix string) string {
	return "/certificates/" + s.certID.String() + suffix
}

func (s *CertificateHandlerSuite) TestCreate() {
	s.service.EXPECT().Create(gomock.Any(), service.CreateInput{
		Type:        models.TypePeriodicConditionReport,
		PropertyRef: "PROP-1",
		Client:      models.ClientDetails{Name: "A. Client", Address: "1 High St"},
	}).Return(s.certificate(models.StatusDraft, 1), nil)

	rec := s.do(http.MethodPost, "/certificates", map[string]any{
		"type":         "periodic-condition-report",
		"property_ref": "PROP-1",
		"client":       map[string]string{"name": "A. Client", "address": "1 High St"},
	})

	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(`"1"`, rec.Header().Get("ETag"))
	s.Equal("/certificates/"+s.certID.String(), rec.Header().Get("Location"))
}

func (s *CertificateHandlerSuite) TestCreateRejectsUnknownType() {
	rec := s.do(http.MethodPost, "/certificates", map[string]any{"type": "gas-safety"})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("validation_error", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestCreateRejectsUnknownFields() {
	rec := s.do(http.MethodPost, "/certificates", `{"type":"minor_works","colour":"blue"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *CertificateHandlerSuite) TestListReviewQueue() {
	s.service.EXPECT().List(gomock.Any(), models.ListFilter{Status: models.StatusSubmitted, Limit: 20}).
		Return([]*models.Certificate{s.certificate(models.StatusSubmitted, 3)}, nil)

	rec := s.do(http.MethodGet, "/certificates?status=submitted&limit=20", nil)
	s.Equal(http.StatusOK, rec.Code)

	var body listResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(1, body.Count)
}

func (s *CertificateHandlerSuite) TestListRejectsUnknownStatus() {
	rec := s.do(http.MethodGet, "/certificates?status=archived", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *CertificateHandlerSuite) TestGetNotFound() {
	s.service.EXPECT().Get(gomock.Any(), s.certID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "certificate not found"))

	rec := s.do(http.MethodGet, s.path(""), nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("not_found", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestGetRejectsMalformedID() {
	rec := s.do(http.MethodGet, "/certificates/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *CertificateHandlerSuite) TestSubmitPassesIfMatchVersion() {
	s.service.EXPECT().Submit(gomock.Any(), s.certID, int64(4)).
		Return(s.certificate(models.StatusSubmitted, 5), nil)

	rec := s.do(http.MethodPost, s.path("/submit"), nil, "If-Match", `"4"`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(`"5"`, rec.Header().Get("ETag"))
}

func (s *CertificateHandlerSuite) TestStaleIfMatchIsPreconditionFailed() {
	s.service.EXPECT().Submit(gomock.Any(), s.certID, int64(2)).
		Return(nil, dErrors.Wrap(sentinel.ErrVersionMismatch, dErrors.CodeConflict, "certificate was modified"))

	rec := s.do(http.MethodPost, s.path("/submit"), nil, "If-Match", `W/"2"`)
	s.Equal(http.StatusPreconditionFailed, rec.Code)
	s.Equal("precondition_failed", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestMalformedIfMatch() {
	rec := s.do(http.MethodPost, s.path("/submit"), nil, "If-Match", "yesterday")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *CertificateHandlerSuite) TestLockedCertificateIsConflict() {
	s.service.EXPECT().Submit(gomock.Any(), s.certID, int64(0)).
		Return(nil, dErrors.New(dErrors.CodeInvalidState, "certificate is locked"))

	rec := s.do(http.MethodPost, s.path("/submit"), nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("invalid_state", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestApprove() {
	approved := s.certificate(models.StatusApproved, 6)
	approved.Approval.Fingerprint = "abc"
	s.service.EXPECT().Approve(gomock.Any(), s.certID, int64(5), "looks good").Return(approved, nil)

	rec := s.do(http.MethodPost, s.path("/approve"), ApproveRequest{Comments: "looks good"}, "If-Match", "5")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CertificateHandlerSuite) TestApproveWithoutBody() {
	s.service.EXPECT().Approve(gomock.Any(), s.certID, int64(5), "").
		Return(s.certificate(models.StatusApproved, 6), nil)

	rec := s.do(http.MethodPost, s.path("/approve"), nil, "If-Match", "5")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(`"6"`, rec.Header().Get("ETag"))
}

func (s *CertificateHandlerSuite) TestApproveRejectsMalformedBody() {
	rec := s.do(http.MethodPost, s.path("/approve"), `{"comments":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("bad_request", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestRejectWithoutReasonReachesWorkflow() {
	s.service.EXPECT().Reject(gomock.Any(), s.certID, int64(0), "", "no").
		Return(nil, dErrors.New(dErrors.CodeValidation, "a rejection reason is required"))

	rec := s.do(http.MethodPost, s.path("/reject"), RejectRequest{Comments: "no"})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("validation_error", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestRejectFinalisedCertificateWithoutReason() {
	s.service.EXPECT().Reject(gomock.Any(), s.certID, int64(0), "", "").
		Return(nil, dErrors.New(dErrors.CodeInvalidState, "certificate is approved"))

	rec := s.do(http.MethodPost, s.path("/reject"), nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("invalid_state", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestReject() {
	s.service.EXPECT().Reject(gomock.Any(), s.certID, int64(0), "wrong property", "").
		Return(s.certificate(models.StatusRejected, 4), nil)

	rec := s.do(http.MethodPost, s.path("/reject"), RejectRequest{Reason: "wrong property"})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CertificateHandlerSuite) TestRequestRevisionRequiresComments() {
	s.service.EXPECT().RequestRevision(gomock.Any(), s.certID, int64(0), "").
		Return(nil, dErrors.New(dErrors.CodeValidation, "revision comments are required"))

	rec := s.do(http.MethodPost, s.path("/request-revision"), map[string]string{})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("validation_error", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestForbiddenReviewer() {
	s.service.EXPECT().RequestRevision(gomock.Any(), s.certID, int64(0), "fix Zs on circuit 3").
		Return(nil, dErrors.New(dErrors.CodeForbidden, "actor is not permitted to review certificates"))

	rec := s.do(http.MethodPost, s.path("/request-revision"), RequestRevisionRequest{Comments: "fix Zs on circuit 3"})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *CertificateHandlerSuite) TestListReviews() {
	s.service.EXPECT().ListReviews(gomock.Any(), s.certID).Return([]models.Review{
		{CertificateID: s.certID, Action: models.ReviewActionApproved},
	}, nil)

	rec := s.do(http.MethodGet, s.path("/reviews"), nil)
	s.Equal(http.StatusOK, rec.Code)
	var body reviewsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body.Reviews, 1)
	s.Equal(models.ReviewActionApproved, body.Reviews[0].Action)
}

func (s *CertificateHandlerSuite) TestUpdateFieldsParsesAssessment() {
	s.service.EXPECT().UpdateFields(gomock.Any(), s.certID, int64(0), gomock.Any()).
		DoAndReturn(func(_ any, _ id.CertificateID, _ int64, patch models.CertificatePatch) (*models.Certificate, error) {
			s.Require().NotNil(patch.OverallAssessment)
			s.Equal(models.AssessmentUnsatisfactory, *patch.OverallAssessment)
			return s.certificate(models.StatusDraft, 2), nil
		})

	rec := s.do(http.MethodPatch, s.path(""), map[string]any{"overall_assessment": "Unsatisfactory"})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *CertificateHandlerSuite) TestAddCircuitParsesDevice() {
	maxZs := 1.37
	s.service.EXPECT().AddCircuit(gomock.Any(), s.certID, int64(0), s.boardID, gomock.Any()).
		DoAndReturn(func(_ any, _ id.CertificateID, _ int64, _ id.BoardID, patch models.CircuitPatch) (*service.CircuitChange, error) {
			s.Require().NotNil(patch.DeviceType)
			s.Equal(compliance.DeviceTypeB, *patch.DeviceType)
			return &service.CircuitChange{
				Circuit: models.Circuit{Number: 1, DeviceType: compliance.DeviceTypeB, DeviceRating: 32, MaxZs: &maxZs},
				Version: 3,
			}, nil
		})

	rec := s.do(http.MethodPost, s.path("/boards/"+s.boardID.String()+"/circuits"),
		map[string]any{"designation": "Sockets", "device_type": "b", "device_rating": 32})
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(`"3"`, rec.Header().Get("ETag"))
}

func (s *CertificateHandlerSuite) TestAddCircuitRejectsUnknownDevice() {
	rec := s.do(http.MethodPost, s.path("/boards/"+s.boardID.String()+"/circuits"),
		map[string]any{"device_type": "Z"})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *CertificateHandlerSuite) TestBulkAddBounds() {
	rec := s.do(http.MethodPost, s.path("/boards/"+s.boardID.String()+"/circuits/bulk"), BulkCircuitsRequest{Count: 101})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	s.service.EXPECT().BulkAddCircuits(gomock.Any(), s.certID, int64(0), s.boardID, 4).
		Return(&service.CircuitsChange{Version: 2}, nil)
	rec = s.do(http.MethodPost, s.path("/boards/"+s.boardID.String()+"/circuits/bulk"), BulkCircuitsRequest{Count: 4})
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *CertificateHandlerSuite) TestReorderOwnershipMismatch() {
	first, second := id.NewCircuitID(), id.NewCircuitID()
	s.service.EXPECT().ReorderCircuits(gomock.Any(), s.certID, int64(0), s.boardID, []id.CircuitID{first, second}).
		Return(nil, dErrors.New(dErrors.CodeOwnershipMismatch, "circuit does not belong to board"))

	rec := s.do(http.MethodPut, s.path("/boards/"+s.boardID.String()+"/circuits/order"),
		map[string]any{"circuit_ids": []string{first.String(), second.String()}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("ownership_mismatch", s.errorCode(rec))
}

func (s *CertificateHandlerSuite) TestReorderRejectsMalformedIDs() {
	rec := s.do(http.MethodPut, s.path("/boards/"+s.boardID.String()+"/circuits/order"),
		map[string]any{"circuit_ids": []string{"nope"}})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *CertificateHandlerSuite) TestApplyTemplate() {
	s.service.EXPECT().ApplyTemplate(gomock.Any(), s.certID, int64(0), s.boardID, "cooker").
		Return(&service.CircuitChange{Version: 2}, nil)

	rec := s.do(http.MethodPost, s.path("/boards/"+s.boardID.String()+"/circuits/template"), TemplateRequest{Template: "cooker"})
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *CertificateHandlerSuite) TestAddObservationClearsLinksOnEmptyIDs() {
	s.service.EXPECT().AddObservation(gomock.Any(), s.certID, int64(0), gomock.Any()).
		DoAndReturn(func(_ any, _ id.CertificateID, _ int64, patch models.ObservationPatch) (*service.ObservationChange, error) {
			s.Require().NotNil(patch.Code)
			s.Equal(severity.CodeC2, *patch.Code)
			s.True(patch.ClearBoard)
			return &service.ObservationChange{Version: 2}, nil
		})

	rec := s.do(http.MethodPost, s.path("/observations"), map[string]any{
		"code":           "c2",
		"text":           "No RCD protection for sockets",
		"recommendation": "Fit RCBOs",
		"board_id":       "",
	})
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *CertificateHandlerSuite) TestDeleteObservation() {
	observationID := id.NewObservationID()
	s.service.EXPECT().DeleteObservation(gomock.Any(), s.certID, int64(7), observationID).
		Return(s.certificate(models.StatusDraft, 8), nil)

	rec := s.do(http.MethodDelete, s.path("/observations/"+observationID.String()), nil, "If-Match", `"7"`)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(`"8"`, rec.Header().Get("ETag"))
}

func (s *CertificateHandlerSuite) TestInternalErrorsHideDescription() {
	s.service.EXPECT().ObservationSummary(gomock.Any(), s.certID).
		Return(nil, dErrors.New(dErrors.CodeInternal, "database exploded"))

	rec := s.do(http.MethodGet, s.path("/observation-summary"), nil)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "exploded")
}

func (s *CertificateHandlerSuite) TestMaxImpedance() {
	rec := s.do(http.MethodGet, "/compliance/max-impedance?device=B&rating=32", nil)
	s.Equal(http.StatusOK, rec.Code)
	var body maxImpedanceResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Known)
	s.Require().NotNil(body.MaxZs)
	s.InDelta(1.37, *body.MaxZs, 1e-9)

	rec = s.do(http.MethodGet, "/compliance/max-impedance?device=B&rating=45", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.False(body.Known)
	s.Nil(body.MaxZs)

	rec = s.do(http.MethodGet, "/compliance/max-impedance?device=Q&rating=32", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *CertificateHandlerSuite) TestCatalogues() {
	for _, path := range []string{"/circuit-templates", "/observation-codes", "/compliance/impedance-table"} {
		rec := s.do(http.MethodGet, path, nil)
		s.Equal(http.StatusOK, rec.Code, path)
	}
}
