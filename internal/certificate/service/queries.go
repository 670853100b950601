package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"certhub/internal/certificate/completeness"
	"certhub/internal/certificate/models"
	"certhub/internal/certificate/severity"
	id "certhub/pkg/domain"
)

// Snapshot is a certificate together with its review log.
type Snapshot struct {
	Certificate *models.Certificate `json:"certificate"`
	Reviews     []models.Review     `json:"reviews"`
}

// ObservationSummary feeds the advisory warnings shown to editors and
// reviewers. It never blocks a transition.
type ObservationSummary struct {
	severity.Summary
	NonCompliantCircuits []models.Circuit `json:"non_compliant_circuits"`
}

func (s *Service) Get(ctx context.Context, certificateID id.CertificateID) (cert *models.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "get", certificateID)
	defer func() { endSpan(span, err) }()

	cert, err = s.certificates.FindByID(ctx, certificateID)
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to load certificate")
	}
	return cert, nil
}

// List returns certificates matching filter. Filtering on submitted gives the
// review queue.
func (s *Service) List(ctx context.Context, filter models.ListFilter) (certs []*models.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "list", id.CertificateID{})
	defer func() { endSpan(span, err) }()

	certs, err = s.certificates.List(ctx, filter)
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to list certificates")
	}
	return certs, nil
}

// Snapshot loads the certificate and its review log concurrently.
func (s *Service) Snapshot(ctx context.Context, certificateID id.CertificateID) (snap *Snapshot, err error) {
	ctx, span := s.startSpan(ctx, "snapshot", certificateID)
	defer func() { endSpan(span, err) }()

	var cert *models.Certificate
	var reviews []models.Review
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cert, err = s.certificates.FindByID(gctx, certificateID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.ListByCertificate(gctx, certificateID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, s.translate(err, "certificate not found", "failed to load certificate")
	}
	return &Snapshot{Certificate: cert, Reviews: reviews}, nil
}

// ListReviews returns the review log oldest first. Unknown certificates fail
// not_found rather than returning an empty log.
func (s *Service) ListReviews(ctx context.Context, certificateID id.CertificateID) ([]models.Review, error) {
	snap, err := s.Snapshot(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	return snap.Reviews, nil
}

// RunCompletenessCheck evaluates the completeness battery against the stored
// certificate. It may be called in any status.
func (s *Service) RunCompletenessCheck(ctx context.Context, certificateID id.CertificateID) (*completeness.Report, error) {
	cert, err := s.Get(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	report := completeness.Check(cert)
	return &report, nil
}

func (s *Service) ObservationSummary(ctx context.Context, certificateID id.CertificateID) (*ObservationSummary, error) {
	cert, err := s.Get(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	nonCompliant := cert.NonCompliantCircuits()
	if nonCompliant == nil {
		nonCompliant = []models.Circuit{}
	}
	return &ObservationSummary{
		Summary:              severity.Summarize(models.ObservationCodes(cert.Observations)),
		NonCompliantCircuits: nonCompliant,
	}, nil
}
