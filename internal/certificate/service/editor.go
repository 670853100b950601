package service

import (
	"context"
	"time"

	"certhub/internal/certificate/models"
	"certhub/internal/certificate/templates"
	id "certhub/pkg/domain"
	"certhub/pkg/platform/audit"
	"certhub/pkg/requestcontext"
)

// CreateInput carries the fields a new draft starts with.
type CreateInput struct {
	Type         models.CertificateType
	PropertyRef  string
	Client       models.ClientDetails
	Installation models.InstallationDetails
}

// BoardChange is the outcome of a board mutation.
type BoardChange struct {
	Board   models.Board `json:"board"`
	Version int64        `json:"version"`
}

// CircuitChange is the outcome of a single circuit mutation.
type CircuitChange struct {
	Circuit      models.Circuit `json:"circuit"`
	NonCompliant bool           `json:"non_compliant"`
	Version      int64          `json:"version"`
}

// CircuitsChange is the outcome of a bulk circuit mutation.
type CircuitsChange struct {
	Circuits []models.Circuit `json:"circuits"`
	Version  int64            `json:"version"`
}

// ObservationChange is the outcome of an observation mutation.
type ObservationChange struct {
	Observation models.Observation `json:"observation"`
	Version     int64              `json:"version"`
}

// Create starts a draft certificate owned by the calling actor.
func (s *Service) Create(ctx context.Context, in CreateInput) (cert *models.Certificate, err error) {
	ctx, span := s.startSpan(ctx, "create", id.CertificateID{})
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	actorID := requestcontext.ActorID(ctx)
	cert, err = models.NewCertificate(id.NewCertificateID(), in.Type, in.PropertyRef, in.Client, in.Installation, actorID, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(withTxKey(ctx, cert.ID.String()), func(ctx context.Context) error {
		if err := s.certificates.Create(ctx, cert); err != nil {
			return err
		}
		return s.emit(ctx, audit.ComplianceEvent{
			Timestamp:     now,
			CertificateID: cert.ID,
			Action:        string(audit.EventCertificateCreated),
			ToStatus:      string(cert.Status),
			ActorID:       actorID,
		})
	})
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to create certificate")
	}

	if s.metrics != nil {
		s.metrics.IncrementCertificatesCreated()
	}
	s.logAudit(ctx, string(audit.EventCertificateCreated),
		"certificate_id", cert.ID.String(),
		"certificate_type", string(cert.Type),
		"actor_id", actorID,
	)
	return cert, nil
}

// edit runs an editor mutation against an editable certificate.
func (s *Service) edit(
	ctx context.Context,
	op string,
	certificateID id.CertificateID,
	expectedVersion int64,
	mutate func(c *models.Certificate, now time.Time) error,
) (cert *models.Certificate, err error) {
	ctx, span := s.startSpan(ctx, op, certificateID)
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	cert, err = s.certificates.Execute(ctx, certificateID, expectedVersion,
		func(c *models.Certificate) error { return c.CanEdit() },
		func(c *models.Certificate) error { return mutate(c, now) },
	)
	if err != nil {
		return nil, s.translate(err, "certificate not found", "failed to update certificate")
	}
	return cert, nil
}

// UpdateFields applies a partial update to the certificate's own fields.
func (s *Service) UpdateFields(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.CertificatePatch) (*models.Certificate, error) {
	cert, err := s.edit(ctx, "update_fields", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		return c.UpdateFields(patch, now)
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCertificateUpdated, certificateID, certificateID.String())
	return cert, nil
}

func (s *Service) AddBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.BoardPatch) (*BoardChange, error) {
	var board models.Board
	cert, err := s.edit(ctx, "add_board", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		board, err = c.AddBoard(patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventBoardAdded, certificateID, board.ID.String())
	return &BoardChange{Board: board, Version: cert.Version}, nil
}

func (s *Service) UpdateBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, patch models.BoardPatch) (*BoardChange, error) {
	var board models.Board
	cert, err := s.edit(ctx, "update_board", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		board, err = c.UpdateBoard(boardID, patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventBoardUpdated, certificateID, boardID.String())
	return &BoardChange{Board: board, Version: cert.Version}, nil
}

// DeleteBoard removes a board and its circuits. Observations pointing at them
// are kept but detached.
func (s *Service) DeleteBoard(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID) (*models.Certificate, error) {
	cert, err := s.edit(ctx, "delete_board", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		return c.RemoveBoard(boardID, now)
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventBoardDeleted, certificateID, boardID.String())
	return cert, nil
}

func (s *Service) AddCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, patch models.CircuitPatch) (*CircuitChange, error) {
	var circuit models.Circuit
	cert, err := s.edit(ctx, "add_circuit", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		circuit, err = c.AddCircuit(boardID, patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCircuitAdded, certificateID, circuit.ID.String())
	return s.circuitChange(ctx, certificateID, circuit, cert.Version), nil
}

func (s *Service) UpdateCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, circuitID id.CircuitID, patch models.CircuitPatch) (*CircuitChange, error) {
	var circuit models.Circuit
	cert, err := s.edit(ctx, "update_circuit", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		circuit, err = c.UpdateCircuit(boardID, circuitID, patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCircuitUpdated, certificateID, circuitID.String())
	return s.circuitChange(ctx, certificateID, circuit, cert.Version), nil
}

func (s *Service) DeleteCircuit(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, circuitID id.CircuitID) (*models.Certificate, error) {
	cert, err := s.edit(ctx, "delete_circuit", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		return c.RemoveCircuit(boardID, circuitID, now)
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCircuitDeleted, certificateID, circuitID.String())
	return cert, nil
}

// ApplyTemplate adds one circuit from the named catalogue template with the
// board's next circuit number.
func (s *Service) ApplyTemplate(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, templateKey string) (*CircuitChange, error) {
	tmpl, err := templates.Lookup(templateKey)
	if err != nil {
		return nil, err
	}
	var circuit models.Circuit
	cert, err := s.edit(ctx, "apply_template", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		circuit, err = c.ApplyTemplate(boardID, tmpl, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventTemplateApplied, certificateID, circuit.ID.String())
	return s.circuitChange(ctx, certificateID, circuit, cert.Version), nil
}

// BulkAddCircuits appends count spare circuits numbered on from the board's
// current maximum.
func (s *Service) BulkAddCircuits(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, count int) (*CircuitsChange, error) {
	var circuits []models.Circuit
	cert, err := s.edit(ctx, "bulk_add_circuits", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		circuits, err = c.BulkAddCircuits(boardID, count, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCircuitsBulkAdded, certificateID, boardID.String())
	return &CircuitsChange{Circuits: circuits, Version: cert.Version}, nil
}

// ReorderCircuits rewrites the board's circuit order in one write. A foreign
// id fails ownership_mismatch and leaves the order untouched.
func (s *Service) ReorderCircuits(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, boardID id.BoardID, ordered []id.CircuitID) (*BoardChange, error) {
	var board models.Board
	cert, err := s.edit(ctx, "reorder_circuits", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		if err := c.ReorderCircuits(boardID, ordered, now); err != nil {
			return err
		}
		b, err := c.FindBoard(boardID)
		if err != nil {
			return err
		}
		board = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventCircuitsReordered, certificateID, boardID.String())
	return &BoardChange{Board: board, Version: cert.Version}, nil
}

func (s *Service) AddObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, patch models.ObservationPatch) (*ObservationChange, error) {
	var observation models.Observation
	cert, err := s.edit(ctx, "add_observation", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		observation, err = c.AddObservation(patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventObservationAdded, certificateID, observation.ID.String())
	return &ObservationChange{Observation: observation, Version: cert.Version}, nil
}

func (s *Service) UpdateObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, observationID id.ObservationID, patch models.ObservationPatch) (*ObservationChange, error) {
	var observation models.Observation
	cert, err := s.edit(ctx, "update_observation", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		var err error
		observation, err = c.UpdateObservation(observationID, patch, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventObservationUpdated, certificateID, observationID.String())
	return &ObservationChange{Observation: observation, Version: cert.Version}, nil
}

func (s *Service) DeleteObservation(ctx context.Context, certificateID id.CertificateID, expectedVersion int64, observationID id.ObservationID) (*models.Certificate, error) {
	cert, err := s.edit(ctx, "delete_observation", certificateID, expectedVersion, func(c *models.Certificate, now time.Time) error {
		return c.RemoveObservation(observationID, now)
	})
	if err != nil {
		return nil, err
	}
	s.trackEdit(ctx, audit.EventObservationDeleted, certificateID, observationID.String())
	return cert, nil
}

// circuitChange flags a circuit whose measured Zs exceeds its maximum. The
// flag is advisory and never blocks the write.
func (s *Service) circuitChange(ctx context.Context, certificateID id.CertificateID, circuit models.Circuit, version int64) *CircuitChange {
	nonCompliant := circuit.IsNonCompliant()
	if nonCompliant {
		if s.metrics != nil {
			s.metrics.IncrementNonCompliantCircuit()
		}
		s.logger.WarnContext(ctx, "circuit exceeds maximum earth fault loop impedance",
			"certificate_id", certificateID.String(),
			"circuit_id", circuit.ID.String(),
			"circuit_number", circuit.Number,
		)
	}
	return &CircuitChange{Circuit: circuit, NonCompliant: nonCompliant, Version: version}
}

// emit forwards a compliance event when an auditor is configured.
func (s *Service) emit(ctx context.Context, event audit.ComplianceEvent) error {
	if s.compliance == nil {
		return nil
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	return s.compliance.Emit(ctx, event)
}
