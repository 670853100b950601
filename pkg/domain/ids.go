// Package domain holds the typed identifiers shared by the certificate
// aggregate, its stores and its HTTP surface.
package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"

	dErrors "certhub/pkg/domain-errors"
)

// Typed IDs keep certificate, board, circuit and observation identifiers from
// being passed where another is expected.
type (
	CertificateID uuid.UUID
	BoardID       uuid.UUID
	CircuitID     uuid.UUID
	ObservationID uuid.UUID
	ReviewID      uuid.UUID
)

func NewCertificateID() CertificateID { return CertificateID(uuid.New()) }
func NewBoardID() BoardID             { return BoardID(uuid.New()) }
func NewCircuitID() CircuitID         { return CircuitID(uuid.New()) }
func NewObservationID() ObservationID { return ObservationID(uuid.New()) }
func NewReviewID() ReviewID           { return ReviewID(uuid.New()) }

func ParseCertificateID(s string) (CertificateID, error) {
	u, err := parseUUID(s, "certificate_id")
	return CertificateID(u), err
}

func ParseBoardID(s string) (BoardID, error) {
	u, err := parseUUID(s, "board_id")
	return BoardID(u), err
}

func ParseCircuitID(s string) (CircuitID, error) {
	u, err := parseUUID(s, "circuit_id")
	return CircuitID(u), err
}

func ParseObservationID(s string) (ObservationID, error) {
	u, err := parseUUID(s, "observation_id")
	return ObservationID(u), err
}

func ParseReviewID(s string) (ReviewID, error) {
	u, err := parseUUID(s, "review_id")
	return ReviewID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs.
func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s is required", field)
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("invalid %s", field))
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s cannot be nil", field)
	}
	return u, nil
}

func (id CertificateID) String() string { return uuid.UUID(id).String() }
func (id BoardID) String() string       { return uuid.UUID(id).String() }
func (id CircuitID) String() string     { return uuid.UUID(id).String() }
func (id ObservationID) String() string { return uuid.UUID(id).String() }
func (id ReviewID) String() string      { return uuid.UUID(id).String() }

func (id CertificateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BoardID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CircuitID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ObservationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id CertificateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id BoardID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id CircuitID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id ObservationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ReviewID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }

func (id *CertificateID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *BoardID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CircuitID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ObservationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ReviewID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }

// SQL bindings so stores can pass typed IDs straight to sqlx.

func (id CertificateID) Value() (driver.Value, error) { return id.String(), nil }
func (id BoardID) Value() (driver.Value, error)       { return id.String(), nil }
func (id CircuitID) Value() (driver.Value, error)     { return id.String(), nil }
func (id ObservationID) Value() (driver.Value, error) { return id.String(), nil }
func (id ReviewID) Value() (driver.Value, error)      { return id.String(), nil }

func (id *CertificateID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
func (id *BoardID) Scan(src any) error       { return (*uuid.UUID)(id).Scan(src) }
func (id *CircuitID) Scan(src any) error     { return (*uuid.UUID)(id).Scan(src) }
func (id *ObservationID) Scan(src any) error { return (*uuid.UUID)(id).Scan(src) }
func (id *ReviewID) Scan(src any) error      { return (*uuid.UUID)(id).Scan(src) }
