package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"certhub/internal/certificate/models"
)

// Fingerprint is the hex BLAKE2b-256 digest of the certificate's customer
// facing content. Workflow fields are excluded so the value only changes when
// the document does.
func Fingerprint(cert *models.Certificate) (string, error) {
	body, err := json.Marshal(cert.Document())
	if err != nil {
		return "", fmt.Errorf("encode certificate document: %w", err)
	}
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
