package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ShareClaims are the claims of a signed invoice share link. The subject is
// the invoice id and the audience is ShareAudience.
type ShareClaims struct {
	jwt.RegisteredClaims

	// OwnerID is the user the invoice belonged to when the link was issued.
	OwnerID int64 `json:"oid"`
}

// ShareAudience is the "aud" claim of share links.
const ShareAudience = "invoice-share"

// InvoiceID parses the subject claim.
func (c ShareClaims) InvoiceID() (int64, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting invoice id from share token: %w", err)
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting invoice id from share token: %w", err)
	}

	return id, nil
}
