package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidShareTokenParams is returned by GenerateShareToken when a
// required parameter is empty or zero.
var ErrInvalidShareTokenParams = errors.New("invalid params for generating share token")

// GenerateShareToken creates a signed HMAC-SHA256 JWT granting read-only
// access to a single invoice.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the invoice ID encoded as a string
//   - Audience  (aud): models.ShareAudience
//   - IssuedAt  (iat): now
//   - ExpiresAt (exp): now plus duration
//   - oid: the owner of the invoice
//
// Example usage:
//
//	signed, exp, err := utils.GenerateShareToken("go-invoicer", 7, 1, 72*time.Hour, key, time.Now())
func GenerateShareToken(issuer string, invoiceID, ownerID int64, duration time.Duration, signKey string, now time.Time) (string, time.Time, error) {
	if issuer == "" || duration == 0 || signKey == "" || invoiceID == 0 {
		return "", time.Time{}, ErrInvalidShareTokenParams
	}

	expiresAt := now.Add(duration)
	claims := &models.ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(invoiceID, 10),
			Audience:  jwt.ClaimStrings{models.ShareAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OwnerID: ownerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error occurred during signing share token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateAndParseShareToken validates tokenString and extracts its claims.
//
// Validation includes signature verification with signKey (HS256 only), the
// issuer and audience claims and expiration relative to now.
func ValidateAndParseShareToken(tokenString, signKey, issuer string, now time.Time) (models.ShareClaims, error) {
	var claims models.ShareClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(models.ShareAudience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return models.ShareClaims{}, fmt.Errorf("error occurred validating and parsing share token: %w", err)
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
