package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mercaved/marketplace/internal/models"
)

const (
	AdminCookieName  = "loginCookie"
	VendorCookieName = "userSessionCookie"

	AdminTokenTTL  = 24 * time.Hour
	VendorTokenTTL = 2 * time.Hour
)

var ErrMalformedClaims = errors.New("malformed claims payload")

const (
	kindAdmin  = "admin"
	kindVendor = "vendor"
)

// AdminClaims carries the administrator's identity plus the role and region
// at issuance time. Authorization decisions never trust these snapshots; the
// resolver re-fetches the live row and uses the claims only for identity.
type AdminClaims struct {
	AdminID uint          `json:"_id"`
	Kind    string        `json:"tipo_sesion"`
	Role    models.Role   `json:"rol"`
	Region  models.Region `json:"estado"`
	jwt.RegisteredClaims
}

type VendorClaims struct {
	VendorID uint   `json:"_id"`
	Kind     string `json:"tipo_sesion"`
	Email    string `json:"email"`
	Name     string `json:"nombre"`
	jwt.RegisteredClaims
}

func hs256Key(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected sign method: %v", t.Header["alg"])
		}
		return secret, nil
	}
}

func SignAdmin(admin *models.Administrator, secret []byte, now time.Time) (string, error) {
	claims := AdminClaims{
		AdminID: admin.ID,
		Kind:    kindAdmin,
		Role:    admin.Role,
		Region:  admin.Region,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AdminTokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignVendor(vendor *models.Vendor, secret []byte, now time.Time) (string, error) {
	claims := VendorClaims{
		VendorID: vendor.ID,
		Kind:     kindVendor,
		Email:    vendor.Email,
		Name:     vendor.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(VendorTokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// ParseAdmin verifies signature and expiry and rejects any payload that does
// not carry a well-formed administrator identity. Shape mismatches fail
// closed instead of being coerced.
func ParseAdmin(raw string, secret []byte) (*AdminClaims, error) {
	var claims AdminClaims
	t, err := jwt.ParseWithClaims(raw, &claims, hs256Key(secret))
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.AdminID == 0 || claims.Kind != kindAdmin || !claims.Role.Valid() {
		return nil, ErrMalformedClaims
	}
	return &claims, nil
}

func ParseVendor(raw string, secret []byte) (*VendorClaims, error) {
	var claims VendorClaims
	t, err := jwt.ParseWithClaims(raw, &claims, hs256Key(secret))
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.VendorID == 0 || claims.Kind != kindVendor {
		return nil, ErrMalformedClaims
	}
	return &claims, nil
}
