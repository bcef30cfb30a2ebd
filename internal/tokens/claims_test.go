package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercaved/marketplace/internal/models"
)

var testSecret = []byte("test-secret")

func TestSignAdmin_RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	admin := &models.Administrator{
		ID:     7,
		Role:   models.RoleRegional,
		Region: "Zulia",
	}

	raw, err := SignAdmin(admin, testSecret, now)
	require.NoError(t, err)

	claims, err := ParseAdmin(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, models.RoleRegional, claims.Role)
	assert.Equal(t, models.Region("Zulia"), claims.Region)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(AdminTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestSignVendor_RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	vendor := &models.Vendor{ID: 42, Email: "licores@example.com", Name: "Licores El Ávila"}

	raw, err := SignVendor(vendor, testSecret, now)
	require.NoError(t, err)

	claims, err := ParseVendor(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.VendorID)
	assert.Equal(t, "licores@example.com", claims.Email)
	assert.WithinDuration(t, now.Add(VendorTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestParseAdmin_Expired(t *testing.T) {
	issued := time.Now().UTC().Add(-2 * AdminTokenTTL)
	admin := &models.Administrator{ID: 1, Role: models.RoleSuper, Region: models.RegionAll}

	raw, err := SignAdmin(admin, testSecret, issued)
	require.NoError(t, err)

	_, err = ParseAdmin(raw, testSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseAdmin_WrongSecret(t *testing.T) {
	admin := &models.Administrator{ID: 1, Role: models.RoleSuper, Region: models.RegionAll}
	raw, err := SignAdmin(admin, testSecret, time.Now().UTC())
	require.NoError(t, err)

	_, err = ParseAdmin(raw, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseAdmin_Garbage(t *testing.T) {
	_, err := ParseAdmin("not-a-jwt", testSecret)
	require.Error(t, err)
}

func TestParseAdmin_RejectsUnexpectedMethod(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS384, AdminClaims{
		AdminID: 1,
		Role:    models.RoleSuper,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseAdmin(raw, testSecret)
	require.Error(t, err)
}

func TestParseAdmin_MalformedPayloadFailsClosed(t *testing.T) {
	// Correctly signed, but the payload carries no usable identity. The
	// parser must reject instead of coercing.
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{
			name: "missing id",
			claims: jwt.MapClaims{
				"rol": 5,
				"exp": time.Now().Add(time.Hour).Unix(),
			},
		},
		{
			name: "role out of range",
			claims: jwt.MapClaims{
				"_id":         3,
				"tipo_sesion": "admin",
				"rol":         99,
				"exp":         time.Now().Add(time.Hour).Unix(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString(testSecret)
			require.NoError(t, err)

			_, err = ParseAdmin(raw, testSecret)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedClaims)
		})
	}
}

func TestParseVendor_AdminTokenIsNotAVendorToken(t *testing.T) {
	admin := &models.Administrator{ID: 9, Role: models.RoleSuper, Region: models.RegionAll}
	raw, err := SignAdmin(admin, testSecret, time.Now().UTC())
	require.NoError(t, err)

	// The admin payload decodes into vendor claims by field overlap (_id),
	// so the session kind discriminator has to reject it.
	_, err = ParseVendor(raw, testSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedClaims)
}

func TestParseAdmin_VendorTokenIsNotAnAdminToken(t *testing.T) {
	vendor := &models.Vendor{ID: 4, Email: "v@example.com", Name: "V"}
	raw, err := SignVendor(vendor, testSecret, time.Now().UTC())
	require.NoError(t, err)

	_, err = ParseAdmin(raw, testSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedClaims)
}
