package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/mercaved/marketplace/internal/models"
	"github.com/mercaved/marketplace/internal/tokens"
)

// Resolver derives an authenticated principal from a signed credential and
// answers per-request authorization questions. Authentication always
// re-fetches the principal row: a role demotion or a vendor deactivation
// takes effect on the next request, not at the next login.
type Resolver struct {
	DB     *gorm.DB
	Secret []byte
}

func (r *Resolver) AuthenticateAdmin(ctx context.Context, raw string) (*models.Administrator, error) {
	claims, err := tokens.ParseAdmin(raw, r.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, ErrInvalidCredential
	}

	var admin models.Administrator
	if err := r.DB.WithContext(ctx).First(&admin, claims.AdminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &admin, nil
}

func (r *Resolver) AuthenticateVendor(ctx context.Context, raw string) (*models.Vendor, error) {
	claims, err := tokens.ParseVendor(raw, r.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, ErrInvalidCredential
	}

	var vendor models.Vendor
	if err := r.DB.WithContext(ctx).First(&vendor, claims.VendorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// A vendor deactivated by an administrator authenticates exactly like a
	// deleted one. The caller cannot tell the two apart.
	if !vendor.Active {
		return nil, ErrPrincipalNotFound
	}
	return &vendor, nil
}

// AuthorizeRole grants access iff the administrator's tier meets the
// threshold. Roles are a simple total order.
func (r *Resolver) AuthorizeRole(admin *models.Administrator, min models.Role) error {
	if !admin.Role.AtLeast(min) {
		return ErrInsufficientRole
	}
	return nil
}

// AuthorizeRegion grants access to a resource in the given region. It must
// be applied independently to list queries and to single-resource mutations;
// filtering a list does not protect a direct mutation by guessed id.
func (r *Resolver) AuthorizeRegion(admin *models.Administrator, region models.Region) error {
	if admin.Role.CanManageAllRegions() || admin.Region == models.RegionAll {
		return nil
	}
	if admin.Region != region {
		return ErrOutOfRegionScope
	}
	return nil
}

// AuthorizeVendorOwnership grants access iff the resource belongs to the
// acting vendor.
func (r *Resolver) AuthorizeVendorOwnership(vendor *models.Vendor, ownerID uint) error {
	if vendor.ID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// CanDeleteAdmin enforces the self-protection rule: an administrator never
// deletes their own account, regardless of role.
func (r *Resolver) CanDeleteAdmin(acting *models.Administrator, targetID uint) bool {
	if acting.ID == targetID {
		return false
	}
	return acting.Role.CanManageAdmins()
}
