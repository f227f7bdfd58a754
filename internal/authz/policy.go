// Package authz holds the single rule table mapping (caller, target,
// operation) to allow/deny. Every gated operation must have an explicit rule
// here; handlers never perform ad-hoc role or ownership checks.
package authz

import (
	apperrors "github.com/11sap/userService/pkg/errors"

	"github.com/11sap/userService/internal/domain"
)

// CanViewAccount permits admins to view any account and every caller to view
// their own.
func CanViewAccount(caller *domain.Account, targetID string) error {
	if caller.IsAdmin() || caller.ID == targetID {
		return nil
	}
	return apperrors.Forbidden("access denied")
}

// CanListAccounts permits admins only.
func CanListAccounts(caller *domain.Account) error {
	if caller.IsAdmin() {
		return nil
	}
	return apperrors.Forbidden("admin access required")
}

// CanUpdateStatus permits admins to change any account's status and every
// caller to change their own.
func CanUpdateStatus(caller *domain.Account, targetID string) error {
	if caller.IsAdmin() || caller.ID == targetID {
		return nil
	}
	return apperrors.Forbidden("access denied")
}
