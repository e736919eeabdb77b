package rma

import "github.com/asseto/trackgo/internal/models"

// Identity is the verified caller identity produced by the auth layer.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the caller holds the administrator role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}
