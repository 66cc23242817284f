package services

import (
	"github.com/google/uuid"

	"github.com/example/yeny-crm/internal/models"
)

// Identity is the authenticated caller as established by the HTTP layer.
// Every service operation takes it explicitly; nothing in this package
// reads ambient session state.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   models.Role
}

// OwnerKeys returns the strings that identify this caller as the owner
// of a pedido. Historical records stored either the email or the display
// name in vendedora, so both are owner keys.
func (i Identity) OwnerKeys() []string {
	keys := make([]string, 0, 2)
	if i.Email != "" {
		keys = append(keys, i.Email)
	}
	if i.Name != "" && i.Name != i.Email {
		keys = append(keys, i.Name)
	}
	return keys
}
