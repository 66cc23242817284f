package models

import (
	"time"
)

// Role is the capability a user holds. There are exactly two: vendedoras
// create and see their own pedidos, administradoras see everything and
// drive the delivery lifecycle.
type Role string

const (
	RoleVendedora      Role = "vendedora"
	RoleAdministradora Role = "administradora"
)

// IsValid reports whether the role is one of the two known roles.
func (r Role) IsValid() bool {
	return r == RoleVendedora || r == RoleAdministradora
}

// User represents an account that can sign in to the application.
// The password hash never leaves the store through any read path: it is
// excluded from JSON and list queries select around it as well.
type User struct {
	BaseModel
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
}
