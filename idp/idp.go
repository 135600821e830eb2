package idp

import "context"

type ProviderType string

const (
	ProviderAsgardeo ProviderType = "asgardeo"
)

// IdentityProviderAPI is the contract the admin features need from an
// identity provider
type IdentityProviderAPI interface {
	UserManager
	UserAdmin
}

type UserManager interface {
	CreateUser(ctx context.Context, userInfo *User) (*UserInfo, error)
	GetUser(ctx context.Context, userId string) (*UserInfo, error)
	UpdateUser(ctx context.Context, userId string, userInfo *User) (*UserInfo, error)
	DeleteUser(ctx context.Context, userId string) error
}

// UserAdmin covers the admin console's directory operations: listing
// accounts and toggling the active flag (ban/unban)
type UserAdmin interface {
	ListUsers(ctx context.Context, search string) ([]UserInfo, error)
	SetUserEnabled(ctx context.Context, userId string, enabled bool) error
	AssignRole(ctx context.Context, userId string, roleName string) error
}

type User struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

type UserInfo struct {
	Id          string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Enabled     bool
	CreatedAt   string
}
