package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserClaims_Methods(t *testing.T) {
	now := time.Now()
	claims := &UserClaims{
		Issuer:    "test-issuer",
		IdpUserID: "test-subject",
		Audience:  []string{"test-audience"},
		ExpiresAt: now.Add(time.Hour),
		IssuedAt:  now,
		NotBefore: now.Add(-time.Hour),
	}

	// Test GetExpirationTime
	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.Equal(t, claims.ExpiresAt.Unix(), exp.Time.Unix())

	// Test GetIssuedAt
	iat, err := claims.GetIssuedAt()
	assert.NoError(t, err)
	assert.Equal(t, claims.IssuedAt.Unix(), iat.Time.Unix())

	// Test GetNotBefore
	nbf, err := claims.GetNotBefore()
	assert.NoError(t, err)
	assert.Equal(t, claims.NotBefore.Unix(), nbf.Time.Unix())

	// Test GetIssuer
	iss, err := claims.GetIssuer()
	assert.NoError(t, err)
	assert.Equal(t, claims.Issuer, iss)

	// Test GetSubject
	sub, err := claims.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, claims.IdpUserID, sub)

	// Test GetAudience
	aud, err := claims.GetAudience()
	assert.NoError(t, err)
	assert.Equal(t, []string{"test-audience"}, []string(aud))

	// Test zero values
	emptyClaims := &UserClaims{}
	exp, _ = emptyClaims.GetExpirationTime()
	assert.Nil(t, exp)
	iat, _ = emptyClaims.GetIssuedAt()
	assert.Nil(t, iat)
	nbf, _ = emptyClaims.GetNotBefore()
	assert.Nil(t, nbf)
}

func TestAuthenticatedUser_Methods(t *testing.T) {
	user := &AuthenticatedUser{
		Roles:     []Role{RoleAdmin, RoleMember},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	// Test HasRole
	assert.True(t, user.HasRole(RoleAdmin))
	assert.True(t, user.HasRole(RoleMember))
	assert.False(t, user.HasRole(RoleSystem))

	// Test HasAnyRole
	assert.True(t, user.HasAnyRole(RoleAdmin, RoleSystem))
	assert.True(t, user.HasAnyRole(RoleSystem, RoleMember))
	assert.False(t, user.HasAnyRole(RoleSystem))

	// Test HasPermission
	assert.True(t, user.HasPermission(PermissionDecideConsultation))

	userMemberOnly := &AuthenticatedUser{Roles: []Role{RoleMember}}
	assert.True(t, userMemberOnly.HasPermission(PermissionCreateConsultation))
	assert.False(t, userMemberOnly.HasPermission(PermissionManageUsers))

	// Test IsAdmin/IsMember/IsSystem
	assert.True(t, user.IsAdmin())
	assert.True(t, user.IsMember())
	assert.False(t, user.IsSystem())

	// Test GetPrimaryRole
	assert.Equal(t, RoleAdmin, user.GetPrimaryRole())

	userMember := &AuthenticatedUser{Roles: []Role{RoleMember}}
	assert.Equal(t, RoleMember, userMember.GetPrimaryRole())

	userSystem := &AuthenticatedUser{Roles: []Role{RoleSystem}}
	assert.Equal(t, RoleSystem, userSystem.GetPrimaryRole())

	// Test GetPermissions
	perms := userMember.GetPermissions()
	assert.Contains(t, perms, PermissionCreateConsultation)
	assert.Contains(t, perms, PermissionDownloadTemplate)
	assert.NotContains(t, perms, PermissionManageUsers)

	// Test IsTokenExpired
	assert.False(t, user.IsTokenExpired())

	expiredUser := &AuthenticatedUser{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, expiredUser.IsTokenExpired())
}

func TestAuthenticatedUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user AuthenticatedUser
		want string
	}{
		{
			name: "first and last name",
			user: AuthenticatedUser{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
			want: "Jane Doe",
		},
		{
			name: "first name only",
			user: AuthenticatedUser{FirstName: "Jane", Email: "jane@example.com"},
			want: "Jane",
		},
		{
			name: "email fallback",
			user: AuthenticatedUser{Email: "jane@example.com"},
			want: "jane@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestNewAuthenticatedUser(t *testing.T) {
	now := time.Now()

	t.Run("maps valid roles", func(t *testing.T) {
		claims := &UserClaims{
			Email:     "admin@example.com",
			FirstName: "Amy",
			LastName:  "Perera",
			Roles:     FlexibleStringSlice{"Legalese_Admin", "Legalese_Member"},
			OrgName:   "legalese",
			IdpUserID: "user-123",
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		}

		user := NewAuthenticatedUser(claims)
		assert.Equal(t, "user-123", user.IdpUserID)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, []Role{RoleAdmin, RoleMember}, user.Roles)
		assert.Equal(t, "legalese", user.OrgName)
	})

	t.Run("drops unknown roles", func(t *testing.T) {
		claims := &UserClaims{
			IdpUserID: "user-123",
			Roles:     FlexibleStringSlice{"Legalese_Admin", "everyone", "internal/subscriber"},
		}

		user := NewAuthenticatedUser(claims)
		assert.Equal(t, []Role{RoleAdmin}, user.Roles)
	})

	t.Run("defaults to member when no valid roles", func(t *testing.T) {
		claims := &UserClaims{
			IdpUserID: "user-123",
			Roles:     FlexibleStringSlice{"everyone"},
		}

		user := NewAuthenticatedUser(claims)
		assert.Equal(t, []Role{RoleMember}, user.Roles)
	})

	t.Run("defaults to member when roles claim absent", func(t *testing.T) {
		user := NewAuthenticatedUser(&UserClaims{IdpUserID: "user-123"})
		assert.Equal(t, []Role{RoleMember}, user.Roles)
	})
}
