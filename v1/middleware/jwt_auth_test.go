package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/legalese-navigator/portal-backend/v1/models"
	authutils "github.com/legalese-navigator/portal-backend/v1/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return privateKey, &privateKey.PublicKey
}

func createJWKSResponse(t *testing.T, pubKey *rsa.PublicKey, kid string) []byte {
	n := base64.RawURLEncoding.EncodeToString(pubKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pubKey.E)).Bytes())

	jwks := JWKS{
		Keys: []JWK{
			{
				Kty: "RSA",
				Kid: kid,
				Use: "sig",
				Alg: "RS256",
				N:   n,
				E:   e,
			},
		},
	}

	data, err := json.Marshal(jwks)
	require.NoError(t, err)
	return data
}

func TestJWTAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  JWTAuthConfig
		wantErr bool
	}{
		{
			name: "Valid config",
			config: JWTAuthConfig{
				JWKSURL:        "https://example.com/jwks",
				ExpectedIssuer: "https://example.com",
				ValidClientIDs: []string{"client-1"},
				OrgName:        "org-1",
			},
			wantErr: false,
		},
		{
			name: "Missing JWKS URL",
			config: JWTAuthConfig{
				ExpectedIssuer: "https://example.com",
				ValidClientIDs: []string{"client-1"},
			},
			wantErr: true,
		},
		{
			name: "Missing Issuer",
			config: JWTAuthConfig{
				JWKSURL:        "https://example.com/jwks",
				ValidClientIDs: []string{"client-1"},
			},
			wantErr: true,
		},
		{
			name: "Missing Client IDs",
			config: JWTAuthConfig{
				JWKSURL:        "https://example.com/jwks",
				ExpectedIssuer: "https://example.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJWTAuthMiddleware_AuthenticateJWT(t *testing.T) {
	privKey, pubKey := generateTestKeys(t)
	kid := "test-key-1"

	// Setup mock JWKS server
	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(createJWKSResponse(t, pubKey, kid))
	}))
	defer jwksServer.Close()

	config := JWTAuthConfig{
		JWKSURL:        jwksServer.URL,
		ExpectedIssuer: "https://example.com",
		ValidClientIDs: []string{"client-1"},
		OrgName:        "org-1",
	}

	// Helper to create token from claims
	createToken := func(claims *models.UserClaims, signKey *rsa.PrivateKey, keyID string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		token.Header["kid"] = keyID
		tokenString, err := token.SignedString(signKey)
		require.NoError(t, err)
		return tokenString
	}

	baseClaims := func() *models.UserClaims {
		return &models.UserClaims{
			Email:     "test@example.com",
			FirstName: "Test",
			LastName:  "User",
			Roles:     models.FlexibleStringSlice{"Legalese_Member"},
			OrgName:   "org-1",
			IdpUserID: "user-1",
			Issuer:    "https://example.com",
			Audience:  []string{"client-1"},
			ExpiresAt: time.Now().Add(time.Hour),
			IssuedAt:  time.Now(),
		}
	}

	tests := []struct {
		name           string
		setupRequest   func() *http.Request
		expectedStatus int
	}{
		{
			name: "Success",
			setupRequest: func() *http.Request {
				token := createToken(baseClaims(), privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Missing Token",
			setupRequest: func() *http.Request {
				return httptest.NewRequest("GET", "/api/v1/consultations", nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Token",
			setupRequest: func() *http.Request {
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer invalid-token")
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired Token",
			setupRequest: func() *http.Request {
				claims := baseClaims()
				claims.ExpiresAt = time.Now().Add(-time.Hour)
				token := createToken(claims, privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Issuer",
			setupRequest: func() *http.Request {
				claims := baseClaims()
				claims.Issuer = "https://wrong-issuer.com"
				token := createToken(claims, privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Audience",
			setupRequest: func() *http.Request {
				claims := baseClaims()
				claims.Audience = []string{"wrong-client"}
				token := createToken(claims, privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Org",
			setupRequest: func() *http.Request {
				claims := baseClaims()
				claims.OrgName = "wrong-org"
				token := createToken(claims, privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Missing Subject",
			setupRequest: func() *http.Request {
				claims := baseClaims()
				claims.IdpUserID = ""
				token := createToken(claims, privKey, kid)
				req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
				req.Header.Set("Authorization", "Bearer "+token)
				return req
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Skip Auth Path Health",
			setupRequest: func() *http.Request {
				return httptest.NewRequest("GET", "/health", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Skip Auth Path Public Intake",
			setupRequest: func() *http.Request {
				return httptest.NewRequest("POST", "/api/v1/public/consultations", nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := NewJWTAuthMiddleware(config)
			req := tt.setupRequest()
			w := httptest.NewRecorder()

			handler := middleware.AuthenticateJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)

				// Verify context is set for authenticated requests
				if tt.name == "Success" {
					user, err := authutils.GetAuthenticatedUser(r.Context())
					assert.NoError(t, err)
					require.NotNil(t, user)
					assert.Equal(t, "user-1", user.IdpUserID)
					assert.Equal(t, []models.Role{models.RoleMember}, user.Roles)
				}
			}))

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_RejectsNonRSATokens(t *testing.T) {
	_, pubKey := generateTestKeys(t)
	kid := "test-key-1"

	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(createJWKSResponse(t, pubKey, kid))
	}))
	defer jwksServer.Close()

	middleware := NewJWTAuthMiddleware(JWTAuthConfig{
		JWKSURL:        jwksServer.URL,
		ExpectedIssuer: "https://example.com",
		ValidClientIDs: []string{"client-1"},
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://example.com",
		"sub": "user-1",
	})
	token.Header["kid"] = kid
	tokenString, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler := middleware.AuthenticateJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached with an HMAC token")
	}))
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_RefreshesUnknownKid(t *testing.T) {
	privKey, pubKey := generateTestKeys(t)

	// The server rotates to a new kid after the first fetch
	fetches := 0
	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if fetches == 1 {
			w.Write(createJWKSResponse(t, pubKey, "old-key"))
			return
		}
		w.Write(createJWKSResponse(t, pubKey, "new-key"))
	}))
	defer jwksServer.Close()

	middleware := NewJWTAuthMiddleware(JWTAuthConfig{
		JWKSURL:        jwksServer.URL,
		ExpectedIssuer: "https://example.com",
		ValidClientIDs: []string{"client-1"},
	})

	claims := &models.UserClaims{
		Email:     "test@example.com",
		Roles:     models.FlexibleStringSlice{"Legalese_Member"},
		IdpUserID: "user-1",
		Issuer:    "https://example.com",
		Audience:  []string{"client-1"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "new-key"
	tokenString, err := token.SignedString(privKey)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/consultations", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler := middleware.AuthenticateJWT(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, fetches, 2)
}
