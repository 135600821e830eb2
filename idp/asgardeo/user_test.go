package asgardeo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/legalese-navigator/portal-backend/idp"
	"github.com/stretchr/testify/assert"
)

func serveToken(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "test-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func TestClient_GetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			if r.URL.Path == "/scim2/Users/user-123" && r.Method == "GET" {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(GetUserResponseBody{
					ID:       "user-123",
					UserName: "DEFAULT/test@example.com",
					Email:    []string{"test@example.com"},
					PhoneNumbers: []scimPhoneNumber{
						{Value: "1234567890", Type: "mobile"},
					},
					Name: scimName{
						GivenName:  "John",
						FamilyName: "Doe",
					},
					Meta: scimMeta{Created: "2025-03-14T09:21:00Z"},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		userInfo, err := client.GetUser(context.Background(), "user-123")

		assert.NoError(t, err)
		assert.NotNil(t, userInfo)
		assert.Equal(t, "user-123", userInfo.Id)
		assert.Equal(t, "John", userInfo.FirstName)
		assert.Equal(t, "Doe", userInfo.LastName)
		assert.Equal(t, "test@example.com", userInfo.Email)
		assert.Equal(t, "1234567890", userInfo.PhoneNumber)
		// Missing "active" attribute means enabled
		assert.True(t, userInfo.Enabled)
		assert.Equal(t, "2025-03-14T09:21:00Z", userInfo.CreatedAt)
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		inactive := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(GetUserResponseBody{
				ID:     "user-123",
				Active: &inactive,
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		userInfo, err := client.GetUser(context.Background(), "user-123")

		assert.NoError(t, err)
		assert.False(t, userInfo.Enabled)
	})

	t.Run("Non200Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		userInfo, err := client.GetUser(context.Background(), "user-123")

		assert.Error(t, err)
		assert.Nil(t, userInfo)
		assert.Contains(t, err.Error(), "status code: 404")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			w.Write([]byte("invalid json"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		userInfo, err := client.GetUser(context.Background(), "user-123")

		assert.Error(t, err)
		assert.Nil(t, userInfo)
	})
}

func TestClient_CreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			if r.URL.Path == "/scim2/Users" && r.Method == "POST" {
				assert.Equal(t, "application/scim+json", r.Header.Get("Content-Type"))

				var body CreateUserRequestBody
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "DEFAULT/test@example.com", body.UserName)

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(CreateUserResponseBody{
					ID: "user-123",
					Name: scimName{
						GivenName:  "John",
						FamilyName: "Doe",
					},
					Emails: []string{"test@example.com"},
					PhoneNumbers: []scimPhoneNumber{
						{Value: "1234567890", Type: "mobile"},
					},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		result, err := client.CreateUser(context.Background(), &idp.User{
			FirstName:   "John",
			LastName:    "Doe",
			Email:       "test@example.com",
			PhoneNumber: "1234567890",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, "user-123", result.Id)
		assert.Equal(t, "test@example.com", result.Email)
		assert.True(t, result.Enabled)
	})

	t.Run("Non201Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		result, err := client.CreateUser(context.Background(), &idp.User{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "test@example.com",
		})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "status code: 400")
	})
}

func TestClient_DeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			if r.URL.Path == "/scim2/Users/user-123" && r.Method == "DELETE" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		err := client.DeleteUser(context.Background(), "user-123")

		assert.NoError(t, err)
	})

	t.Run("Non204Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth2/token" && r.Method == "POST" {
				serveToken(w)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "client-id", "client-secret", []string{})
		err := client.DeleteUser(context.Background(), "user-123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status code: 404")
	})
}
