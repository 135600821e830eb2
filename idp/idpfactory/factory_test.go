package idpfactory

import (
	"testing"

	"github.com/legalese-navigator/portal-backend/idp"
	"github.com/stretchr/testify/assert"
)

func TestNewIdpAPIProvider(t *testing.T) {
	t.Run("AsgardeoProvider", func(t *testing.T) {
		cfg := FactoryConfig{
			ProviderType: idp.ProviderAsgardeo,
			BaseURL:      "https://api.asgardeo.io/t/testorg",
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			Scopes:       []string{"scope1", "scope2"},
		}

		provider, err := NewIdpAPIProvider(cfg)

		assert.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("UnsupportedProvider", func(t *testing.T) {
		cfg := FactoryConfig{
			ProviderType: idp.ProviderType("unsupported"),
			BaseURL:      "https://api.example.com",
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
		}

		provider, err := NewIdpAPIProvider(cfg)

		assert.Error(t, err)
		assert.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type")
	})
}
