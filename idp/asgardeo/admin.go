package asgardeo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/legalese-navigator/portal-backend/idp"
)

type ListUsersResponseBody struct {
	TotalResults int                   `json:"totalResults"`
	Resources    []GetUserResponseBody `json:"Resources"`
}

type PatchUserOperation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

type PatchUserRequestBody struct {
	Schemas    []string             `json:"schemas"`
	Operations []PatchUserOperation `json:"Operations"`
}

type ListRolesResponseBody struct {
	TotalResults int `json:"totalResults"`
	Resources    []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"Resources"`
}

// ListUsers returns the user directory, optionally filtered by a SCIM
// substring match on the username
func (a *Client) ListUsers(ctx context.Context, search string) ([]idp.UserInfo, error) {
	endpoint := fmt.Sprintf("%s/scim2/Users", a.BaseURL)
	if search != "" {
		filter := fmt.Sprintf("userName co %q", search)
		endpoint = fmt.Sprintf("%s?filter=%s", endpoint, url.QueryEscape(filter))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list users, status code: %d", res.StatusCode)
	}

	var response ListUsersResponseBody
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	users := make([]idp.UserInfo, 0, len(response.Resources))
	for i := range response.Resources {
		users = append(users, *userInfoFromSCIM(&response.Resources[i]))
	}

	return users, nil
}

// SetUserEnabled toggles the SCIM active flag. Disabling an account blocks
// new token issuance at the provider; existing tokens expire naturally.
func (a *Client) SetUserEnabled(ctx context.Context, userId string, enabled bool) error {
	endpoint := fmt.Sprintf("%s/scim2/Users/%s", a.BaseURL, userId)

	body := PatchUserRequestBody{
		Schemas: []string{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		Operations: []PatchUserOperation{
			{
				Op:    "replace",
				Path:  "active",
				Value: enabled,
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/scim+json")

	res, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update user status, status code: %d", res.StatusCode)
	}

	return nil
}

// AssignRole adds a user to the named role. The role must already exist in
// the organization.
func (a *Client) AssignRole(ctx context.Context, userId string, roleName string) error {
	roleId, err := a.findRoleByName(ctx, roleName)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/scim2/v2/Roles/%s", a.BaseURL, roleId)

	body := PatchUserRequestBody{
		Schemas: []string{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		Operations: []PatchUserOperation{
			{
				Op: "add",
				Value: map[string]interface{}{
					"users": []map[string]string{
						{"value": userId},
					},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/scim+json")

	res, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to assign role, status code: %d", res.StatusCode)
	}

	return nil
}

// findRoleByName resolves a role display name to its SCIM resource ID
func (a *Client) findRoleByName(ctx context.Context, roleName string) (string, error) {
	filter := fmt.Sprintf("displayName eq %q", roleName)
	endpoint := fmt.Sprintf("%s/scim2/v2/Roles?filter=%s", a.BaseURL, url.QueryEscape(filter))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	res, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to search roles, status code: %d", res.StatusCode)
	}

	var response ListRolesResponseBody
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Resources) == 0 {
		return "", fmt.Errorf("role %q not found", roleName)
	}

	return response.Resources[0].ID, nil
}
