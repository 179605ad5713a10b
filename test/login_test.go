//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newAdminClient(t)

	// protected page without a session goes to the login page
	resp, _ := doRequest(ctx, t, client, "GET", "/admin/invoices?status=paid", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login?from=/admin/invoices%3Fstatus%3Dpaid", resp.Header.Get("Location"))

	resp = doLogin(ctx, t, client, testUsername, "wrong")
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(respBytes), "INVALID_CREDENTIALS")

	resp = doLogin(ctx, t, client, testUsername, testPassword)
	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp struct {
		Success bool `json:"success"`
		User    struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	assert.True(t, loginResp.Success)
	assert.Equal(t, testUsername, loginResp.User.Username)
	assert.Equal(t, "admin", loginResp.User.Role)

	resp, _ = doRequest(ctx, t, client, "GET", "/admin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, respBytes = doRequest(ctx, t, client, "GET", "/api/admin/session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(respBytes), testUsername)

	// keep the token to check it stops working after logout
	serverURL, err := url.Parse(serverEndpoint)
	require.NoError(t, err)
	cookies := client.Jar.Cookies(serverURL)
	require.NotEmpty(t, cookies)

	resp, _ = doRequest(ctx, t, client, "POST", "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(ctx, t, client, "GET", "/admin", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// the revoked token is rejected even when replayed
	replayClient := newAdminClient(t)
	replayClient.Jar.SetCookies(serverURL, cookies)
	resp, _ = doRequest(ctx, t, replayClient, "GET", "/admin", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/admin/login?from="))
}
