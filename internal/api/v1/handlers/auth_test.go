package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := newTestApp()

	username := uniqueName("reguser")
	id := registerUser(t, app, username, "secret123", "recovery-abc")
	assert.Greater(t, id, 0)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newTestApp()

	username := uniqueName("dupuser")
	registerUser(t, app, username, "secret123", "recovery-abc")

	resp := doJSON(t, app, "POST", "/register", "", map[string]string{
		"username":     username,
		"password":     "otherpass",
		"recovery_key": "other-recovery",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, "Username already exists", result["message"])

	// The first registration is unaffected.
	token := loginUser(t, app, username, "secret123")
	assert.NotEmpty(t, token)
}

func TestRegisterMissingFields(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/register", "", map[string]string{
		"username": uniqueName("novalid"),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLoginReturnsBearerToken(t *testing.T) {
	app := newTestApp()

	username := uniqueName("loginuser")
	registerUser(t, app, username, "password123", "recovery-abc")

	resp := doJSON(t, app, "POST", "/token", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.NotEmpty(t, result["access_token"])
	assert.Equal(t, "bearer", result["token_type"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp()

	username := uniqueName("badlogin")
	registerUser(t, app, username, "password123", "recovery-abc")

	// Wrong password and unknown user yield the same response.
	for _, body := range []map[string]string{
		{"username": username, "password": "wrongpass"},
		{"username": uniqueName("nosuchuser"), "password": "password123"},
	} {
		resp := doJSON(t, app, "POST", "/token", "", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var result map[string]interface{}
		decodeBody(t, resp, &result)
		assert.Equal(t, "Invalid credentials", result["message"])
	}
}

func TestResetPassword(t *testing.T) {
	app := newTestApp()

	username := uniqueName("resetuser")
	registerUser(t, app, username, "oldpass", "recovery-key-1")

	resp := doJSON(t, app, "POST", "/reset-password", "", map[string]string{
		"username":     username,
		"recovery_key": "recovery-key-1",
		"new_password": "newpass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	oldResp := doJSON(t, app, "POST", "/token", "", map[string]string{
		"username": username,
		"password": "oldpass",
	})
	assert.Equal(t, http.StatusBadRequest, oldResp.StatusCode)
	oldResp.Body.Close()

	token := loginUser(t, app, username, "newpass")
	assert.NotEmpty(t, token)
}

func TestResetPasswordUnknownUser(t *testing.T) {
	app := newTestApp()

	resp := doJSON(t, app, "POST", "/reset-password", "", map[string]string{
		"username":     uniqueName("ghost"),
		"recovery_key": "whatever",
		"new_password": "newpass",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, "User not found", result["message"])
}

func TestResetPasswordWrongRecoveryKey(t *testing.T) {
	app := newTestApp()

	username := uniqueName("wrongkey")
	registerUser(t, app, username, "oldpass", "the-real-key")

	resp := doJSON(t, app, "POST", "/reset-password", "", map[string]string{
		"username":     username,
		"recovery_key": "not-the-key",
		"new_password": "newpass",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, "Invalid recovery key", result["message"])

	// Password unchanged.
	token := loginUser(t, app, username, "oldpass")
	assert.NotEmpty(t, token)
}

// TestAccountLifecycle walks the full flow: register, login, create a
// task, list it, reset the password, and log in again.
func TestAccountLifecycle(t *testing.T) {
	app := newTestApp()

	username := uniqueName("alice")
	id := registerUser(t, app, username, "pw1", "recoveryA")
	token := loginUser(t, app, username, "pw1")

	createResp := doJSON(t, app, "POST", "/tasks", token, map[string]string{
		"title": "buy milk",
	})
	require.Equal(t, http.StatusOK, createResp.StatusCode)
	createResp.Body.Close()

	listResp := doJSON(t, app, "GET", "/tasks", token, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var tasks []map[string]interface{}
	decodeBody(t, listResp, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0]["title"])
	assert.Equal(t, false, tasks[0]["is_completed"])
	assert.Equal(t, float64(id), tasks[0]["owner_id"])

	resetResp := doJSON(t, app, "POST", "/reset-password", "", map[string]string{
		"username":     username,
		"recovery_key": "recoveryA",
		"new_password": "pw2",
	})
	require.Equal(t, http.StatusOK, resetResp.StatusCode)
	resetResp.Body.Close()

	oldLogin := doJSON(t, app, "POST", "/token", "", map[string]string{
		"username": username,
		"password": "pw1",
	})
	assert.Equal(t, http.StatusBadRequest, oldLogin.StatusCode)
	oldLogin.Body.Close()

	newToken := loginUser(t, app, username, "pw2")
	assert.NotEmpty(t, newToken)
}
