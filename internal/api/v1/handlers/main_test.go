package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	v1 "tasktracker/internal/api/v1"
	"tasktracker/internal/api/v1/handlers"
	"tasktracker/internal/auth"
	"tasktracker/internal/middleware"
	"tasktracker/internal/repository"
	"tasktracker/pkg/logger"
)

const testSecret = "test-secret"

var (
	testDB     *sql.DB
	testUsers  *repository.UserRepo
	testTasks  *repository.TaskRepo
	testTokens *auth.TokenIssuer
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	defer logger.SyncLoggers()

	// Spin up a throwaway Postgres for the duration of the suite.
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %v", err)
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=tasktracker_test",
	})
	if err != nil {
		log.Fatalf("Could not start postgres container: %v", err)
	}

	if err := pool.Retry(func() error {
		var err error
		testDB, err = sql.Open("postgres", fmt.Sprintf(
			"host=localhost port=%s user=postgres password=secret dbname=tasktracker_test sslmode=disable",
			resource.GetPort("5432/tcp")))
		if err != nil {
			return err
		}
		return testDB.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to postgres: %v", err)
	}

	repository.CreateTableIfNotExists(testDB)

	testUsers = repository.NewUserRepo(testDB)
	testTasks = repository.NewTaskRepo(testDB)
	testTokens = auth.NewTokenIssuer([]byte(testSecret), 30*time.Minute)

	code := m.Run()

	repository.DeleteAllTable(testDB)
	testDB.Close()
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge postgres container: %v", err)
	}
	os.Exit(code)
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ErrorHandler())

	h := handlers.New(testUsers, testTasks, testTokens)
	authmw := middleware.NewAuth(testTokens, testUsers)
	v1.RegisterRoutes(app, h, authmw)

	return app
}

// doJSON performs a request against the app with an optional bearer token
// and JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser registers a fresh user and returns its id.
func registerUser(t *testing.T, app *fiber.App, username, password, recoveryKey string) int {
	t.Helper()

	resp := doJSON(t, app, "POST", "/register", "", map[string]string{
		"username":     username,
		"password":     password,
		"recovery_key": recoveryKey,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "expected data field in register response")
	return int(data["id"].(float64))
}

// loginUser logs in and returns the bearer token.
func loginUser(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := doJSON(t, app, "POST", "/token", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	token, ok := result["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
