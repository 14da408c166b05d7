package v1

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"roadmapper/internal/config"
	"roadmapper/internal/middleware"
	"roadmapper/internal/repository"
	myws "roadmapper/internal/websocket"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")

	logger.InitLoggers()
	defer logger.SyncLoggers()

	// Backend SQLite in-memory, sama seperti mode debug aplikasi
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)

	repository.SetDriver("sqlite3")
	config.DB = db
	repository.CreateTableIfNotExists(config.DB)

	// Tanpa Redis: denylist logout nonaktif di test
	config.RedisClient = nil

	go myws.Default.Run()

	code := m.Run()
	config.DB.Close()
	os.Exit(code)
}

// createTestApp menginisialisasi aplikasi Fiber dengan seluruh route
func createTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Error encoding request body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding response from %s: %v", path, err)
	}
	return resp.StatusCode, result
}

func getJSON(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding response from %s: %v", path, err)
	}
	return resp.StatusCode, result
}

// registerAndLogin mendaftarkan user unik lalu login, mengembalikan
// token sesi dan username-nya
func registerAndLogin(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()

	username := fmt.Sprintf("testuser_%d", time.Now().UnixNano())
	status, _ := postJSON(t, app, "/register", "", map[string]string{
		"username": username,
		"password": "secret123",
		"secret_q": "Favorite color?",
		"secret_a": "Blue",
	})
	if status != 201 {
		t.Fatalf("Expected register status 201 but got %d", status)
	}

	status, result := postJSON(t, app, "/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	if status != 200 {
		t.Fatalf("Expected login status 200 but got %d", status)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in login response")
	}
	token, ok := data["token"].(string)
	if !ok || token == "" {
		t.Fatalf("Expected valid token in login response")
	}
	return token, username
}
