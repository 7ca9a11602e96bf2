package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"billing/internal/clock"
	"billing/internal/config"
	"billing/internal/handlers"
	"billing/internal/logger"
	"billing/internal/middleware"
	"billing/internal/models"
	"billing/internal/money"
	"billing/internal/ratefeed"
	"billing/internal/services"
	"billing/internal/testutil"
	"billing/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Services  *services.Services
	FeedCalls *atomic.Int32
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:        "integration-secret",
		JWTExpirationDur: time.Hour,
	})
}

// newRateFeed serves USD EUR 0.90, CAD 1.33, CNY 7.09 for any day.
func newRateFeed(t *testing.T, calls *atomic.Int32) *ratefeed.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		date := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"base":"USD","date":%q,"rates":{"USD":1.0,"EUR":0.9,"CAD":1.33,"CNY":7.09}}`, date)
	}))
	t.Cleanup(srv.Close)
	return ratefeed.NewClient(srv.URL, 5*time.Second)
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	calls := &atomic.Int32{}
	svc := services.New(db, newRateFeed(t, calls), nil, clock.System{})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	handlers.RegisterRoutes(router.Group("/api/v1"), svc)

	return &testApp{DB: db, Router: router, Services: svc, FeedCalls: calls}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// createUser provisions a user with a wallet and returns a bearer token for it.
func (app *testApp) createUser(t *testing.T, username string, currency money.Currency, isStaff bool) (*models.User, string) {
	t.Helper()
	user, err := app.Services.Users.CreateUserWithWallet(context.Background(), username, username+"@example.com", currency, isStaff)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	token, err := middleware.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("token for %s: %v", username, err)
	}
	return user, token
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// balanceOf reads the caller's wallet balance through the API.
func (app *testApp) balanceOf(t *testing.T, token string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/wallet", "", token)
	expectStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)["balance"].(string)
}
