package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealvoice/feedbackhub/internal/auth"
	"github.com/mealvoice/feedbackhub/internal/config"
	"github.com/mealvoice/feedbackhub/internal/domain/feedback"
	apphttp "github.com/mealvoice/feedbackhub/internal/http"
	"github.com/mealvoice/feedbackhub/internal/identity"
	"github.com/mealvoice/feedbackhub/internal/repo/memory"
	"github.com/mealvoice/feedbackhub/internal/sessions"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		Port:              0,
		AdminEmail:        "admin@feedbacksystem.com",
		AdminPassword:     "admin123",
		UserEmail:         "user@email.com",
		UserPassword:      "user123",
		SessionSecret:     "test-secret-key",
		SessionTTLMinutes: 60,
	}
}

func setupRouter(t *testing.T) (*gin.Engine, *memory.FeedbacksRepo) {
	t.Helper()

	cfg := testConfig()

	store, err := identity.NewStore(cfg)

	if err != nil {
		t.Fatalf("identity store: %v", err)
	}

	repo := memory.NewFeedbacksRepo()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouterWith(apphttp.Deps{
		Log:       logger,
		Cfg:       cfg,
		Feedbacks: repo,
		Auth:      store,
		JWT:       auth.NewManager(cfg.SessionSecret, time.Hour),
		Revoker:   sessions.NopRevoker{},
	})

	return router, repo
}

// doRequest runs a request and returns the recorder. JSON content type
// is set on mutating methods so RequireJSON lets the body through.
func doRequest(router http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `"}`

	w := doRequest(router, http.MethodPost, "/auth/login", body, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		SessionToken string `json:"sessionToken"`
		Role         string `json:"role"`
	}

	mustReadJSON(t, w, &resp)

	if resp.SessionToken == "" {
		t.Fatalf("login returned no session token")
	}

	return resp.SessionToken
}

func TestLogin(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("valid_user", func(t *testing.T) {
		token := login(t, router, "user@email.com", "user123")

		if token == "" {
			t.Fatal("expected token")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/auth/login", `{"email":"user@email.com","password":"wrong"}`, "")

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}

		var resp struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}

		mustReadJSON(t, w, &resp)

		if resp.Error.Code != "invalid_credentials" {
			t.Fatalf("got code %q", resp.Error.Code)
		}

		// the message must not say which field was wrong
		if resp.Error.Message != "Email or password is incorrect." {
			t.Fatalf("unexpected message %q", resp.Error.Message)
		}
	})

	t.Run("unknown_email_same_rejection", func(t *testing.T) {
		wrongPass := doRequest(router, http.MethodPost, "/auth/login", `{"email":"user@email.com","password":"wrong"}`, "")
		unknown := doRequest(router, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"user123"}`, "")

		if wrongPass.Code != unknown.Code {
			t.Fatalf("rejections differ: %d vs %d", wrongPass.Code, unknown.Code)
		}
	})
}

func TestSubmitAndListEndToEnd(t *testing.T) {
	router, repo := setupRouter(t)

	userToken := login(t, router, "user@email.com", "user123")

	submitBody := `{
		"schoolName": "Lincoln Elementary",
		"foodQualityRating": 4,
		"foodTasteRating": 4,
		"portionSizeRating": 4,
		"foodTemperatureRating": 4,
		"varietyRating": 4,
		"presentationRating": 4,
		"hygieneRating": 4
	}`

	w := doRequest(router, http.MethodPost, "/api/feedback", submitBody, userToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("submit got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		Success  bool              `json:"success"`
		Feedback feedback.Feedback `json:"feedback"`
	}

	mustReadJSON(t, w, &created)

	if !created.Success || created.Feedback.ID == 0 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	if created.Feedback.UserEmail != "user@email.com" {
		t.Fatalf("record stamped with %q, want the session email", created.Feedback.UserEmail)
	}

	if created.Feedback.CreatedAt.IsZero() {
		t.Fatalf("record has no timestamp")
	}

	if avg := feedback.AverageRating(created.Feedback); avg != 4.0 {
		t.Fatalf("average = %v, want 4.0", avg)
	}

	// admin sees the record exactly once via the API listing

	adminToken := login(t, router, "admin@feedbacksystem.com", "admin123")

	w = doRequest(router, http.MethodGet, "/api/feedback", "", adminToken)

	if w.Code != http.StatusOK {
		t.Fatalf("list got status %d, body=%s", w.Code, w.Body.String())
	}

	var listing struct {
		Feedbacks []feedback.Feedback `json:"feedbacks"`
		Count     int                 `json:"count"`
	}

	mustReadJSON(t, w, &listing)

	if listing.Count != 1 || len(listing.Feedbacks) != 1 {
		t.Fatalf("got %d records, want exactly 1", listing.Count)
	}

	got := listing.Feedbacks[0]

	if got.ID != created.Feedback.ID || got.SchoolName != "Lincoln Elementary" || got.HygieneRating != 4 {
		t.Fatalf("listed record does not match submission: %+v", got)
	}

	// and the dashboard decorates it with average + band

	w = doRequest(router, http.MethodGet, "/admin/dashboard", "", adminToken)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard got status %d, body=%s", w.Code, w.Body.String())
	}

	var dashboard struct {
		Total     int `json:"total"`
		Feedbacks []struct {
			AverageRating float64 `json:"averageRating"`
			RatingBand    string  `json:"ratingBand"`
		} `json:"feedbacks"`
	}

	mustReadJSON(t, w, &dashboard)

	if dashboard.Total != 1 {
		t.Fatalf("dashboard total = %d, want 1", dashboard.Total)
	}

	if dashboard.Feedbacks[0].AverageRating != 4.0 || dashboard.Feedbacks[0].RatingBand != "high" {
		t.Fatalf("dashboard entry = %+v, want average 4.0 band high", dashboard.Feedbacks[0])
	}

	if repo.Count() != 1 {
		t.Fatalf("repo holds %d records, want 1", repo.Count())
	}
}

func TestSubmitRejectionsDoNotPersist(t *testing.T) {
	router, repo := setupRouter(t)

	userToken := login(t, router, "user@email.com", "user123")

	before := repo.Count()

	// empty school name
	body := `{"schoolName":"","foodQualityRating":4,"foodTasteRating":4,"portionSizeRating":4,"foodTemperatureRating":4,"varietyRating":4,"presentationRating":4,"hygieneRating":4}`

	w := doRequest(router, http.MethodPost, "/api/feedback", body, userToken)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	if repo.Count() != before {
		t.Fatalf("repo count changed on rejected submission: %d -> %d", before, repo.Count())
	}

	// unauthenticated submission is rejected before validation runs
	w = doRequest(router, http.MethodPost, "/api/feedback", body, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated submit got %d, want 401", w.Code)
	}

	if repo.Count() != before {
		t.Fatalf("repo count changed on unauthenticated submission")
	}
}

func TestListingGateDoesNotLeakRoles(t *testing.T) {
	router, _ := setupRouter(t)

	userToken := login(t, router, "user@email.com", "user123")

	asUser := doRequest(router, http.MethodGet, "/api/feedback", "", userToken)
	noSession := doRequest(router, http.MethodGet, "/api/feedback", "", "")

	if asUser.Code != http.StatusUnauthorized || noSession.Code != http.StatusUnauthorized {
		t.Fatalf("want 401/401, got %d/%d", asUser.Code, noSession.Code)
	}

	if asUser.Body.String() != noSession.Body.String() {
		t.Fatalf("rejection bodies differ:\nuser: %s\nno session: %s", asUser.Body.String(), noSession.Body.String())
	}
}

func TestPageRedirects(t *testing.T) {
	router, _ := setupRouter(t)

	userToken := login(t, router, "user@email.com", "user123")
	adminToken := login(t, router, "admin@feedbacksystem.com", "admin123")

	tests := []struct {
		name         string
		path         string
		token        string
		wantStatus   int
		wantLocation string
	}{
		{name: "dashboard_unauthenticated", path: "/admin/dashboard", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "dashboard_as_user", path: "/admin/dashboard", token: userToken, wantStatus: http.StatusFound, wantLocation: "/feedback"},
		{name: "form_as_admin", path: "/feedback/form", token: adminToken, wantStatus: http.StatusFound, wantLocation: "/admin/dashboard"},
		{name: "form_as_user", path: "/feedback/form", token: userToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, "", tt.token)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("got location %q, want %q", w.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	router, _ := setupRouter(t)

	userToken := login(t, router, "user@email.com", "user123")

	w := doRequest(router, http.MethodPost, "/auth/logout", "", userToken)

	if w.Code != http.StatusNoContent {
		t.Fatalf("logout got status %d", w.Code)
	}

	// logout without a session is still a 204
	w = doRequest(router, http.MethodPost, "/auth/logout", "", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("logout without session got status %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := doRequest(router, http.MethodGet, path, "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("%s got status %d", path, w.Code)
		}
	}
}
