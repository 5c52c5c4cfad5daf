package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusfound/lostfound-backend/api/controllers"
	"github.com/campusfound/lostfound-backend/internal/catalog"
	"github.com/campusfound/lostfound-backend/internal/items"
	pkgAuth "github.com/campusfound/lostfound-backend/pkg/auth"
	"github.com/campusfound/lostfound-backend/pkg/auth/session"
	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/enums"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/metrics"
)

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubItemsService struct {
	items.Service
}

func (stubItemsService) List(ctx context.Context, filters items.ListFilters) (*items.ListResult, error) {
	return &items.ListResult{Items: []items.ItemDTO{}}, nil
}

func (stubItemsService) Get(ctx context.Context, id uuid.UUID) (*items.ItemDTO, error) {
	return &items.ItemDTO{ID: id, Status: enums.ItemStatusActive}, nil
}

func (stubItemsService) Operations(ctx context.Context, id uuid.UUID) ([]items.OperationDTO, error) {
	return []items.OperationDTO{}, nil
}

type stubCatalogService struct {
	catalog.Service
}

func (stubCatalogService) ListBanners(ctx context.Context) ([]catalog.BannerDTO, error) {
	return []catalog.BannerDTO{{ID: uuid.New(), Title: "Desk Hours", BannerType: enums.BannerTypeAnnouncement}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "lostfound", ExpirationMinutes: 30},
	}
}

func newTestRouter(cfg *config.Config, readiness ...controllers.ReadinessCheck) http.Handler {
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, Deps{
		Sessions:      stubSessionManager{},
		Readiness:     readiness,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		MetricsHandle: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Items:         stubItemsService{},
		Catalog:       stubCatalogService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicItemRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/api/v1/items", "/api/v1/items/" + uuid.NewString(), "/api/v1/banners"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
	}
}

func TestPrivateRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/me/wallet"},
		{http.MethodPost, "/api/v1/items"},
		{http.MethodPatch, "/api/v1/items/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/notifications"},
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.target, strings.NewReader(`{}`)))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.target, resp.Code)
		}
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/admin/v1/items/" + uuid.NewString() + "/operations"

	student := httptest.NewRequest(http.MethodGet, target, nil)
	student.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStudent))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, student)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestNilServiceYieldsInternalError(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/wallet", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStudent))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposesRouteSeries(t *testing.T) {
	router := newTestRouter(testConfig())
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/items/"+uuid.NewString(), nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/api/v1/items/{itemId}"`) {
		t.Fatalf("expected route pattern label in metrics output:\n%s", resp.Body.String())
	}
}

func TestStaffSelfRegisterHiddenByDefault(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/staff/register", strings.NewReader(`{}`)))
	if resp.Code != http.StatusNotFound && resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected staff self registration to be unrouted, got %d", resp.Code)
	}
}

func TestReadinessReportsDependencyFailure(t *testing.T) {
	down := controllers.ReadinessCheck{Name: "database", Ping: func(context.Context) error { return context.DeadlineExceeded }}
	router := newTestRouter(testConfig(), down)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
