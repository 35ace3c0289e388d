package http

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"loyalty/config"
	httpmiddleware "loyalty/internal/delivery/http/middleware"
	"loyalty/internal/delivery/http/router"
	"loyalty/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func createTestServer(t *testing.T, maxBodySize string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.Port = 8080
	cfg.HTTP.MaxRequestBodySize = maxBodySize

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	delivery, err := NewServer(HTTPParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    cfg,
		Logger:    logger,
		RouterParams: router.RouterParams{
			UserHandler:          handler.NewUserHandler(nil),
			ProfileHandler:       handler.NewProfileHandler(nil),
			MissionHandler:       handler.NewMissionHandler(nil),
			ParticipationHandler: handler.NewParticipationHandler(nil),
			ReviewHandler:        handler.NewReviewHandler(nil),
			RedemptionHandler:    handler.NewRedemptionHandler(nil),
			PointsHandler:        handler.NewPointsHandler(nil),
			DeviceHandler:        handler.NewDeviceHandler(nil),
			MediaHandler:         handler.NewMediaHandler(nil),
			AuthMiddleware:       httpmiddleware.NewAuthMiddleware(nil),
		},
	})
	require.NoError(t, err)

	return delivery.(*httpServer).server
}

func TestNewServer_EnforcesBodyLimit(t *testing.T) {
	server := createTestServer(t, "1K")

	body := strings.Repeat("a", 2048)
	req := httptest.NewRequest(stdhttp.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)
	assert.Equal(t, stdhttp.StatusRequestEntityTooLarge, rec.Code)
}

func TestNewServer_HealthEndpoint(t *testing.T) {
	server := createTestServer(t, "1K")

	req := httptest.NewRequest(stdhttp.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}
