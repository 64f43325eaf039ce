// Package httpapi exposes the admin dashboard API over HTTP. Routing uses
// chi; sessions are resolved once per request and role checks run per route
// subtree.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kuryentech/gardian-admin/internal/logging"
	"github.com/kuryentech/gardian-admin/internal/server/access"
	"github.com/kuryentech/gardian-admin/internal/server/config"
	"github.com/kuryentech/gardian-admin/internal/server/models"
	"github.com/kuryentech/gardian-admin/internal/server/services"
)

// Server wires the service layer to HTTP routes.
type Server struct {
	cfg           *config.Config
	resolver      *access.Resolver
	auth          *services.AuthService
	users         *services.UserAdminService
	reports       *services.ReportService
	exports       *services.ExportService
	notifications *services.NotificationService
	analytics     *services.AnalyticsService
	feedback      *services.FeedbackService
	logger        logging.Logger

	httpServer *http.Server
}

// NewServer constructs the HTTP server around the given services.
func NewServer(
	cfg *config.Config,
	resolver *access.Resolver,
	auth *services.AuthService,
	users *services.UserAdminService,
	reports *services.ReportService,
	exports *services.ExportService,
	notifications *services.NotificationService,
	analytics *services.AnalyticsService,
	feedback *services.FeedbackService,
	logger logging.Logger,
) *Server {
	return &Server{
		cfg:           cfg,
		resolver:      resolver,
		auth:          auth,
		users:         users,
		reports:       reports,
		exports:       exports,
		notifications: notifications,
		analytics:     analytics,
		feedback:      feedback,
		logger:        logger.With("module", "httpapi"),
	}
}

// Router assembles the route tree. Reports are open to every admin role;
// user management is super_admin only; dashboards, exports and feedback are
// shared by super and personnel admins.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(s.sessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/verify", s.handleVerifyCode)
		r.Post("/resend", s.handleResendCode)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.Post("/signup", s.handleSignup)
		r.With(s.requireRoles(models.AdminRoles()...)).Get("/me", s.handleGetMe)
	})

	allAdmins := s.requireRoles(models.AdminRoles()...)
	dashboardAdmins := s.requireRoles(models.RoleSuperAdmin, models.RolePersonnelAdmin)
	superOnly := s.requireRoles(models.RoleSuperAdmin)

	r.Route("/reports", func(r chi.Router) {
		r.Use(allAdmins)
		r.Get("/", s.handleListReports)
		r.Get("/stats", s.handleReportStats)
		r.With(dashboardAdmins).Get("/export", s.handleExportReports)
		r.Get("/{reportID}", s.handleGetReport)
		r.Patch("/{reportID}/status", s.handleUpdateReportStatus)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(superOnly)
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Patch("/{userID}", s.handleUpdateUser)
		r.Delete("/{userID}", s.handleDeleteUser)
	})

	r.With(dashboardAdmins).Get("/notifications", s.handleListNotifications)
	r.With(dashboardAdmins).Get("/analytics/heatmap", s.handleHeatmap)
	r.With(dashboardAdmins).Get("/analytics/monthly", s.handleMonthlyCounts)
	r.With(dashboardAdmins).Get("/feedback", s.handleListFeedback)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.EndpointAddrHTTP,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddrHTTP)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
