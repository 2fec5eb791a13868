// Package httpserver exposes the coach API over Fiber.
package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hskaicoach/backend/internal/app"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	app       *fiber.App
	container *app.Container
}

// New constructs a server with baseline middleware and all routes mounted.
func New(container *app.Container) (*Server, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container is required")
	}
	cfg := container.Config
	if cfg == nil {
		return nil, fmt.Errorf("container missing config")
	}

	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ServerHeader:          "hsk-ai-coach",
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.Server.ReadTimeout,
		ReadBufferSize:        4 * 1024,
		WriteBufferSize:       4 * 1024,
	})

	fiberApp.Use(requestid.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(recover.New())

	if container.Observability != nil {
		fiberApp.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			route := ""
			if r := c.Route(); r != nil {
				route = r.Path
			}
			if route == "" {
				route = c.Path()
			}
			container.Observability.RecordHTTPRequest(c.UserContext(), c.Method(), route, c.Response().StatusCode(), time.Since(start))
			return err
		})
	}

	if container.Observability != nil && container.Observability.TracerProvider() != nil {
		tracer := otel.Tracer("hsk-ai-coach/http")
		fiberApp.Use(func(c *fiber.Ctx) error {
			spanCtx, span := tracer.Start(c.UserContext(), c.Method()+" "+c.Path())
			c.SetUserContext(spanCtx)
			err := c.Next()
			route := ""
			if r := c.Route(); r != nil {
				route = r.Path
			}
			span.SetAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", c.Response().StatusCode()),
			)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if status := c.Response().StatusCode(); status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
			} else {
				span.SetStatus(codes.Ok, "OK")
			}
			span.End()
			return err
		})
	}

	if container.Observability != nil {
		if handler := container.Observability.PrometheusHandler(); handler != nil {
			fiberApp.Get("/metrics", adaptor.HTTPHandler(handler))
		}
	}

	registerHealthRoutes(fiberApp, container)
	registerRoutes(fiberApp, container)

	return &Server{app: fiberApp, container: container}, nil
}

// App exposes the Fiber instance, mainly for handler tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks until context cancellation or a fatal listen error occurs.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.container.Config.Server.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		timeout := s.container.Config.Server.GracefulShutdownDelay
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.app.ShutdownWithContext(shutdownCtx)
		if err == nil {
			err = <-errCh
		}
		return err
	case err := <-errCh:
		return err
	}
}

func registerRoutes(fiberApp *fiber.App, container *app.Container) {
	h := &handlers{c: container}

	api := fiberApp.Group("/api")

	api.Post("/auth/register", h.register)
	api.Post("/auth/login", h.login)

	authed := api.Group("", jwtAuth(container))
	authed.Get("/me", h.me)
	authed.Put("/me/target-level", h.updateTargetLevel)

	authed.Post("/analyze", h.analyzeWriting)
	authed.Post("/reading", h.analyzeReading)
	authed.Post("/exercise", h.generateExercises)
	authed.Get("/usage", h.usage)
	authed.Get("/history", h.history)
	authed.Get("/profile", h.profile)

	authed.Get("/flashcards", h.listFlashcards)
	authed.Post("/flashcards", h.createFlashcard)
	authed.Get("/flashcards/due", h.dueFlashcards)
	authed.Post("/flashcards/:id/review", h.reviewFlashcard)
	authed.Delete("/flashcards/:id", h.deleteFlashcard)

	authed.Get("/exams", h.listExams)
	authed.Get("/exams/:id", h.getExam)
	authed.Post("/exams/:id/grade", h.gradeExam)

	admin := api.Group("/admin", adminAuth(container))
	admin.Get("/cache/stats", h.cacheStats)
	admin.Post("/cache/flush", h.cacheFlush)
	admin.Put("/users/:id/plan", h.updateUserPlan)
}

func registerHealthRoutes(fiberApp *fiber.App, container *app.Container) {
	fiberApp.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]fiber.Map)
		overall := "ok"

		if container.DBPool != nil {
			start := time.Now()
			err := container.DBPool.Ping(ctx)
			check := fiber.Map{
				"status":     "ok",
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				check["status"] = "error"
				check["error"] = err.Error()
				overall = "degraded"
			}
			checks["postgres"] = check
		}

		if container.Redis != nil {
			start := time.Now()
			err := container.Redis.Ping(ctx).Err()
			check := fiber.Map{
				"status":     "ok",
				"latency_ms": time.Since(start).Milliseconds(),
			}
			if err != nil {
				check["status"] = "error"
				check["error"] = err.Error()
				overall = "degraded"
			}
			checks["redis"] = check
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": overall,
			"checks": checks,
		})
	})
}
