// Package httpapi binds the proposal, payment and budget operations to
// HTTP/JSON routes. The acting user is taken from the X-Actor-ID header and
// resolved against the user directory on every request.
package httpapi

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/rkam/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActorHeader names the request header carrying the acting user's ID.
const ActorHeader = "X-Actor-ID"

const actorKey = "actor"

// Services are the use cases exposed over HTTP.
type Services struct {
	Proposals service.ProposalService
	Payments  service.PaymentService
	Budget    service.BudgetService
	Users     service.UserService
}

// Options tunes the HTTP app. Zero values are usable.
type Options struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

type server struct {
	svc    Services
	logger *slog.Logger
}

// New builds the fiber app with every route registered.
func New(svc Services, opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &server{svc: svc, logger: logger}

	app := fiber.New(fiber.Config{
		AppName:               "rkam",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return WriteError(c, logger, err)
		},
	})
	app.Use(s.accessLog)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/budget-lines", s.listBudgetLines)
	app.Get("/budget-lines/:id", s.getBudgetLine)

	app.Get("/proposals", s.listProposals)
	app.Get("/proposals/:id", s.getProposal)
	app.Get("/proposals/:id/history", s.proposalHistory)
	app.Get("/proposals/:id/payments", s.listPayments)
	app.Get("/payments/:id", s.getPayment)

	app.Post("/proposals", s.requireActor, s.createProposal)
	app.Patch("/proposals/:id", s.requireActor, s.updateProposal)
	app.Delete("/proposals/:id", s.requireActor, s.deleteProposal)
	app.Post("/proposals/:id/submit", s.requireActor, s.submit)
	app.Post("/proposals/:id/verify", s.requireActor, s.verify)
	app.Post("/proposals/:id/approve", s.requireActor, s.approve)
	app.Post("/proposals/:id/final-approve", s.requireActor, s.finalApprove)
	app.Post("/proposals/:id/reject", s.requireActor, s.reject)
	app.Post("/proposals/:id/payments", s.requireActor, s.processPayment)
	app.Post("/payments/:id/complete", s.requireActor, s.completePayment)
	app.Post("/payments/:id/cancel", s.requireActor, s.cancelPayment)

	return app
}

func (s *server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// Render here so the logged status is the final one.
		if werr := WriteError(c, s.logger, err); werr != nil {
			return werr
		}
	}
	s.logger.InfoContext(c.UserContext(), "http_request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *server) requireActor(c *fiber.Ctx) error {
	actor, err := s.svc.Users.Resolve(c.UserContext(), c.Get(ActorHeader))
	if err != nil {
		return err
	}
	c.Locals(actorKey, actor)
	return c.Next()
}
