package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"craftmotion/studio-api/config"
	"craftmotion/studio-api/handlers"
	"craftmotion/studio-api/internal/comments"
	"craftmotion/studio-api/internal/invoicing"
	"craftmotion/studio-api/internal/review"
	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/internal/store"
	"craftmotion/studio-api/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config.InitLogger()

	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	st := store.New(config.SupabaseClient)
	sessions := session.NewManager(secret)
	commentEngine := comments.NewEngine(st, nil)
	reviewService := review.NewService(st)
	composer := invoicing.NewComposer(st, config.HourlyRateCents(), config.DefaultInvoicePrefix, config.DefaultDueDays)

	h := handlers.NewApplicationHandler(config.Log, st, commentEngine, reviewService, composer, sessions)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Studio API is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	// Auth
	apiV1.Post("/auth/login", h.Login)
	apiV1.Post("/portal/login", h.PortalLogin)
	apiV1.Get("/auth/me", middleware.RequireAuth(sessions), h.Me)

	admin := apiV1.Group("", middleware.RequireAuth(sessions), middleware.RequireRole(session.RoleAdmin))
	client := apiV1.Group("", middleware.RequireAuth(sessions), middleware.RequireRole(session.RoleClient))
	authed := apiV1.Group("", middleware.RequireAuth(sessions))

	// Clients
	admin.Post("/clients", h.CreateClient)
	admin.Get("/clients", h.GetClients)
	admin.Get("/clients/:id", h.GetClient)
	admin.Patch("/clients/:id", h.UpdateClient)
	admin.Delete("/clients/:id", h.DeleteClient)

	// Projects
	admin.Post("/projects", h.CreateProject)
	admin.Get("/projects", h.GetProjects)
	admin.Get("/projects/:id", h.GetProject)
	admin.Patch("/projects/:id", h.UpdateProject)
	admin.Delete("/projects/:id", h.DeleteProject)
	admin.Get("/projects/:id/stats", h.GetProjectStats)

	// Tasks
	admin.Post("/projects/:id/tasks", h.CreateTask)
	admin.Get("/projects/:id/tasks", h.GetProjectTasks)
	admin.Get("/tasks/:id", h.GetTask)
	admin.Patch("/tasks/:id", h.UpdateTask)
	admin.Delete("/tasks/:id", h.DeleteTask)

	// Time entries and reports
	admin.Post("/time-entries", h.CreateTimeEntry)
	admin.Get("/time-entries", h.GetTimeEntries)
	admin.Get("/time-entries/report", h.GetTimeReport)
	admin.Patch("/time-entries/:id", h.UpdateTimeEntry)
	admin.Delete("/time-entries/:id", h.DeleteTimeEntry)

	// Deliverables and review. The review verdict belongs to the client;
	// everything else is admin-only.
	admin.Post("/projects/:id/deliverables", h.CreateDeliverable)
	authed.Get("/projects/:id/deliverables", h.GetProjectDeliverables)
	authed.Get("/deliverables/:id", h.GetDeliverable)
	authed.Get("/deliverables/:id/versions", h.GetDeliverableVersions)
	admin.Post("/deliverables/:id/versions", h.UploadDeliverableVersion)
	admin.Post("/deliverables/:id/submit-review", h.SubmitDeliverableForReview)
	client.Post("/deliverables/:id/approve", h.ApproveDeliverable)
	client.Post("/deliverables/:id/request-changes", h.RequestDeliverableChanges)
	admin.Post("/deliverables/:id/reopen", h.ReopenDeliverable)
	admin.Post("/deliverables/:id/deliver", h.DeliverDeliverable)

	// Timeline comments
	authed.Post("/deliverables/:id/timeline-comments", h.CreateComment)
	authed.Get("/deliverables/:id/timeline-comments", h.GetComments)
	authed.Get("/deliverables/:id/timeline-comments/markers", h.GetCommentMarkers)
	authed.Patch("/deliverables/:id/timeline-comments/:commentId", h.ResolveComment)
	authed.Delete("/deliverables/:id/timeline-comments/:commentId", h.DeleteComment)

	// Invoicing. The settings and available-entries routes register before
	// /invoices/:id so the literal segments win the match.
	admin.Post("/invoices", h.CreateInvoice)
	admin.Get("/invoices", h.GetInvoices)
	admin.Get("/invoices/settings", h.GetInvoiceSettings)
	admin.Patch("/invoices/settings", h.UpdateInvoiceSettings)
	admin.Get("/invoices/available-entries", h.GetAvailableTimeEntries)
	admin.Get("/invoices/:id", h.GetInvoice)
	admin.Patch("/invoices/:id/status", h.UpdateInvoiceStatus)

	config.Log.Infof("Starting Studio API on port %s", config.Port())
	log.Fatal(app.Listen(":" + config.Port()))
}
