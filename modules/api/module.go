package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/pintask/modules/agent"
	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/calendar"
	"github.com/example/pintask/modules/notify"
	"github.com/example/pintask/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP gateway over the service modules.
type APIModule struct {
	app          *fiber.App
	authPort     auth.AuthPort
	taskPort     task.TaskPort
	calendarPort calendar.CalendarPort
	agentPort    agent.AgentPort
	notifyPort   notify.NotifyPort
	listenAddr   string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	addr := os.Getenv("PINTASK_LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	return &APIModule{listenAddr: addr}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "calendar", "agent", "notify"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	case "calendar":
		m.calendarPort = calendar.NewCalendarAdapter(container)
	case "agent":
		m.agentPort = agent.NewAgentAdapter(container)
	case "notify":
		m.notifyPort = notify.NewNotifyAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil || m.taskPort == nil || m.calendarPort == nil ||
		m.agentPort == nil || m.notifyPort == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		AppName:               "pintask",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(m.listenAddr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.listenAddr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"listen_addr": m.listenAddr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(
		m.authPort, m.taskPort, m.calendarPort, m.agentPort, m.notifyPort,
		os.Getenv("PINTASK_CRON_SECRET"),
	)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Cron trigger, guarded by shared secret rather than a user token
	v1.Post("/cron/notifications", handlers.RunNotifications)

	// Protected routes (require authentication)
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.authPort))

	protected.Get("/auth/me", handlers.Me)

	tasks := protected.Group("/tasks")
	tasks.Get("/", handlers.ListTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Get("/:id", handlers.GetTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)

	calendars := protected.Group("/calendars")
	calendars.Get("/", handlers.ListCalendars)
	calendars.Post("/", handlers.AddCalendar)
	calendars.Get("/events", handlers.ListCalendarEvents)
	calendars.Delete("/:id", handlers.DeleteCalendar)

	protected.Get("/agents", handlers.ListAgents)

	// Admin-only routes
	admin := protected.Group("/admin")
	admin.Use(AdminMiddleware())

	users := admin.Group("/users")
	users.Get("/", handlers.ListUsers)
	users.Post("/", handlers.CreateUser)
	users.Put("/:id", handlers.UpdateUser)
	users.Delete("/:id", handlers.DeleteUser)

	agents := admin.Group("/agents")
	agents.Post("/", handlers.CreateAgent)
	agents.Put("/:id", handlers.UpdateAgent)
	agents.Delete("/:id", handlers.DeleteAgent)

	admin.Get("/notifications", handlers.ListNotifications)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
