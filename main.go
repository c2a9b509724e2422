package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/pintask/modules/agent"
	"github.com/example/pintask/modules/api"
	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/calendar"
	"github.com/example/pintask/modules/notify"
	"github.com/example/pintask/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== pintask - PIN Task Manager ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())     // Independent (users, PIN login, JWT)
	app.Register(agent.NewModule())    // Independent (launcher links)
	app.Register(task.NewModule())     // Emits task lifecycle events
	app.Register(calendar.NewModule()) // Depends on task
	app.Register(notify.NewModule())   // Depends on auth + task, consumes task events
	app.Register(api.NewModule())      // HTTP gateway, depends on everything

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/login          - Login with PIN")
	log.Println("  POST   /api/v1/auth/refresh        - Refresh access token")
	log.Println("  POST   /api/v1/cron/notifications  - Trigger digest run (cron secret)")
	log.Println("  GET    /health                     - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/auth/me             - Current user profile")
	log.Println("  GET    /api/v1/tasks               - List tasks")
	log.Println("  POST   /api/v1/tasks               - Create a task")
	log.Println("  GET    /api/v1/tasks/:id           - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id           - Update a task (completion schedules recurrence)")
	log.Println("  DELETE /api/v1/tasks/:id           - Delete a task")
	log.Println("  GET    /api/v1/calendars           - List feed sources")
	log.Println("  POST   /api/v1/calendars           - Register a feed source")
	log.Println("  DELETE /api/v1/calendars/:id       - Remove a feed source")
	log.Println("  GET    /api/v1/calendars/events    - Aggregated calendar view")
	log.Println("  GET    /api/v1/agents              - List agent links")
	log.Println("")
	log.Println("  Admin Endpoints:")
	log.Println("  GET    /api/v1/admin/users         - List users")
	log.Println("  POST   /api/v1/admin/users         - Create a user")
	log.Println("  PUT    /api/v1/admin/users/:id     - Update a user")
	log.Println("  DELETE /api/v1/admin/users/:id     - Delete a user")
	log.Println("  POST   /api/v1/admin/agents        - Create an agent link")
	log.Println("  PUT    /api/v1/admin/agents/:id    - Update an agent link")
	log.Println("  DELETE /api/v1/admin/agents/:id    - Delete an agent link")
	log.Println("  GET    /api/v1/admin/notifications - Recent digest log")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
