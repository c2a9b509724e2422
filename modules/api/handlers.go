package api

import (
	"log"
	"strings"

	"github.com/example/pintask/modules/agent"
	"github.com/example/pintask/modules/auth"
	"github.com/example/pintask/modules/calendar"
	"github.com/example/pintask/modules/notify"
	"github.com/example/pintask/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authPort     auth.AuthPort
	taskPort     task.TaskPort
	calendarPort calendar.CalendarPort
	agentPort    agent.AgentPort
	notifyPort   notify.NotifyPort
	cronSecret   string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, calendarPort calendar.CalendarPort, agentPort agent.AgentPort, notifyPort notify.NotifyPort, cronSecret string) *Handlers {
	return &Handlers{
		authPort:     authPort,
		taskPort:     taskPort,
		calendarPort: calendarPort,
		agentPort:    agentPort,
		notifyPort:   notifyPort,
		cronSecret:   cronSecret,
	}
}

// Login handles PIN login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PIN == "" {
		return badRequest(c, "PIN is required")
	}

	resp, err := h.authPort.Login(c.UserContext(), req.PIN)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		UserID:   resp.UserID,
		Email:    resp.Email,
		FullName: resp.FullName,
		Role:     resp.Role,
		TokenResponse: TokenResponse{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			TokenType:    resp.TokenType,
		},
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	resp, err := h.authPort.RefreshTokens(c.UserContext(), req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Me returns the authenticated user's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	user, err := h.authPort.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// ListTasks returns the caller's tasks. Admins may pass ?user_id= to list
// another user's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	resp, err := h.taskPort.ListTasks(c.UserContext(), callerFromCtx(c), c.Query("user_id"))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTask creates a task for the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}

	resp, err := h.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Caller:            callerFromCtx(c),
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		AttachmentURL:     req.AttachmentURL,
		AttachmentType:    req.AttachmentType,
		AssigneeID:        req.AssigneeID,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetTask returns one task.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.taskPort.GetTask(c.UserContext(), callerFromCtx(c), c.Params("id"))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask applies a partial update. Completing a recurring task schedules
// its next occurrence; if that scheduling fails the response still carries
// the completed task plus a successor_error field.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		Caller:            callerFromCtx(c),
		TaskID:            c.Params("id"),
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask removes one task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.taskPort.DeleteTask(c.UserContext(), callerFromCtx(c), c.Params("id")); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCalendars returns the caller's feed sources.
func (h *Handlers) ListCalendars(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	resp, err := h.calendarPort.ListSources(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// AddCalendar registers a feed source for the caller.
func (h *Handlers) AddCalendar(c *fiber.Ctx) error {
	var req AddCalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	claims := claimsFromCtx(c)
	resp, err := h.calendarPort.AddSource(c.UserContext(), &calendar.AddSourceRequest{
		UserID: claims.UserID,
		Name:   req.Name,
		URL:    req.URL,
		Type:   req.Type,
		Color:  req.Color,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteCalendar removes one of the caller's feed sources.
func (h *Handlers) DeleteCalendar(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	if err := h.calendarPort.DeleteSource(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCalendarEvents returns the aggregated calendar view for the caller.
func (h *Handlers) ListCalendarEvents(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	resp, err := h.calendarPort.ListEvents(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListAgents returns agent links. Non-admin callers only see active ones.
func (h *Handlers) ListAgents(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	resp, err := h.agentPort.ListAgents(c.UserContext(), !claims.IsAdmin())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateAgent registers an agent link (admin).
func (h *Handlers) CreateAgent(c *fiber.Ctx) error {
	var req CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.agentPort.CreateAgent(c.UserContext(), &agent.CreateAgentRequest{
		Name:            req.Name,
		Description:     req.Description,
		URL:             req.URL,
		OpenInNewWindow: req.OpenInNewWindow,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateAgent mutates an agent link (admin).
func (h *Handlers) UpdateAgent(c *fiber.Ctx) error {
	var req UpdateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.agentPort.UpdateAgent(c.UserContext(), &agent.UpdateAgentRequest{
		AgentID:         c.Params("id"),
		Name:            req.Name,
		Description:     req.Description,
		URL:             req.URL,
		OpenInNewWindow: req.OpenInNewWindow,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteAgent removes an agent link (admin).
func (h *Handlers) DeleteAgent(c *fiber.Ctx) error {
	if err := h.agentPort.DeleteAgent(c.UserContext(), c.Params("id")); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers lists all users (admin).
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	resp, err := h.authPort.ListUsers(c.UserContext())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateUser provisions a user (admin).
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.PIN == "" {
		return badRequest(c, "Email and PIN are required")
	}

	resp, err := h.authPort.CreateUser(c.UserContext(), &auth.CreateUserRequest{
		Email:    req.Email,
		FullName: req.FullName,
		PIN:      req.PIN,
		Role:     req.Role,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateUser mutates a user (admin).
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authPort.UpdateUser(c.UserContext(), &auth.UpdateUserRequest{
		UserID:   c.Params("id"),
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
		NewPIN:   req.NewPIN,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteUser removes a user (admin).
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	if err := h.authPort.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListNotifications returns recent digest log entries (admin).
func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	resp, err := h.notifyPort.ListLogs(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// RunNotifications triggers a digest run. Intended for an external cron
// caller; guarded by a shared secret when one is configured.
func (h *Handlers) RunNotifications(c *fiber.Ctx) error {
	if h.cronSecret != "" && c.Get("X-Cron-Secret") != h.cronSecret {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid cron secret",
		})
	}

	resp, err := h.notifyPort.RunDigest(c.UserContext())
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// handleServiceError maps errors crossing the service boundary onto HTTP
// statuses by matching known error messages.
func (h *Handlers) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid PIN format"):
		return badRequest(c, "PIN must be 4-6 digits")
	case strings.Contains(errStr, "invalid PIN"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid PIN",
		})
	case strings.Contains(errStr, "not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case strings.Contains(errStr, "not allowed"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Not allowed to access this resource",
		})
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "table not provisioned"):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "setup_required",
			Message: "Calendar storage is not provisioned yet",
		})
	case strings.Contains(errStr, "is required"),
		strings.Contains(errStr, "invalid email format"),
		strings.Contains(errStr, "invalid url"),
		strings.Contains(errStr, "unsupported url scheme"),
		strings.Contains(errStr, "invalid status"),
		strings.Contains(errStr, "invalid priority"),
		strings.Contains(errStr, "invalid role"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: errStr,
		})
	default:
		// Log the actual error but don't expose it to the client.
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
