// Package web provides the admin REST API: triggering transitions, browsing
// applications and their history, and recalling failure records.
package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/arthadana/alur/pkg/models"
	"github.com/arthadana/alur/pkg/persistence"
)

// TransitionDispatcher runs one status transition end to end.
type TransitionDispatcher interface {
	Dispatch(ctx context.Context, applicationID int64, newStatus models.StatusCode, reason, note string) error
}

// RecordRecaller replays a single failure record.
type RecordRecaller interface {
	Recall(ctx context.Context, record *models.FailureAction) error
}

type APIHandlers struct {
	store      persistence.Persistence
	dispatcher TransitionDispatcher
	recaller   RecordRecaller
	validator  *validator.Validate
}

func NewAPIHandlers(
	store persistence.Persistence,
	dispatcher TransitionDispatcher,
	recaller RecordRecaller,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		store:      store,
		dispatcher: dispatcher,
		recaller:   recaller,
		validator:  validator,
	}
}

// Register mounts every route on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/applications/:id", h.GetApplication)
	app.Get("/applications/:id/history", h.GetApplicationHistory)
	app.Post("/applications/:id/transitions", h.CreateTransition)
	app.Get("/failure-actions", h.ListFailureActions)
	app.Post("/failure-actions/:id/recall", h.RecallFailureAction)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	httpStatus := http.StatusOK

	var detail string

	if err := h.store.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
		detail = err.Error()
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"detail":    detail,
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetApplication(c fiber.Ctx) error {
	id, err := h.applicationID(c)
	if err != nil {
		return badRequest(c, "Invalid application ID")
	}

	app, err := h.store.Applications().ByID(c.Context(), id)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Application not found")
		}

		return internalError(c, err)
	}

	return c.JSON(app)
}

func (h *APIHandlers) GetApplicationHistory(c fiber.Ctx) error {
	id, err := h.applicationID(c)
	if err != nil {
		return badRequest(c, "Invalid application ID")
	}

	history, err := h.store.StatusHistory().ByApplicationID(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"history": history})
}

func (h *APIHandlers) CreateTransition(c fiber.Ctx) error {
	id, err := h.applicationID(c)
	if err != nil {
		return badRequest(c, "Invalid application ID")
	}

	var req TransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	newStatus := models.StatusCode(req.StatusCode)
	if !newStatus.IsKnown() {
		return badRequest(c, "Unknown status code")
	}

	if err := h.dispatcher.Dispatch(c.Context(), id, newStatus, req.ChangeReason, req.Note); err != nil {
		return handleDispatchError(c, err)
	}

	return c.JSON(TransitionResponse{
		ApplicationID: id,
		StatusCode:    int(newStatus),
		StatusName:    newStatus.Name(),
	})
}

func (h *APIHandlers) ListFailureActions(c fiber.Ctx) error {
	records, err := h.store.FailureActions().All(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	responses := make([]FailureActionResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, newFailureActionResponse(record))
	}

	return c.JSON(fiber.Map{
		"failure_actions": responses,
		"total_count":     len(responses),
	})
}

func (h *APIHandlers) RecallFailureAction(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Failure action ID is required")
	}

	record, err := h.store.FailureActions().ByID(c.Context(), id)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Failure action not found")
		}

		return internalError(c, err)
	}

	if err := h.recaller.Recall(c.Context(), record); err != nil {
		return handleDispatchError(c, err)
	}

	// The record stays in place after a successful recall; the table keeps
	// the full failure history.
	return c.JSON(newFailureActionResponse(record))
}

func (h *APIHandlers) applicationID(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
