package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restdemo/userapi/internal/handler/dto"
	"github.com/restdemo/userapi/internal/metrics"
	"github.com/restdemo/userapi/internal/middleware"
	"github.com/restdemo/userapi/internal/service"
	"github.com/restdemo/userapi/internal/validation"
)

// Failure messages used in error envelopes.
const (
	msgValidationFailed = "Validation failed"
	msgInvalidBody      = "Invalid request body"
	msgPayloadTooLarge  = "Payload Too Large"
	msgUserNotFound     = "User not found"
	msgHiddenError      = "Something went wrong"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc     *service.UserService
	metrics metrics.Recorder
	logger  *slog.Logger
	// exposeErrors puts internal error text into 500 envelopes.
	exposeErrors bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, recorder metrics.Recorder, logger *slog.Logger, info AppInfo) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		svc:          svc,
		metrics:      recorder,
		logger:       logger,
		exposeErrors: info.Development,
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q, res := validation.ValidatePagination(r.URL.Query())
	if !res.OK() {
		h.writeValidationError(w, r, res)
		return
	}

	out, err := h.svc.ListUsers(r.Context(), q.Page, q.Limit)
	if err != nil {
		h.handleServiceError(w, r, "Failed to retrieve users", "", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Success("Users retrieved successfully",
		dto.ToUserPage(out.Users, out.Page, out.Limit, out.Total, out.TotalPages)))
}

// Search handles GET /api/users/search.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, res := validation.ValidateSearch(r.URL.Query())
	if !res.OK() {
		h.writeValidationError(w, r, res)
		return
	}

	out, err := h.svc.SearchUsers(r.Context(), q.Query, q.Page, q.Limit)
	if err != nil {
		h.handleServiceError(w, r, "Failed to search users", "", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Success("Search completed successfully",
		dto.ToUserPage(out.Users, out.Page, out.Limit, out.Total, out.TotalPages)))
}

// Stats handles GET /api/users/stats.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, "Failed to retrieve user statistics", "", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Success("User statistics retrieved successfully", stats))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, "Failed to retrieve user", id, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.Success("User retrieved successfully", user))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	input, res := validation.ValidateCreateUser(req)
	if !res.OK() {
		h.writeValidationError(w, r, res)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, "Failed to create user", "", err)
		return
	}

	h.logger.Info("user_created",
		"user_id", user.ID,
		"has_age", user.Age != nil,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, r, http.StatusCreated, dto.Success("User created successfully", user))
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	input, res := validation.ValidateUpdateUser(req)
	if !res.OK() {
		h.writeValidationError(w, r, res)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, r, "Failed to update user", id, err)
		return
	}

	h.logger.Info("user_updated",
		"user_id", user.ID,
		"empty_update", input.IsEmpty(),
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, r, http.StatusOK, dto.Success("User updated successfully", user))
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, r, "Failed to delete user", id, err)
		return
	}

	h.logger.Info("user_deleted",
		"user_id", id,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, r, http.StatusOK, dto.Success("User deleted successfully", nil))
}

// errTrailingData rejects bodies holding more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON object")

// decode reads exactly one JSON value into dst and writes the error response
// itself when it cannot.
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		if err = dec.Decode(&struct{}{}); err == io.EOF {
			return true
		}
		var maxBytesErr *http.MaxBytesError
		if !errors.As(err, &maxBytesErr) {
			err = errTrailingData
		}
	}

	var (
		maxBytesErr *http.MaxBytesError
		typeErr     *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxBytesErr):
		writeJSON(w, r, http.StatusRequestEntityTooLarge, dto.Failure(msgPayloadTooLarge, "Request body too large"))
	case errors.As(err, &typeErr) && typeErr.Field != "":
		h.metrics.IncValidationFailure()
		writeJSON(w, r, http.StatusBadRequest, dto.Failure(msgValidationFailed,
			fmt.Sprintf("%s: must be a %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String()))))
	default:
		h.metrics.IncValidationFailure()
		writeJSON(w, r, http.StatusBadRequest, dto.Failure(msgInvalidBody, "request body must be a valid JSON object"))
	}
	return false
}

func (h *UserHandler) writeValidationError(w http.ResponseWriter, r *http.Request, res validation.Result) {
	h.metrics.IncValidationFailure()
	h.logger.Debug("validation_failed",
		"reasons", res.Reasons(),
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeJSON(w, r, http.StatusBadRequest, dto.Failure(msgValidationFailed, res.Err().Error()))
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, r *http.Request, failMsg, id string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, r, http.StatusNotFound, dto.Failure(msgUserNotFound,
			fmt.Sprintf("User with ID %s does not exist", id)))
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		errMsg := msgHiddenError
		if h.exposeErrors {
			errMsg = err.Error()
		}
		writeJSON(w, r, http.StatusInternalServerError, dto.Failure(failMsg, errMsg))
	}
}

// jsonKind names a Go kind the way a JSON client would.
func jsonKind(kind string) string {
	switch kind {
	case "string":
		return "string"
	case "float64", "float32", "int", "int64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return kind
	}
}
