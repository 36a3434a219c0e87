package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/logging"
	"github.com/dbalakin/userman/internal/server/dto"
	"github.com/dbalakin/userman/internal/server/services"
)

// Handler translates HTTP requests into service calls and service results
// into response envelopes. All the user-facing behavior lives in the service
// layer; the handler only maps errors to statuses.
type Handler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewHandler(users *services.UserService, logger logging.Logger) *Handler {
	return &Handler{users: users, logger: logger.With("module", "web")}
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return respondFailure(c, http.StatusNotFound, common.NoUserFoundMessage)
	case errors.Is(err, common.ErrorUnauthorized):
		return respondFailure(c, http.StatusUnauthorized, "invalid username or password")
	default:
		h.logger.Error(c.Request().Context(), "request failed", "error", err)
		return respondFailure(c, http.StatusInternalServerError, err.Error())
	}
}

// List returns all users, served from the list snapshot when one is live.
func (h *Handler) List(c echo.Context) error {
	users, err := h.users.ListAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, users)
}

// GetByID returns one user.
func (h *Handler) GetByID(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, user)
}

// Register creates an account.
func (h *Handler) Register(c echo.Context) error {
	var d dto.RegisterDto
	if err := c.Bind(&d); err != nil {
		return respondFailure(c, http.StatusBadRequest, "invalid request payload")
	}

	_, fieldErrs, err := h.users.Register(c.Request().Context(), d)
	if err != nil {
		return h.fail(c, err)
	}
	if len(fieldErrs) > 0 {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fe.Field+": "+fe.Message)
		}
		return respondFailure(c, http.StatusBadRequest, msgs...)
	}

	return respondSuccess(c, http.StatusOK, nil)
}

// Login verifies credentials and returns an access token.
func (h *Handler) Login(c echo.Context) error {
	var d dto.LoginDto
	if err := c.Bind(&d); err != nil {
		return respondFailure(c, http.StatusBadRequest, "invalid request payload")
	}

	resp, err := h.users.Login(c.Request().Context(), d)
	if err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, resp)
}

// Update overwrites the profile of the user identified by the body.
func (h *Handler) Update(c echo.Context) error {
	var d dto.UserDto
	if err := c.Bind(&d); err != nil {
		return respondFailure(c, http.StatusBadRequest, "invalid request payload")
	}
	if d.ID == "" {
		return respondFailure(c, http.StatusBadRequest, "id is required")
	}

	user, err := h.users.Update(c.Request().Context(), d)
	if err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, user)
}

// Delete removes a user.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, true)
}

// Search returns the users matching the query-string filter.
func (h *Handler) Search(c echo.Context) error {
	var filter services.FindFilter

	if raw := c.QueryParam("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return respondFailure(c, http.StatusBadRequest, "age must be an integer")
		}
		filter.Age = &age
	}
	filter.Gender = c.QueryParam("gender")
	filter.MaritalStatus = c.QueryParam("maritalStatus")
	filter.Location = c.QueryParam("location")

	users, err := h.users.Find(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondSuccess(c, http.StatusOK, users)
}
