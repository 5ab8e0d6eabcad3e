package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// The wire format is the plain JSON bodies the frontend already consumes:
// payloads are returned as-is and failures reply {"message": "..."} with the
// matching HTTP status. No envelope.

// SuccessResponse writes the payload with 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// MessageOK writes a {"message": ...} confirmation with 200.
func MessageOK(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// BadRequestResponse writes validation details with 400.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusBadRequest, data)
}

// BadRequestMessage writes a {"message": ...} rejection with 400.
func BadRequestMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}

// NotFoundResponse writes a {"message": ...} miss with 404.
func NotFoundResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, MessageResponse{Message: message})
}

// InternalServerErrorResponse writes a generic {"message": ...} with 500.
func InternalServerErrorResponse(c echo.Context, message string) error {
	if message == "" {
		message = "Something went wrong"
	}
	return c.JSON(http.StatusInternalServerError, MessageResponse{Message: message})
}

// AppErrorResponse maps an AppError to its status and message; anything else
// collapses to a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, MessageResponse{Message: appErr.Message})
	}
	return InternalServerErrorResponse(c, "")
}
