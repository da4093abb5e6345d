package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stocksim/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message)
}

// DomainErrorResponse maps a typed engine failure to an HTTP status.
// Unrecognized errors are reported as 500 without leaking detail.
func DomainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBadCredential):
		return ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUsernameTaken):
		return ErrorResponse(c, http.StatusConflict, "Username already taken")
	case errors.Is(err, domain.ErrUnknownSymbol):
		return ErrorResponse(c, http.StatusNotFound, "Unknown symbol")
	case errors.Is(err, domain.ErrNoSuchHolding):
		return ErrorResponse(c, http.StatusNotFound, "No holding in that symbol")
	case errors.Is(err, domain.ErrNoSuchUser):
		return ErrorResponse(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrorResponse(c, http.StatusBadRequest, "Insufficient funds")
	case errors.Is(err, domain.ErrInsufficientShares):
		return ErrorResponse(c, http.StatusBadRequest, "Insufficient shares")
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return ErrorResponse(c, http.StatusBadRequest, "Amount out of range")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return ErrorResponse(c, http.StatusBadRequest, "Invalid share quantity")
	case errors.Is(err, domain.ErrSameAsOld):
		return ErrorResponse(c, http.StatusBadRequest, "New password must differ from the old one")
	case errors.Is(err, domain.ErrOracleUnavailable):
		return ErrorResponse(c, http.StatusBadGateway, "Price oracle unavailable")
	default:
		return ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
