package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the API envelope; statusCode is used both as the HTTP
// status and as the envelope status.
func DataResponse(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

func SuccessResponse(c echo.Context, data any) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes validation failures as a 400.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return DataResponse(c, http.StatusBadRequest, errs)
}

// AppErrorResponse writes err under its own status. Errors that are not an
// *AppError are reported as a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	appErr := MapError(err, "Something went wrong")
	return DataResponse(c, appErr.Status, []*AppError{appErr})
}
