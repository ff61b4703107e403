package serviceutils

import (
	"github.com/labstack/echo/v4"

	"github.com/locvowork/compensation_dashboard/internal/logger"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResponseSuccess writes data inside a success envelope.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

// ResponseError logs err and writes a failure envelope. Server errors keep their detail out of the body.
func ResponseError(c echo.Context, status int, message string, err error) error {
	ctx := c.Request().Context()
	resp := Response{Success: false, Message: message}
	if err != nil {
		if status >= 500 {
			logger.ErrorLog(ctx, message, err)
		} else {
			logger.WarnLog(ctx, "%s: %v", message, err)
			resp.Error = err.Error()
		}
	}
	return c.JSON(status, resp)
}
