package web

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// ApiResponse is the envelope every endpoint answers with. StatusCode
// mirrors the HTTP status so clients reading only the body see the outcome;
// Messages is a single string, multiple causes are joined with "; ".
type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	IsSuccess  bool   `json:"isSuccess"`
	Messages   string `json:"messages"`
	Result     any    `json:"result"`
}

func respondSuccess(c echo.Context, code int, result any) error {
	return c.JSON(code, ApiResponse{
		StatusCode: code,
		IsSuccess:  true,
		Result:     result,
	})
}

func respondFailure(c echo.Context, code int, messages ...string) error {
	return c.JSON(code, ApiResponse{
		StatusCode: code,
		IsSuccess:  false,
		Messages:   strings.Join(messages, "; "),
	})
}
