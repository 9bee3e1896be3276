package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/supertictactoe/internal/api/apierr"
	"github.com/mcoot/supertictactoe/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// A panic becomes a 500 with an INTERNAL_ERROR body.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
