package server

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "post_id" -> "Invalid post ID", "comment_id" -> "Invalid comment ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "post_id" -> "post ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "_id") {
		words := strings.FieldsFunc(strings.TrimSuffix(param, "_id"), func(r rune) bool {
			return r == '_' || unicode.IsSpace(r)
		})
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// parsePage reads ?page=N. A missing value is the first page; anything that
// is not a positive integer is a page that does not exist.
func parsePage(c *fiber.Ctx) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, models.NewNotFoundError("Page", raw)
	}
	return page, nil
}

// statusForError maps an AppError code to its HTTP status.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err with the status its code maps to. Server-side
// failures are logged with the request context.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// redirect sends a redirect to a blog path, honouring the route prefix. The
// body repeats the target for JSON clients along with any extra fields.
func (s *Server) redirect(c *fiber.Ctx, status int, path string, body fiber.Map) error {
	location := s.config.RoutePrefix + path
	if body == nil {
		body = fiber.Map{}
	}
	body["redirect"] = location
	c.Location(location)
	return c.Status(status).JSON(body)
}

// deny answers a refused mutation with 302 Found to the read view.
func (s *Server) deny(c *fiber.Ctx, decision policy.Decision) error {
	return s.redirect(c, fiber.StatusFound, decision.RedirectTo, nil)
}

// requesterID returns the authenticated user set by AuthRequired.
func requesterID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}
