package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
)

// unmatchedRoute names requests that no route handled, so scans of random
// paths share one span name and log route.
const unmatchedRoute = "unmatched"

// routeTemplate returns the path pattern of the route that handled the
// request, e.g. "/posts/:post_id/". It is only meaningful after c.Next has
// returned with err; before that the current route is the middleware's own.
func routeTemplate(c *fiber.Ctx, err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) && (fe.Code == fiber.StatusNotFound || fe.Code == fiber.StatusMethodNotAllowed) {
		return unmatchedRoute
	}
	r := c.Route()
	if r == nil || r.Path == "" {
		return unmatchedRoute
	}
	return r.Path
}

// routeParams lists the blog identifiers found in the handled route. Numeric
// IDs that fail to parse are skipped; the handler has already rejected them.
func routeParams(c *fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, p := range []struct{ param, key string }{
		{"post_id", "post.id"},
		{"comment_id", "comment.id"},
	} {
		if id, err := strconv.ParseUint(c.Params(p.param), 10, 64); err == nil {
			attrs = append(attrs, attribute.Int64(p.key, int64(id)))
		}
	}
	if slug := c.Params("slug"); slug != "" {
		attrs = append(attrs, attribute.String("category.slug", slug))
	}
	if username := c.Params("username"); username != "" {
		attrs = append(attrs, attribute.String("profile.username", username))
	}
	return attrs
}
