package handlers

import (
	"html"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"densitydesk/internal/middleware"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 dark:bg-red-900/30 text-red-700 dark:text-red-300 text-sm" role="alert">` + html.EscapeString(message) + `</div>`,
	)
}

// htmxErrorTo shows the error in target instead of the element the request
// would have swapped.
func htmxErrorTo(c fiber.Ctx, target, message string) error {
	c.Set("HX-Retarget", target)
	c.Set("HX-Reswap", "innerHTML")
	return htmxError(c, message)
}

// isHTMX reports whether the request came from HTMX.
func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// sessionKey returns the state key of the current browser session.
func sessionKey(c fiber.Ctx) (string, error) {
	key := middleware.SessionKey(c)
	if key == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
	}
	return key, nil
}

// attachment sends body as a file download.
func attachment(c fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// exportName returns "<prefix>-<unix millis>.<ext>".
func exportName(prefix, ext string, now time.Time) string {
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "." + ext
}
