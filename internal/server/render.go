package server

import (
	"bytes"
	"errors"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	csrfFormField = "csrfmiddlewaretoken"
	csrfLocalsKey = "csrf"
)

// render executes a page template with the viewer and CSRF token added to data.
func (s *Server) render(c *fiber.Ctx, status int, page string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if viewer := s.currentUser(c); viewer != nil {
		data["Viewer"] = viewer
	}
	if token, ok := c.Locals(csrfLocalsKey).(string); ok {
		data["CSRF"] = token
	}

	var buf bytes.Buffer
	if err := s.views.Page(&buf, page, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// ErrorHandler renders the 404, 403 and 500 pages for errors returned by handlers.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case models.HasCode(err, models.CodeNotFound):
		status = fiber.StatusNotFound
	case models.HasCode(err, models.CodeForbidden):
		status = fiber.StatusForbidden
	}

	page := "500"
	switch status {
	case fiber.StatusNotFound:
		page = "404"
	case fiber.StatusForbidden:
		page = "403"
	default:
		if status < fiber.StatusInternalServerError {
			return c.Status(status).SendString(err.Error())
		}
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	if rerr := s.render(c, status, page, fiber.Map{"Path": c.Path()}); rerr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to render error page",
			slog.String("page", page),
			slog.String("error", rerr.Error()),
		)
		return c.Status(status).SendString(fiber.ErrInternalServerError.Message)
	}
	return nil
}

// CSRFFailure renders the 403 page for a missing or bad CSRF token.
func (s *Server) CSRFFailure(c *fiber.Ctx, err error) error {
	middleware.Logger.WarnContext(c.UserContext(), "csrf check failed",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return s.render(c, fiber.StatusForbidden, "403", nil)
}
