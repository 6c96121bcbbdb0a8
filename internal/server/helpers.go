package server

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const viewerLocalsKey = "viewer"

// parseID reads a positive integer route parameter. Anything else is a 404,
// as the route would not match a real object.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// currentUser loads the signed-in user once per request. A session whose
// user no longer exists is treated as anonymous.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals(viewerLocalsKey).(*models.User); ok {
		return u
	}
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil
	}
	u, err := s.userService.GetUserByID(c.UserContext(), uid)
	if err != nil {
		return nil
	}
	c.Locals(viewerLocalsKey, u)
	return u
}

// viewerID is the signed-in user ID, or 0 for anonymous visitors.
func viewerID(c *fiber.Ctx) uint {
	uid, _ := middleware.CurrentUserID(c)
	return uid
}

// formErrors turns a validation error into per-field messages for the form
// template. Errors without a field land under "__all__". ok is false for
// any other kind of error.
func formErrors(err error) (map[string]string, bool) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		return nil, false
	}
	field := appErr.Field
	if field == "" {
		field = "__all__"
	}
	return map[string]string{field: appErr.Message}, true
}

// parseGroupID reads the optional group select value.
func parseGroupID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewFieldError("group", "Select a valid choice. That choice is not one of the available choices.")
	}
	v := uint(id)
	return &v, nil
}

// readImage returns the uploaded image, or nil when the form carried none.
// A multipart body that cannot be parsed is a field error.
func readImage(c *fiber.Ctx) (*service.ImageUpload, error) {
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		return nil, nil
	case err != nil:
		return nil, models.NewFieldError("image", "The submitted data was not a file. Check the encoding type on the form.")
	case fh.Size == 0:
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &service.ImageUpload{
		Content:     content,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

func groupIDString(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
