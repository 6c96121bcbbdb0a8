package server

import (
	"errors"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/service"
	"yatube/internal/web"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /auth/signup/
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.renderSignup(c, map[string]string{}, map[string]string{})
}

// Signup handles POST /auth/signup/. A new account is sent to the index page
// to log in.
func (s *Server) Signup(c *fiber.Ctx) error {
	form := map[string]string{
		"first_name": c.FormValue("first_name"),
		"last_name":  c.FormValue("last_name"),
		"username":   c.FormValue("username"),
		"email":      c.FormValue("email"),
	}

	_, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		FirstName:       form["first_name"],
		LastName:        form["last_name"],
		Username:        form["username"],
		Email:           form["email"],
		Password:        c.FormValue("password1"),
		PasswordConfirm: c.FormValue("password2"),
	})
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return s.renderSignup(c, form, errs)
		}
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) renderSignup(c *fiber.Ctx, form, errs map[string]string) error {
	return s.render(c, fiber.StatusOK, "signup", fiber.Map{
		"Fields": web.SignupFields,
		"Form":   form,
		"Errors": errs,
	})
}

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.renderLogin(c, c.Query("next"), map[string]string{}, map[string]string{})
}

// Login handles POST /auth/login/. On success the session cookie is set and
// the browser goes to next when it is a local path.
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.FormValue("username")
	next := c.FormValue("next", c.Query("next"))

	user, err := s.userService.Authenticate(ctx, username, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.Logger.InfoContext(ctx, "login failed", slog.String("username", username))
			return s.renderLogin(c, next,
				map[string]string{"username": username},
				map[string]string{"__all__": service.ErrInvalidCredentials.Message},
			)
		}
		return err
	}

	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return err
	}
	s.sessions.SetCookie(c, token, expiresAt)
	return c.Redirect(middleware.SafeNext(next, "/"), fiber.StatusFound)
}

func (s *Server) renderLogin(c *fiber.Ctx, next string, form, errs map[string]string) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Next":   next,
		"Form":   form,
		"Errors": errs,
	})
}

// Logout handles GET /auth/logout/. The session token is revoked for the
// rest of its lifetime, not just dropped from the browser.
func (s *Server) Logout(c *fiber.Ctx) error {
	if claims, ok := c.Locals("session").(*middleware.SessionClaims); ok {
		if err := s.sessions.Revoke(c.UserContext(), claims); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session", slog.String("error", err.Error()))
		}
	}
	s.sessions.ClearCookie(c)
	c.Locals("userID", nil)
	c.Locals(viewerLocalsKey, nil)
	return s.render(c, fiber.StatusOK, "logged_out", nil)
}
