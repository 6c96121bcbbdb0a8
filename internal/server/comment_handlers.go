package server

import (
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /posts/:id/comment/. An invalid comment re-renders
// the post with the form errors.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	text := c.FormValue("text")

	_, err = s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID: viewerID(c),
		PostID:   id,
		Text:     text,
	})
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return s.renderPostDetail(c, id, fiber.StatusOK, map[string]string{"text": text}, errs)
		}
		return err
	}
	return c.Redirect(postURL(id), fiber.StatusFound)
}
