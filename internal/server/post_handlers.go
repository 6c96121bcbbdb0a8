package server

import (
	"bytes"
	"html/template"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /. The rendered post list is cached per page value and
// shared by every visitor until it expires.
func (s *Server) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()
	number := pagination.CanonicalNumber(c.Query("page"))

	fragment, ok := s.indexCache.Get(ctx, number)
	if !ok {
		page, err := s.postService.ListPosts(ctx, number)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := s.views.Partial(&buf, "post_list", page); err != nil {
			return err
		}
		fragment = buf.Bytes()
		s.indexCache.Set(ctx, number, fragment)
	}

	return s.render(c, fiber.StatusOK, "index", fiber.Map{
		"PostList": template.HTML(fragment),
	})
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.postService.ListGroupPosts(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "group", fiber.Map{
		"Group": group,
		"Page":  page,
	})
}

// PostDetail handles GET /posts/:id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return s.renderPostDetail(c, id, fiber.StatusOK, map[string]string{}, map[string]string{})
}

func (s *Server) renderPostDetail(c *fiber.Ctx, id uint, status int, form, errs map[string]string) error {
	ctx := c.UserContext()
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}
	comments, err := s.commentService.ListComments(ctx, id, c.Query("page"))
	if err != nil {
		return err
	}
	uid := viewerID(c)
	return s.render(c, status, "post_detail", fiber.Map{
		"Post":     post,
		"Comments": comments,
		"IsAuthor": uid != 0 && uid == post.AuthorID,
		"Form":     form,
		"Errors":   errs,
	})
}

// CreatePostForm handles GET /create/
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, fiber.StatusOK, nil, map[string]string{}, map[string]string{})
}

// CreatePost handles POST /create/ and sends the author to their profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	form := map[string]string{
		"text":  c.FormValue("text"),
		"group": c.FormValue("group"),
	}

	groupID, err := parseGroupID(form["group"])
	if err == nil {
		var img *service.ImageUpload
		if img, err = readImage(c); err == nil {
			_, err = s.postService.CreatePost(ctx, service.CreatePostInput{
				AuthorID: viewerID(c),
				Text:     form["text"],
				GroupID:  groupID,
				Image:    img,
			})
		}
	}
	if err != nil {
		if errs, ok := formErrors(err); ok {
			return s.renderPostForm(c, fiber.StatusOK, nil, form, errs)
		}
		return err
	}

	author := s.currentUser(c)
	if author == nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Redirect(profileURL(author.Username), fiber.StatusFound)
}

// EditPostForm handles GET /posts/:id/edit/. Anyone but the author is sent
// back to the post.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post.AuthorID != viewerID(c) {
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	}

	form := map[string]string{
		"text":  post.Text,
		"group": groupIDString(post.GroupID),
	}
	return s.renderPostForm(c, fiber.StatusOK, post, form, map[string]string{})
}

// EditPost handles POST /posts/:id/edit/. Non-authors are redirected before
// the form is read.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	if post.AuthorID != viewerID(c) {
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	}

	form := map[string]string{
		"text":  c.FormValue("text"),
		"group": c.FormValue("group"),
	}

	groupID, err := parseGroupID(form["group"])
	if err == nil {
		var img *service.ImageUpload
		if img, err = readImage(c); err == nil {
			_, err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
				UserID:     viewerID(c),
				PostID:     id,
				Text:       form["text"],
				GroupID:    groupID,
				Image:      img,
				ClearImage: c.FormValue("image-clear") != "",
			})
		}
	}

	switch {
	case err == nil:
		return c.Redirect(postURL(id), fiber.StatusFound)
	case models.HasCode(err, models.CodeUnauthorized):
		return c.Redirect(postURL(id), fiber.StatusFound)
	}
	if errs, ok := formErrors(err); ok {
		return s.renderPostForm(c, fiber.StatusOK, post, form, errs)
	}
	return err
}

// renderPostForm shows the create form, or the edit form when post is set.
func (s *Server) renderPostForm(c *fiber.Ctx, status int, post *models.Post, form, errs map[string]string) error {
	groups, err := s.postService.ListGroups(c.UserContext())
	if err != nil {
		return err
	}
	data := fiber.Map{
		"IsEdit": post != nil,
		"Groups": groups,
		"Form":   form,
		"Errors": errs,
	}
	if post != nil {
		data["Post"] = post
	}
	return s.render(c, status, "create_post", data)
}

func postURL(id uint) string {
	return "/posts/" + uintString(id) + "/"
}
