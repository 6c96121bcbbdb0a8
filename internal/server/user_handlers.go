package server

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile/:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	uid := viewerID(c)
	profile, err := s.userService.GetProfile(c.UserContext(), c.Params("username"), c.Query("page"))
	if err != nil {
		return err
	}
	following, err := s.followService.IsFollowing(c.UserContext(), uid, profile.Author.ID)
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "profile", fiber.Map{
		"Author":         profile.Author,
		"Page":           profile.Posts,
		"Following":      following,
		"FollowerCount":  profile.FollowerCount,
		"FollowingCount": profile.FollowingCount,
		"IsSelf":         uid != 0 && uid == profile.Author.ID,
	})
}

// FollowIndex handles GET /follow/, the feed of followed authors.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	page, err := s.followService.Feed(c.UserContext(), viewerID(c), c.Query("page"))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "follow", fiber.Map{
		"Page": page,
	})
}

// ProfileFollow handles GET /profile/:username/follow/
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Follow(c.UserContext(), viewerID(c), username); err != nil {
		return err
	}
	return c.Redirect(profileURL(username), fiber.StatusFound)
}

// ProfileUnfollow handles GET /profile/:username/unfollow/
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.followService.Unfollow(c.UserContext(), viewerID(c), username); err != nil {
		return err
	}
	return c.Redirect(profileURL(username), fiber.StatusFound)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
