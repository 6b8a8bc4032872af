package server

import (
	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile/:username/
// The owner sees every post they wrote; other viewers see the public feed
// of that author.
func (s *Server) Profile(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return s.respondError(c, err)
	}
	viewerID, _ := s.optionalUserID(c)

	profile, feed, err := s.postService.ProfileFeed(c.UserContext(), c.Params("username"), viewerID, page)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":  profile,
		"page_obj": feed,
	})
}

func profileForm(user *models.User) fiber.Map {
	return fiber.Map{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}
}

// EditProfileForm handles GET /profile/edit_profile
func (s *Server) EditProfileForm(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), requesterID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"form": profileForm(user)})
}

// EditProfile handles POST /profile/edit_profile
func (s *Server) EditProfile(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username" form:"username"`
		Email     string `json:"email" form:"email"`
		FirstName string `json:"first_name" form:"first_name"`
		LastName  string `json:"last_name" form:"last_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), requesterID(c), service.ProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.ProfilePath(user.Username), fiber.Map{"user": user})
}
