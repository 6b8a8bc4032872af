package server

import (
	"blogicum/internal/models"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Slug        string `json:"slug" form:"slug"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

func (r categoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Title:       r.Title,
		Description: r.Description,
		Slug:        r.Slug,
		IsPublished: r.IsPublished,
	}
}

type locationRequest struct {
	Name        string `json:"name" form:"name"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

func (r locationRequest) toInput() service.LocationInput {
	return service.LocationInput{Name: r.Name, IsPublished: r.IsPublished}
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

// CreateCategory handles POST /admin/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	category, err := s.taxonomyService.CreateCategory(c.UserContext(), req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	category, err := s.taxonomyService.UpdateCategory(c.UserContext(), id, req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /admin/categories/:id
// Posts in the category survive with no category.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteCategory(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLocation handles POST /admin/locations
func (s *Server) CreateLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	location, err := s.taxonomyService.CreateLocation(c.UserContext(), req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// UpdateLocation handles PUT /admin/locations/:id
func (s *Server) UpdateLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	location, err := s.taxonomyService.UpdateLocation(c.UserContext(), id, req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(location)
}

// DeleteLocation handles DELETE /admin/locations/:id
func (s *Server) DeleteLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteLocation(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
