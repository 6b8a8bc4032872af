package server

import (
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/policy"
	"blogicum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// pubDateLayouts are accepted for pub_date, the last one being what an HTML
// datetime-local input submits.
var pubDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

type postRequest struct {
	Title       string  `json:"title" form:"title"`
	Text        string  `json:"text" form:"text"`
	PubDate     *string `json:"pub_date" form:"pub_date"`
	LocationID  *uint   `json:"location_id" form:"location_id"`
	CategoryID  *uint   `json:"category_id" form:"category_id"`
	Image       string  `json:"image" form:"image"`
	IsPublished *bool   `json:"is_published" form:"is_published"`
}

// toInput converts the request body into service input. A malformed date is
// reported as a pub_date field error.
func (r postRequest) toInput() (service.PostInput, error) {
	in := service.PostInput{
		Title:       r.Title,
		Text:        r.Text,
		LocationID:  r.LocationID,
		CategoryID:  r.CategoryID,
		Image:       r.Image,
		IsPublished: r.IsPublished,
	}
	if r.PubDate != nil && strings.TrimSpace(*r.PubDate) != "" {
		pubDate, err := parsePubDate(strings.TrimSpace(*r.PubDate))
		if err != nil {
			return in, models.NewFieldError("pub_date", "Enter a valid date and time")
		}
		in.PubDate = &pubDate
	}
	return in, nil
}

func parsePubDate(value string) (time.Time, error) {
	var err error
	for _, layout := range pubDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// emptyPostForm is the blank form offered by the create view.
func emptyPostForm() fiber.Map {
	return fiber.Map{
		"title":        "",
		"text":         "",
		"pub_date":     nil,
		"location_id":  nil,
		"category_id":  nil,
		"image":        "",
		"is_published": true,
	}
}

func postForm(post *models.Post) fiber.Map {
	return fiber.Map{
		"title":        post.Title,
		"text":         post.Text,
		"pub_date":     post.PubDate,
		"location_id":  post.LocationID,
		"category_id":  post.CategoryID,
		"image":        post.Image,
		"is_published": post.IsPublished,
	}
}

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return s.respondError(c, err)
	}

	feed, err := s.postService.Feed(c.UserContext(), page)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"page_obj": feed})
}

// CategoryPosts handles GET /category/:slug/
func (s *Server) CategoryPosts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return s.respondError(c, err)
	}

	category, feed, err := s.postService.CategoryFeed(c.UserContext(), c.Params("slug"), page)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"category": category,
		"page_obj": feed,
	})
}

// PostDetail handles GET /posts/:post_id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	detail, err := s.postService.GetPostDetail(c.UserContext(), postID, viewerID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     detail.Post,
		"comments": detail.Comments,
		"form":     fiber.Map{"text": ""},
	})
}

// CreatePostForm handles GET /posts/create/
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": emptyPostForm()})
}

// CreatePost handles POST /posts/create/
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in, err := req.toInput()
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), requesterID(c), in)
	if err != nil {
		return s.respondError(c, err)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.ProfilePath(post.Author.Username), fiber.Map{"post": post})
}

// EditPostForm handles GET /posts/:post_id/edit/
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	post, decision, err := s.postService.PostForMutation(c.UserContext(), postID, requesterID(c), "edit")
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return c.JSON(fiber.Map{
		"post": post,
		"form": postForm(post),
	})
}

// EditPost handles POST /posts/:post_id/edit/
func (s *Server) EditPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in, inErr := req.toInput()

	// A stranger is redirected even when the submitted form is broken.
	if inErr != nil {
		_, decision, err := s.postService.PostForMutation(c.UserContext(), postID, requesterID(c), "edit")
		if err != nil {
			return s.respondError(c, err)
		}
		if !decision.Allowed {
			return s.deny(c, decision)
		}
		return s.respondError(c, inErr)
	}

	post, decision, err := s.postService.UpdatePost(c.UserContext(), postID, requesterID(c), in)
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.PostDetailPath(post.ID), fiber.Map{"post": post})
}

// DeletePostForm handles GET /posts/:post_id/delete/
func (s *Server) DeletePostForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	post, decision, err := s.postService.PostForMutation(c.UserContext(), postID, requesterID(c), "delete")
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return c.JSON(fiber.Map{
		"post": post,
		"form": postForm(post),
	})
}

// DeletePost handles POST /posts/:post_id/delete/
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	post, decision, err := s.postService.DeletePost(c.UserContext(), postID, requesterID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.ProfilePath(post.Author.Username), nil)
}
