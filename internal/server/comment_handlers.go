package server

import (
	"blogicum/internal/models"
	"blogicum/internal/policy"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text" form:"text"`
}

// commentIDs parses both route parameters of the comment routes.
func (s *Server) commentIDs(c *fiber.Ctx) (uint, uint, error) {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := s.parseID(c, "comment_id")
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}

// AddComment handles POST /posts/:post_id/comment/
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), postID, requesterID(c), req.Text)
	if err != nil {
		return s.respondError(c, err)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.PostDetailPath(postID), fiber.Map{"comment": comment})
}

// EditCommentForm handles GET /posts/:post_id/edit_comment/:comment_id/
func (s *Server) EditCommentForm(c *fiber.Ctx) error {
	postID, commentID, err := s.commentIDs(c)
	if err != nil {
		return nil
	}

	comment, decision, err := s.commentService.CommentForMutation(c.UserContext(), postID, commentID, requesterID(c), "edit")
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return c.JSON(fiber.Map{
		"comment": comment,
		"form":    fiber.Map{"text": comment.Text},
	})
}

// EditComment handles POST /posts/:post_id/edit_comment/:comment_id/
func (s *Server) EditComment(c *fiber.Ctx) error {
	postID, commentID, err := s.commentIDs(c)
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, decision, err := s.commentService.UpdateComment(c.UserContext(), postID, commentID, requesterID(c), req.Text)
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.PostDetailPath(postID), fiber.Map{"comment": comment})
}

// DeleteCommentForm handles GET /posts/:post_id/delete_comment/:comment_id/
func (s *Server) DeleteCommentForm(c *fiber.Ctx) error {
	postID, commentID, err := s.commentIDs(c)
	if err != nil {
		return nil
	}

	comment, decision, err := s.commentService.CommentForMutation(c.UserContext(), postID, commentID, requesterID(c), "delete")
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return c.JSON(fiber.Map{"comment": comment})
}

// DeleteComment handles POST /posts/:post_id/delete_comment/:comment_id/
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, commentID, err := s.commentIDs(c)
	if err != nil {
		return nil
	}

	_, decision, err := s.commentService.DeleteComment(c.UserContext(), postID, commentID, requesterID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	if !decision.Allowed {
		return s.deny(c, decision)
	}

	return s.redirect(c, fiber.StatusSeeOther, policy.PostDetailPath(postID), nil)
}
