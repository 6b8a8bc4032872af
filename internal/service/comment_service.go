package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/policy"
	"blogicum/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	posts       *PostService
}

func NewCommentService(commentRepo repository.CommentRepository, posts *PostService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		posts:       posts,
	}
}

// CreateComment adds requesterID's comment to a post the requester can see.
// The publication time is stamped here and never read from input.
func (s *CommentService) CreateComment(ctx context.Context, postID, requesterID uint, text string) (created *models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService.CreateComment", attribute.Int("post.id", int(postID)))
	defer func() { observability.EndSpan(span, err) }()

	if requesterID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if _, err := s.posts.GetVisiblePost(ctx, postID, requesterID, "comment"); err != nil {
		return nil, err
	}
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: requesterID,
		PostID:   postID,
		PubDate:  s.posts.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// CommentForMutation loads a comment through the post it belongs to and
// decides whether requesterID may change it. A comment filed under another
// post is reported as missing.
func (s *CommentService) CommentForMutation(ctx context.Context, postID, commentID, requesterID uint, action string) (*models.Comment, policy.Decision, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, policy.Decision{}, err
	}
	if comment.PostID != postID {
		return nil, policy.Decision{}, models.NewNotFoundError("Comment", commentID)
	}
	decision := policy.AuthorizeMutation(comment.AuthorID, requesterID, policy.PostDetailPath(postID))
	if !decision.Allowed {
		observability.MutationRedirects.WithLabelValues("comment", action).Inc()
	}
	return comment, decision, nil
}

// UpdateComment replaces the text of requesterID's comment. Nothing else
// about a comment is editable.
func (s *CommentService) UpdateComment(ctx context.Context, postID, commentID, requesterID uint, text string) (*models.Comment, policy.Decision, error) {
	comment, decision, err := s.CommentForMutation(ctx, postID, commentID, requesterID, "edit")
	if err != nil || !decision.Allowed {
		return nil, decision, err
	}
	if err := validateCommentText(text); err != nil {
		return nil, decision, err
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, decision, err
	}
	return comment, decision, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, requesterID uint) (*models.Comment, policy.Decision, error) {
	comment, decision, err := s.CommentForMutation(ctx, postID, commentID, requesterID, "delete")
	if err != nil || !decision.Allowed {
		return nil, decision, err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, decision, err
	}
	return comment, decision, nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewFieldError("text", "Comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return models.NewFieldError("text", "Comment too long (max 10000 characters)")
	}
	return nil
}
