package service

import (
	"context"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/policy"
	"blogicum/internal/repository"
	"blogicum/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	pageSize     int
	now          Clock
}

// PostInput carries the editable post fields. The author is never part of it.
type PostInput struct {
	Title      string
	Text       string
	PubDate    *time.Time
	LocationID *uint
	CategoryID *uint
	Image      string
	// IsPublished defaults to true on create and keeps its value on edit.
	IsPublished *bool
}

// PostDetail is a readable post with its comments, oldest first.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	pageSize int,
	now Clock,
) *PostService {
	if pageSize <= 0 {
		pageSize = models.PostsLimit
	}
	clock := now
	if clock == nil {
		clock = systemClock
	}
	// Stored and compared timestamps are UTC whatever zone the clock uses.
	now = func() time.Time { return clock().UTC() }
	return &PostService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		pageSize:     pageSize,
		now:          now,
	}
}

// Feed lists every post visible to the public, newest first.
func (s *PostService) Feed(ctx context.Context, page int) (result *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.Feed", attribute.Int("page", page))
	defer func() { observability.EndSpan(span, err) }()

	now := s.now()
	return s.list(ctx, repository.PostFilter{VisibleAt: &now}, page)
}

// CategoryFeed lists the visible posts of a published category. A hidden
// category is reported as missing.
func (s *PostService) CategoryFeed(ctx context.Context, slug string, page int) (category *models.Category, result *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CategoryFeed",
		attribute.String("category.slug", slug), attribute.Int("page", page))
	defer func() { observability.EndSpan(span, err) }()

	category, err = s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !category.IsPublished {
		return nil, nil, models.NewNotFoundError("Category", slug)
	}

	now := s.now()
	result, err = s.list(ctx, repository.PostFilter{CategoryID: &category.ID, VisibleAt: &now}, page)
	if err != nil {
		return nil, nil, err
	}
	return category, result, nil
}

// ProfileFeed lists a user's posts. The owner sees all of them, including
// drafts and scheduled posts; everyone else sees the public subset.
func (s *PostService) ProfileFeed(ctx context.Context, username string, viewerID uint, page int) (profile *models.User, result *FeedPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ProfileFeed",
		attribute.String("profile.username", username), attribute.Int("page", page))
	defer func() { observability.EndSpan(span, err) }()

	profile, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	filter := repository.PostFilter{AuthorID: &profile.ID}
	if viewerID == 0 || viewerID != profile.ID {
		now := s.now()
		filter.VisibleAt = &now
	}
	result, err = s.list(ctx, filter, page)
	if err != nil {
		return nil, nil, err
	}
	return profile, result, nil
}

func (s *PostService) list(ctx context.Context, filter repository.PostFilter, page int) (*FeedPage, error) {
	offset, ok := pageOffset(page, s.pageSize)
	if !ok {
		return nil, models.NewNotFoundError("Page", page)
	}
	posts, total, err := s.postRepo.List(ctx, filter, s.pageSize, offset)
	if err != nil {
		return nil, err
	}
	if err := checkPage(page, total, s.pageSize); err != nil {
		return nil, err
	}
	return newFeedPage(posts, total, page, s.pageSize), nil
}

// GetVisiblePost loads a post the viewer is allowed to read. Hidden posts
// are reported exactly like missing ones.
func (s *PostService) GetVisiblePost(ctx context.Context, postID, viewerID uint, route string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !policy.IsVisible(post, viewerID, s.now()) {
		observability.PostVisibilityDenied.WithLabelValues(route).Inc()
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// GetPostDetail returns a readable post together with its comments.
func (s *PostService) GetPostDetail(ctx context.Context, postID, viewerID uint) (detail *PostDetail, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.GetPostDetail", attribute.Int("post.id", int(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.GetVisiblePost(ctx, postID, viewerID, "detail")
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// PostForMutation loads a post and decides whether requesterID may change
// it. A missing post is an error; a foreign post is a denied Decision that
// points back at the post.
func (s *PostService) PostForMutation(ctx context.Context, postID, requesterID uint, action string) (*models.Post, policy.Decision, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, policy.Decision{}, err
	}
	decision := policy.AuthorizeMutation(post.AuthorID, requesterID, policy.PostDetailPath(post.ID))
	if !decision.Allowed {
		observability.MutationRedirects.WithLabelValues("post", action).Inc()
	}
	return post, decision, nil
}

// CreatePost stores a new post written by requesterID. The returned post has
// its author loaded so callers can build the profile redirect.
func (s *PostService) CreatePost(ctx context.Context, requesterID uint, in PostInput) (created *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost", attribute.Int("user.id", int(requesterID)))
	defer func() { observability.EndSpan(span, err) }()

	if requesterID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := s.validatePostInput(ctx, in); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:    requesterID,
		PubDate:     s.now(),
		IsPublished: true,
	}
	applyPostInput(post, in)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies in to the post when requesterID wrote it. A denied
// Decision leaves the post untouched.
func (s *PostService) UpdatePost(ctx context.Context, postID, requesterID uint, in PostInput) (updated *models.Post, decision policy.Decision, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.UpdatePost", attribute.Int("post.id", int(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, decision, err := s.PostForMutation(ctx, postID, requesterID, "edit")
	if err != nil || !decision.Allowed {
		return nil, decision, err
	}
	if err := s.validatePostInput(ctx, in); err != nil {
		return nil, decision, err
	}

	applyPostInput(post, in)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, decision, err
	}
	updated, err = s.postRepo.GetByID(ctx, post.ID)
	return updated, decision, err
}

// DeletePost removes the post and its comments when requesterID wrote it.
// The deleted post is returned with its author for the profile redirect.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) (deleted *models.Post, decision policy.Decision, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DeletePost", attribute.Int("post.id", int(postID)))
	defer func() { observability.EndSpan(span, err) }()

	post, decision, err := s.PostForMutation(ctx, postID, requesterID, "delete")
	if err != nil || !decision.Allowed {
		return nil, decision, err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return nil, decision, err
	}
	return post, decision, nil
}

func (s *PostService) validatePostInput(ctx context.Context, in PostInput) error {
	fields := map[string]string{}
	if err := validation.ValidateTitle("title", in.Title); err != nil {
		fields["title"] = err.Error()
	}
	if strings.TrimSpace(in.Text) == "" {
		fields["text"] = "text is required"
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			if !models.IsCode(err, models.CodeNotFound) {
				return err
			}
			fields["category_id"] = "category does not exist"
		}
	}
	if in.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *in.LocationID); err != nil {
			if !models.IsCode(err, models.CodeNotFound) {
				return err
			}
			fields["location_id"] = "location does not exist"
		}
	}
	return models.NewFieldsError(fields)
}

// applyPostInput copies form fields onto post. Optional references are
// replaced outright so that a form can clear them.
func applyPostInput(post *models.Post, in PostInput) {
	post.Title = in.Title
	post.Text = in.Text
	post.Image = in.Image
	post.CategoryID = in.CategoryID
	post.LocationID = in.LocationID
	if in.PubDate != nil {
		post.PubDate = in.PubDate.UTC()
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	// stale relations would otherwise be echoed back
	post.Category = nil
	post.Location = nil
}
