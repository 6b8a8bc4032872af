package seed

import (
	"fmt"
	"log"
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	// MaxDays bounds how far back post dates are spread.
	MaxDays    int
	SkipBcrypt bool
	DryRun     bool
	// RandSeed makes the generated content reproducible when non-zero.
	RandSeed int64
	// Now is the reference time for dates; the wall clock when zero.
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// DefaultOptions matches the flag defaults of the seed command.
func DefaultOptions() Options {
	return Options{NumUsers: 10, NumPosts: 50, CommentsPerPost: 3, MaxDays: 90}
}

// builtInCategories are created on every run. The last one is unpublished
// so that the hidden-category path has data behind it.
var builtInCategories = []struct {
	title, slug string
	published   bool
}{
	{"Travel", "travel", true},
	{"Food", "food", true},
	{"Technology", "technology", true},
	{"Drafts", "drafts", false},
}

// Summary reports what a run created.
type Summary struct {
	Users      int
	Categories int
	Locations  int
	Posts      int
	Visible    int
	Comments   int
}

// Seeder fills the database with a realistic mix of visible and hidden posts.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ClearAll deletes every blog row, children first.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		log.Println("[dry-run] ClearAll skipped")
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.Location{}, &models.Category{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// postKind is the visibility state a seeded post is created in.
type postKind int

const (
	kindPublic postKind = iota
	kindDraft
	kindScheduled
	kindHiddenCategory
)

// computeCounts splits n posts so that a tenth each are drafts, scheduled
// and in the hidden category. The rest are public.
func computeCounts(n int) (public, draft, scheduled, hidden int) {
	draft = n / 10
	scheduled = n / 10
	hidden = n / 10
	public = n - draft - scheduled - hidden
	return public, draft, scheduled, hidden
}

func postKinds(n int) []postKind {
	public, draft, scheduled, hidden := computeCounts(n)
	kinds := make([]postKind, 0, n)
	for kind, count := range []int{public, draft, scheduled, hidden} {
		for i := 0; i < count; i++ {
			kinds = append(kinds, postKind(kind))
		}
	}
	return kinds
}

// Run seeds users, taxonomy, posts and comments.
func (s *Seeder) Run() (*Summary, error) {
	if s.opts.NumUsers <= 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	summary := &Summary{}

	var published []*models.Category
	var hidden *models.Category
	for _, c := range builtInCategories {
		category, err := s.factory.EnsureCategory(c.title, c.slug, c.published)
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.slug, err)
		}
		summary.Categories++
		if c.published {
			published = append(published, category)
		} else {
			hidden = category
		}
	}

	locations := make([]*models.Location, 0, 3)
	for i := 0; i < 3; i++ {
		location, err := s.factory.CreateLocation()
		if err != nil {
			return nil, fmt.Errorf("seed location: %w", err)
		}
		locations = append(locations, location)
		summary.Locations++
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(i + 1)
		if err != nil {
			return nil, fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
		summary.Users++
	}

	now := s.opts.now()
	for i, kind := range postKinds(s.opts.NumPosts) {
		author := users[i%len(users)]
		category := published[i%len(published)]
		location := locations[i%len(locations)]

		post, err := s.factory.CreatePost(author, category, func(p *models.Post) {
			if i%2 == 0 {
				p.LocationID = &location.ID
			}
			switch kind {
			case kindDraft:
				p.IsPublished = false
			case kindScheduled:
				p.PubDate = now.Add(time.Duration(i+1) * time.Hour)
			case kindHiddenCategory:
				p.CategoryID = &hidden.ID
			}
		})
		if err != nil {
			return nil, fmt.Errorf("seed post: %w", err)
		}
		summary.Posts++
		if kind != kindPublic {
			continue
		}
		summary.Visible++

		for j := 0; j < s.opts.CommentsPerPost; j++ {
			commenter := users[(i+j+1)%len(users)]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, fmt.Errorf("seed comment: %w", err)
			}
			summary.Comments++
		}
	}

	return summary, nil
}
