// Package seed provides helpers to create demo data for the blog database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"time"

	"blogicum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "Blogicum!2026"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	faker  *gofakeit.Faker
	opts   Options
	hashed string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB. A zero
// opts.RandSeed seeds the faker from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, faker: gofakeit.New(seed), opts: opts, nextID: 1000}
}

func (f *Factory) password() string {
	if f.opts.SkipBcrypt {
		return DefaultPassword
	}
	if f.hashed == "" {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		f.hashed = string(hashedPassword)
	}
	return f.hashed
}

func (f *Factory) persist(kind string, value any, id *uint) error {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
		log.Printf("[dry-run] create %s: %+v", kind, value)
		return nil
	}
	return f.db.Create(value).Error
}

// CreateUser constructs and persists a sample user. n keeps usernames and
// emails unique within one run.
func (f *Factory) CreateUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", f.faker.Username(), n),
		Email:     fmt.Sprintf("%d.%s", n, f.faker.Email()),
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Password:  f.password(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.persist("user", user, &user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureCategory returns the category with the given slug, creating it when
// missing so that reseeding without a clean is safe.
func (f *Factory) EnsureCategory(title, slug string, published bool) (*models.Category, error) {
	category := &models.Category{
		Title:       title,
		Description: f.faker.Sentence(12),
		Slug:        slug,
		IsPublished: published,
	}
	if f.opts.DryRun {
		return category, f.persist("category", category, &category.ID)
	}
	if err := f.db.Where("slug = ?", slug).FirstOrCreate(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateLocation constructs and persists a published location named after a city.
func (f *Factory) CreateLocation() (*models.Location, error) {
	location := &models.Location{Name: f.faker.City(), IsPublished: true}
	if err := f.persist("location", location, &location.ID); err != nil {
		return nil, err
	}
	return location, nil
}

// CreatePost constructs and persists a sample post for author. The default
// is a published post dated somewhere in the last opts.MaxDays days.
func (f *Factory) CreatePost(author *models.User, category *models.Category, overrides ...func(*models.Post)) (*models.Post, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.IntRange(0, maxDays*24*60)) * time.Minute

	post := &models.Post{
		Title:       f.faker.Sentence(5),
		Text:        f.faker.Paragraph(1, 3, 12, "\n"),
		PubDate:     f.opts.now().Add(-back - time.Minute),
		AuthorID:    author.ID,
		IsPublished: true,
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	for _, override := range overrides {
		override(post)
	}
	if err := f.persist("post", post, &post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample comment on post by author.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	// Comments land between the post's date and now.
	pubDate := post.PubDate
	if now := f.opts.now(); now.After(pubDate) {
		minutes := int(now.Sub(pubDate) / time.Minute)
		pubDate = pubDate.Add(time.Duration(f.faker.IntRange(0, minutes)) * time.Minute)
	}

	comment := &models.Comment{
		Text:     f.faker.Sentence(10),
		AuthorID: author.ID,
		PostID:   post.ID,
		PubDate:  pubDate,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.persist("comment", comment, &comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}
