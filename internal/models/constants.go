// Package models contains data structures for the application's domain models.
package models

// PostsLimit is the default number of posts on one feed page.
const PostsLimit = 10

// MaxLength bounds titles and names.
const MaxLength = 256

// MaxSlugLength bounds category slugs.
const MaxSlugLength = 64
