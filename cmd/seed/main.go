// Command main runs the database seeder for Blogicum.
package main

import (
	"fmt"
	"log"
	"os"

	"blogicum/internal/config"
	"blogicum/internal/database"
	"blogicum/internal/seed"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := seed.DefaultOptions()
	var clean bool

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Fill the blog database with generated users, posts and comments",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, clean)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.NumUsers, "users", opts.NumUsers, "Number of users to create")
	flags.IntVar(&opts.NumPosts, "posts", opts.NumPosts, "Number of posts to create")
	flags.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "Comments on each visible post")
	flags.IntVar(&opts.MaxDays, "max-days", opts.MaxDays, "Spread post dates over this many past days")
	flags.Int64Var(&opts.RandSeed, "rand-seed", 0, "Seed for reproducible content (0 uses the clock)")
	flags.BoolVar(&opts.SkipBcrypt, "skip-bcrypt", false, "Store the demo password unhashed (faster, login will not work)")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Log what would be created without writing")
	flags.BoolVar(&clean, "clean", false, "Delete all blog data before seeding")

	return cmd
}

func run(opts seed.Options, clean bool) error {
	_ = godotenv.Load()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, clean=%v", opts.NumUsers, opts.NumPosts, clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	s := seed.NewSeeder(db, opts)
	if clean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	summary, err := s.Run()
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Printf("Created %d users, %d categories, %d locations, %d posts (%d visible), %d comments",
		summary.Users, summary.Categories, summary.Locations, summary.Posts, summary.Visible, summary.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
	return nil
}
