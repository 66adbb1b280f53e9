// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"ayubo/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control how much data the seeder generates.
type Options struct {
	NumUsers          int
	NumPosts          int
	MaxRepliesPerPost int
	MaxVotesPerEntity int
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database. Used by the seeder's own tests.
	DryRun bool
	// SkipBcrypt stores a plaintext marker password instead of hashing.
	// Much faster for large seeds; never use outside development.
	SkipBcrypt bool
}

var tagPool = []string{
	"sinhala", "tamil", "english", "grammar", "vocabulary", "beginner",
	"intermediate", "advanced", "pronunciation", "culture", "travel",
	"food", "script", "idioms", "practice",
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db     *gorm.DB
	opts   Options
	rng    *rand.Rand
	nextID uint // synthetic ID counter for DryRun mode
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxRepliesPerPost <= 0 {
		opts.MaxRepliesPerPost = 12
	}
	if opts.MaxVotesPerEntity <= 0 {
		opts.MaxVotesPerEntity = 8
	}
	return &Seeder{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		log.Println("[dry-run] ClearAll: skipped")
		return nil
	}
	log.Println("Clearing existing data...")
	return s.db.Exec(`TRUNCATE TABLE votes, replies, posts, users RESTART IDENTITY CASCADE;`).Error
}

// Run seeds users, posts, threaded replies and votes in one pass.
func (s *Seeder) Run() error {
	log.Printf("Seeding %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	users, err := s.CreateUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.CreatePosts(users, s.opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	var replyTotal int
	for _, post := range posts {
		replies, err := s.CreateThread(post, users)
		if err != nil {
			return fmt.Errorf("seed replies for post %d: %w", post.ID, err)
		}
		replyTotal += len(replies)

		if err := s.CreateVotes(users, models.VoteEntityPost, post.ID); err != nil {
			return fmt.Errorf("seed post votes: %w", err)
		}
		for _, reply := range replies {
			if err := s.CreateVotes(users, models.VoteEntityReply, reply.ID); err != nil {
				return fmt.Errorf("seed reply votes: %w", err)
			}
		}
	}
	log.Printf("created %d replies", replyTotal)

	log.Println("Seeding complete. All test users have the password: password123")
	return nil
}

// BuildUser constructs a sample user without persisting it.
func (s *Seeder) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	if s.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUsers persists count generated users.
func (s *Seeder) CreateUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := s.BuildUser()
		if err := s.create(user, &user.ID); err != nil {
			log.Printf("failed to create user %s: %v", user.Username, err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// BuildPost constructs a sample post by a random author without
// persisting it.
func (s *Seeder) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:   gofakeit.Sentence(6),
		Content: gofakeit.Paragraph(1, 4, 8, "\n"),
		UserID:  author.ID,
		Tags:    s.pickTags(),
	}

	// Spread creation times over the last 90 days.
	daysBack := s.rng.Intn(90)
	hoursBack := s.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePosts persists count posts attributed to random users.
func (s *Seeder) CreatePosts(users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		post := s.BuildPost(users[s.rng.Intn(len(users))])
		if err := s.create(post, &post.ID); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CreateThread builds a reply tree under the post: a random number of
// replies, each either top-level or nested under an earlier reply.
func (s *Seeder) CreateThread(post *models.Post, users []*models.User) ([]*models.Reply, error) {
	count := s.rng.Intn(s.opts.MaxRepliesPerPost + 1)
	replies := make([]*models.Reply, 0, count)

	for i := 0; i < count; i++ {
		reply := &models.Reply{
			Content: gofakeit.Sentence(12),
			UserID:  users[s.rng.Intn(len(users))].ID,
			PostID:  post.ID,
		}
		// Two thirds of replies nest under an existing one.
		if len(replies) > 0 && s.rng.Intn(3) > 0 {
			parent := replies[s.rng.Intn(len(replies))]
			reply.ParentID = &parent.ID
		}
		if err := s.create(reply, &reply.ID); err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

// CreateVotes casts votes on one entity from distinct random users.
func (s *Seeder) CreateVotes(users []*models.User, entityType models.VoteEntity, entityID uint) error {
	count := s.rng.Intn(s.opts.MaxVotesPerEntity + 1)
	if count > len(users) {
		count = len(users)
	}

	// Distinct voters keep the (user, entity) unique index happy.
	for _, idx := range s.rng.Perm(len(users))[:count] {
		direction := models.VoteLike
		if s.rng.Intn(4) == 0 {
			direction = models.VoteDislike
		}
		vote := &models.Vote{
			UserID:     users[idx].ID,
			EntityType: entityType,
			EntityID:   entityID,
			Direction:  direction,
		}
		if err := s.create(vote, &vote.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) pickTags() []string {
	count := s.rng.Intn(4)
	tags := make([]string, 0, count)
	for _, idx := range s.rng.Perm(len(tagPool))[:count] {
		tags = append(tags, tagPool[idx])
	}
	return tags
}

// create persists the value, or assigns a synthetic ID in DryRun mode.
func (s *Seeder) create(value interface{}, id *uint) error {
	if s.opts.DryRun {
		s.nextID++
		*id = s.nextID
		return nil
	}
	return s.db.Create(value).Error
}
