package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/domain"
)

var (
	statuses   = []domain.TaskStatus{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted}
	priorities = []domain.TaskPriority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}
	tagNames   = map[string]string{
		"work":     "#e74c3c",
		"personal": "#2ecc71",
		"urgent":   "#f39c12",
		"ideas":    domain.DefaultTagColor,
	}
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{
		"activity_logs",
		"password_reset_tokens",
		"revoked_tokens",
		"comments",
		"task_tags",
		"tasks",
		"tags",
		"users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	admin := seedUser(db, "admin", "admin@taskmanager.local", "admin12345", domain.RoleAdmin)
	alice := seedUser(db, "alice", "alice@example.com", "password123", domain.RoleUser)
	bob := seedUser(db, "bob", "bob@example.com", "password123", domain.RoleUser)
	log.Printf("Seeded users: admin=%d alice=%d bob=%d", admin.ID, alice.ID, bob.ID)

	for _, u := range []*domain.User{alice, bob} {
		tags := seedTags(db, u)
		seedTasks(db, u, tags)
	}

	log.Println("Seed completed")
}

func seedUser(db *gorm.DB, username, email, password string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt failed:", err)
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("seed user %s failed: %v", username, err)
	}
	return u
}

func seedTags(db *gorm.DB, u *domain.User) []domain.Tag {
	tags := make([]domain.Tag, 0, len(tagNames))
	for name, color := range tagNames {
		t := domain.Tag{Name: name, Color: color, UserID: u.ID}
		if err := db.Create(&t).Error; err != nil {
			log.Fatalf("seed tag %s failed: %v", name, err)
		}
		tags = append(tags, t)
	}
	return tags
}

func seedTasks(db *gorm.DB, u *domain.User, tags []domain.Tag) {
	for i := 1; i <= 8; i++ {
		due := time.Now().AddDate(0, 0, rand.Intn(30)+1)
		t := domain.Task{
			Title:       fmt.Sprintf("Sample task %d for %s", i, u.Username),
			Description: "Seeded demo task",
			Status:      statuses[rand.Intn(len(statuses))],
			Priority:    priorities[rand.Intn(len(priorities))],
			DueDate:     &due,
			UserID:      u.ID,
			Tags:        []domain.Tag{tags[rand.Intn(len(tags))]},
		}
		if err := db.Create(&t).Error; err != nil {
			log.Fatalf("seed task failed: %v", err)
		}

		c := domain.Comment{
			Content: "Looks good, let's get this done.",
			TaskID:  t.ID,
			UserID:  u.ID,
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("seed comment failed: %v", err)
		}
	}
}
