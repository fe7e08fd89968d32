package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github-users-service/internal/domain/user"
)

// UserSchema represents the database row for a cached GitHub user.
type UserSchema struct {
	ID                int64  `gorm:"primaryKey"` // remote-assigned, never auto-incremented
	Login             string `gorm:"not null"`
	AvatarURL         *string
	GravatarID        *string
	URL               *string
	HTMLURL           *string
	FollowersURL      *string
	FollowingURL      *string
	GistsURL          *string
	StarredURL        *string
	SubscriptionsURL  *string
	OrganizationsURL  *string
	ReposURL          *string
	EventsURL         *string
	ReceivedEventsURL *string
	Type              *string
	SiteAdmin         *bool
	Name              *string
	Company           *string
	Blog              *string
	Location          *string
	Email             *string
	Hireable          *bool
	Bio               *string
	TwitterUsername   *string
	PublicRepos       *int64
	PublicGists       *int64
	Followers         *int64
	Following         *int64
	CreatedAt         *string
	UpdatedAt         *string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "github_users"
}

// SchemaMeta records the schema version the store was created with.
type SchemaMeta struct {
	ID      int64 `gorm:"primaryKey"`
	Version int   `gorm:"not null"`
}

// TableName specifies the table name for the SchemaMeta model.
func (SchemaMeta) TableName() string {
	return "schema_meta"
}

// Migrate prepares the store tables. Schema evolution is destructive: if the
// recorded version differs from want, the user table is dropped and rebuilt
// rather than migrated row by row.
func Migrate(db *gorm.DB, want int, log *zap.Logger) error {
	if err := db.AutoMigrate(&SchemaMeta{}); err != nil {
		return fmt.Errorf("failed to migrate schema meta: %w", err)
	}

	var meta SchemaMeta
	err := db.First(&meta, 1).Error
	switch {
	case err == nil && meta.Version == want:
		// Version matches, keep existing rows
	case err == nil:
		log.Warn("schema version mismatch, wiping store",
			zap.Int("have", meta.Version),
			zap.Int("want", want),
		)
		if err := db.Migrator().DropTable(&UserSchema{}); err != nil {
			return fmt.Errorf("failed to drop user table: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		// Fresh database
	default:
		return fmt.Errorf("failed to read schema meta: %w", err)
	}

	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate user table: %w", err)
	}

	meta = SchemaMeta{ID: 1, Version: want}
	if err := db.Save(&meta).Error; err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

func toSchema(u user.User) UserSchema {
	return UserSchema(u)
}

func toDomain(m UserSchema) user.User {
	return user.User(m)
}
