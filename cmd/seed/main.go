package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

//go:embed reference.json
var defaultReference []byte

// referenceData is the seed file layout. A bare JSON array is read as ingredients.
type referenceData struct {
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func main() {
	file := flag.String("file", "", "JSON file with tags and ingredients (defaults to the bundled set)")
	adminEmail := flag.String("admin-email", "", "Create a staff user with this email")
	adminUsername := flag.String("admin-username", "admin", "Username of the staff user")
	adminPassword := flag.String("admin-password", "", "Password of the staff user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	data, err := loadReference(*file)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to read seed data")
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tags, err := service.NewTagService(db).EnsureTags(ctx, data.Tags)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to seed tags")
	}
	ingredients, err := service.NewIngredientService(db).EnsureIngredients(ctx, data.Ingredients)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to seed ingredients")
	}
	logging.Info().
		Int64("tags_added", tags).
		Int64("ingredients_added", ingredients).
		Msg("reference data loaded")

	if *adminEmail != "" {
		if err := ensureAdmin(ctx, db, *adminEmail, *adminUsername, *adminPassword); err != nil {
			logging.Fatal().Err(err).Msg("failed to create staff user")
		}
	}
}

func loadReference(path string) (*referenceData, error) {
	raw := defaultReference
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	var data referenceData
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &data.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to parse ingredients: %w", err)
		}
		return &data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// ensureAdmin creates a staff user unless the email is already registered
func ensureAdmin(ctx context.Context, db *gorm.DB, email, username, password string) error {
	if password == "" {
		return fmt.Errorf("admin-password is required with admin-email")
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		logging.Info().Str("email", email).Msg("staff user already exists, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     username,
		Email:        email,
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: string(hash),
		IsStaff:      true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	logging.Info().Str("user_id", admin.ID.String()).Str("username", username).Msg("staff user created")
	return nil
}
