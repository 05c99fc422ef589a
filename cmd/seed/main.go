package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pageza/homeaway/backend/config"
	"github.com/pageza/homeaway/backend/internal/database"
	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/models"
	"github.com/pageza/homeaway/backend/internal/service"
)

const demoIdentity = "user_demo"

type listing struct {
	name, tagline, category, country string
	price, guests, bedrooms, beds    int
	amenities                        []string
}

var listings = []listing{
	{"Fjord Cabin", "Wake up to still water and pine", "cabin", "NO", 180, 4, 2, 3, []string{"wifi", "fireplace", "heating"}},
	{"Dune Tent", "Glamping under desert stars", "tent", "MA", 95, 2, 1, 1, []string{"camp stove", "outdoor furniture"}},
	{"Route 66 Airstream", "Polished aluminium on the open road", "airstream", "US", 140, 2, 1, 1, []string{"wifi", "air conditioning", "parking"}},
	{"Harbour Container", "Converted steel box by the docks", "container", "NL", 120, 3, 1, 2, []string{"wifi", "kitchen", "washer"}},
	{"Alpine Lodge", "Ski in, ski out, fondue after", "lodge", "CH", 420, 8, 4, 6, []string{"hot tub", "fireplace", "parking", "kitchen"}},
}

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seed(context.Background(), cfg, logger); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	var meta identity.MetadataStore = identity.NewMemoryMetadata()
	if rdb, err := database.NewRedisClient(cfg, logger); err != nil {
		logger.Warn("redis unavailable, the demo profile flag will not persist", slog.Any("error", err))
	} else {
		defer rdb.Close()
		meta = identity.NewRedisMetadata(rdb)
	}
	provider := identity.NewJWTProvider(cfg.JWTSecret, meta)

	profiles := service.NewProfileService(db)
	if _, err := profiles.GetProfile(ctx, demoIdentity); errors.Is(err, service.ErrProfileNotFound) {
		profile := &models.Profile{
			ClerkID:   demoIdentity,
			FirstName: "Demo",
			LastName:  "Host",
			Username:  "demohost",
			Email:     "demo@homeaway.test",
		}
		if err := profiles.CreateProfile(ctx, profile); err != nil {
			return err
		}
		logger.Info("created demo profile", slog.String("identity", demoIdentity))
	} else if err != nil {
		return err
	}
	if err := provider.SetPrivateFlag(ctx, demoIdentity, identity.HasProfileKey, true); err != nil {
		return fmt.Errorf("failed to set profile flag: %w", err)
	}

	properties := service.NewPropertyService(db)
	for _, l := range listings {
		if err := seedListing(ctx, db, properties, l); err != nil {
			return err
		}
	}

	token, err := provider.IssueToken(demoIdentity, "demo@homeaway.test", "")
	if err != nil {
		return err
	}
	fmt.Printf("demo session token (send as the __session cookie):\n%s\n", token)
	return nil
}

func seedListing(ctx context.Context, db *gorm.DB, properties *service.PropertyService, l listing) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Property{}).Where("name = ?", l.name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	selected := make(map[string]bool, len(l.amenities))
	for _, name := range l.amenities {
		selected[name] = true
	}
	amenities := models.DefaultAmenities()
	for i := range amenities {
		amenities[i].Selected = selected[amenities[i].Name]
	}

	return properties.CreateProperty(ctx, &models.Property{
		Name:        l.name,
		Tagline:     l.tagline,
		Category:    l.category,
		Country:     l.country,
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", l.category),
		Description: fmt.Sprintf("%s. A demo listing seeded for local development with room for %d guests.", l.tagline, l.guests),
		Price:       l.price,
		Guests:      l.guests,
		Bedrooms:    l.bedrooms,
		Beds:        l.beds,
		Baths:       1,
		Amenities:   amenities,
		ProfileID:   demoIdentity,
	})
}
