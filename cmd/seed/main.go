// Command seed fills an empty database with default categories, an admin
// account and a handful of sample vehicles. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mongoadapter "github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/mongo"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/service"
	"github.com/spf13/viper"
)

type seedConfig struct {
	MongoURI       string `mapstructure:"MONGO_URI"`
	MongoUser      string `mapstructure:"MONGO_USER"`
	MongoPassword  string `mapstructure:"MONGO_PASSWORD"`
	MongoDatabase  string `mapstructure:"MONGO_DATABASE"`
	AdminEmail     string `mapstructure:"SEED_ADMIN_EMAIL"`
	AdminUsername  string `mapstructure:"SEED_ADMIN_USERNAME"`
	AdminPassword  string `mapstructure:"SEED_ADMIN_PASSWORD"`
	SampleVehicles bool   `mapstructure:"SEED_SAMPLE_VEHICLES"`
	BcryptCost     int    `mapstructure:"AUTH_BCRYPT_COST"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

func loadSeedConfig() (*seedConfig, error) {
	viper.SetConfigName("seed")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_USER", "")
	viper.SetDefault("MONGO_PASSWORD", "")
	viper.SetDefault("MONGO_DATABASE", "dealership_db")
	viper.SetDefault("SEED_ADMIN_EMAIL", "admin@dealership.local")
	viper.SetDefault("SEED_ADMIN_USERNAME", "admin")
	viper.SetDefault("SEED_ADMIN_PASSWORD", "")
	viper.SetDefault("SEED_SAMPLE_VEHICLES", true)
	viper.SetDefault("AUTH_BCRYPT_COST", 12)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg seedConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.AdminPassword) < 8 {
		return nil, fmt.Errorf("SEED_ADMIN_PASSWORD must be at least 8 characters")
	}
	return &cfg, nil
}

var defaultCategories = []entity.Category{
	{Name: "Sedan", Description: "Four-door passenger cars", IsActive: true},
	{Name: "SUV", Description: "Sport utility vehicles", IsActive: true},
	{Name: "Coupe", Description: "Two-door sports cars", IsActive: true},
	{Name: "Electric", Description: "Battery electric vehicles", IsActive: true},
}

type sampleVehicle struct {
	category string
	vehicle  entity.Vehicle
}

var sampleVehicles = []sampleVehicle{
	{"Sedan", entity.Vehicle{Brand: "Toyota", Model: "Camry", Year: 2021, Price: 24500, Engine: "2.5L I4", Color: "White", Distance: 32000, Gearbox: entity.GearboxAutomatic, Tinting: entity.TintingNo}},
	{"Sedan", entity.Vehicle{Brand: "BMW", Model: "530i", Year: 2020, Price: 36900, Engine: "2.0L Turbo", Color: "Black", Distance: 41000, Gearbox: entity.GearboxAutomatic, Tinting: entity.TintingYes}},
	{"SUV", entity.Vehicle{Brand: "Hyundai", Model: "Tucson", Year: 2022, Price: 27800, Engine: "2.0L I4", Color: "Grey", Distance: 18000, Gearbox: entity.GearboxAutomatic, Tinting: entity.TintingYes}},
	{"Coupe", entity.Vehicle{Brand: "Ford", Model: "Mustang", Year: 2019, Price: 31200, Engine: "5.0L V8", Color: "Red", Distance: 27000, Gearbox: entity.GearboxManual, Tinting: entity.TintingNo}},
	{"Electric", entity.Vehicle{Brand: "Nissan", Model: "Leaf", Year: 2021, Price: 19900, Engine: "Electric", Color: "Blue", Distance: 22000, Gearbox: entity.GearboxCVT, Tinting: entity.TintingNo}},
}

func main() {
	cfg, err := loadSeedConfig()
	if err != nil {
		log.Fatalf("cannot load seed config: %v", err)
	}

	seedLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{Level: cfg.LogLevel, Encoding: "console"})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = seedLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongoadapter.NewClient(ctx, config.MongoDBConfig{
		URI:      cfg.MongoURI,
		User:     cfg.MongoUser,
		Password: cfg.MongoPassword,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		seedLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDatabase)
	if err := mongoadapter.EnsureIndexes(ctx, db, seedLogger); err != nil {
		seedLogger.Fatalf("Failed to ensure indexes: %v", err)
	}

	users := mongoadapter.NewUserRepository(db, seedLogger)
	categories := mongoadapter.NewCategoryRepository(db, seedLogger)
	vehicles := mongoadapter.NewVehicleRepository(db, seedLogger)

	adminID, err := seedAdmin(ctx, users, service.NewBcryptHasher(cfg.BcryptCost), cfg)
	if err != nil {
		seedLogger.Fatalf("Failed to seed admin: %v", err)
	}
	seedLogger.Infof("Admin account ready: %s (%s)", cfg.AdminUsername, adminID)

	categoryIDs, err := seedCategories(ctx, categories, adminID)
	if err != nil {
		seedLogger.Fatalf("Failed to seed categories: %v", err)
	}
	seedLogger.Infof("Categories ready: %d", len(categoryIDs))

	if !cfg.SampleVehicles {
		return
	}
	created, err := seedVehicles(ctx, vehicles, categoryIDs, adminID)
	if err != nil {
		seedLogger.Fatalf("Failed to seed vehicles: %v", err)
	}
	seedLogger.Infof("Sample vehicles created: %d", created)
}

func seedAdmin(ctx context.Context, users repository.UserRepository, hasher service.PasswordHasher, cfg *seedConfig) (string, error) {
	existing, err := users.GetAdminByIdentifier(ctx, cfg.AdminUsername)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return "", err
	}
	return users.Create(ctx, &entity.User{
		Email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         entity.RoleAdmin,
		IsVerified:   true,
	})
}

// seedCategories returns the id of every default category keyed by name.
func seedCategories(ctx context.Context, categories repository.CategoryRepository, adminID string) (map[string]string, error) {
	existing, _, err := categories.List(ctx, entity.CategoryFilter{})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(defaultCategories))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}

	for _, c := range defaultCategories {
		if _, ok := ids[c.Name]; ok {
			continue
		}
		c.CreatedBy = adminID
		id, err := categories.Create(ctx, &c)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		ids[c.Name] = id
	}
	return ids, nil
}

func seedVehicles(ctx context.Context, vehicles repository.VehicleRepository, categoryIDs map[string]string, adminID string) (int, error) {
	current, err := vehicles.List(ctx, entity.VehicleFilter{SortBy: "createdAt", Pagination: entity.Pagination{Page: 1, Limit: 1}})
	if err != nil {
		return 0, err
	}
	if current.TotalCount > 0 {
		return 0, nil
	}

	created := 0
	for _, s := range sampleVehicles {
		v := s.vehicle
		v.CategoryID = categoryIDs[s.category]
		v.CreatedBy = adminID
		v.IsAvailable = true
		v.Description = fmt.Sprintf("%s in %s with %d km", v.DisplayName(), strings.ToLower(v.Color), v.Distance)
		if _, err := vehicles.Create(ctx, &v); err != nil {
			return created, fmt.Errorf("vehicle %s: %w", v.DisplayName(), err)
		}
		created++
	}
	return created, nil
}
