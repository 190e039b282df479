package main

import (
	"context"
	"errors"
	"log"
	"time"

	"chalethaven/config"
	"chalethaven/database"
	"chalethaven/database/repository"
	listingRepo "chalethaven/database/repository/listing"
	userRepo "chalethaven/database/repository/user"
	"chalethaven/models"
	"chalethaven/services/auth"

	"github.com/spf13/viper"
)

func sampleChalets() []models.ListingRecord {
	return []models.ListingRecord{
		{
			Slug:        "chalet-edelweiss",
			Title:       "Chalet Edelweiss",
			Description: "Family chalet a short walk from the Sunnegga lift.",
			Pricing:     models.RateCard{BasePrice: 420, CleaningFee: 150, SecurityDeposit: 500, TaxRate: 3.8, Currency: "chf"},
			Capacity:    models.Capacity{MaxGuests: 8, Bedrooms: 4, Bathrooms: 3},
			Location:    models.Location{City: "Zermatt", Region: "Valais", Country: "CH"},
			Amenities:   []string{"Sauna", "Fireplace", "Ski storage", "WiFi"},
			Images: map[string]interface{}{
				"hero":    map[string]interface{}{"url": "https://res.cloudinary.com/demo/image/upload/chalets/edelweiss/front.jpg", "alt": "Chalet Edelweiss in winter"},
				"gallery": []string{"https://res.cloudinary.com/demo/image/upload/chalets/edelweiss/living.jpg"},
			},
			Availability: models.Availability{IsActive: true},
		},
		{
			Slug:        "le-refuge",
			Title:       "Le Refuge",
			Description: "Ski-in ski-out apartment chalet for couples.",
			Pricing:     models.RateCard{BasePrice: 260, CleaningFee: 90, TaxRate: 10, Currency: "eur"},
			Capacity:    models.Capacity{MaxGuests: 2, Bedrooms: 1, Bathrooms: 1},
			Location:    models.Location{City: "Chamonix", Region: "Haute-Savoie", Country: "FR"},
			Amenities:   "Hot tub, Balcony, WiFi",
			Images: map[string]interface{}{
				"exterior": []string{"https://res.cloudinary.com/demo/image/upload/chalets/refuge/outside.jpg"},
				"interior": []map[string]interface{}{{"secure_url": "https://res.cloudinary.com/demo/image/upload/chalets/refuge/bed.jpg", "isHero": true}},
			},
			Availability: models.Availability{
				IsActive: true,
				Blocked: []models.DateRange{{
					Start:  time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
					End:    time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC),
					Reason: "owner stay",
				}},
			},
		},
		{
			Slug:         "haus-am-see",
			Title:        "Haus am See",
			Pricing:      models.RateCard{BasePrice: 310, CleaningFee: 120, TaxRate: 7, Currency: "eur"},
			Capacity:     models.Capacity{MaxGuests: 6, Bedrooms: 3, Bathrooms: 2},
			Location:     models.Location{City: "Zell am See", Country: "AT"},
			Amenities:    map[string]interface{}{"sauna": true, "parking": true, "pets": false},
			Images:       []string{"https://res.cloudinary.com/demo/image/upload/chalets/see/lake.jpg"},
			Availability: models.Availability{IsActive: false},
		},
	}
}

func main() {
	cfg := config.LoadConfig()
	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer database.Disconnect(ctx)

	db := database.Database()
	listings := repository.NewMongoListingRepo(db)
	for _, rec := range sampleChalets() {
		if err := listings.Create(ctx, &rec); err != nil {
			if errors.Is(err, listingRepo.ErrSlugTaken) {
				log.Printf("Skipping %s: already present", rec.Slug)
				continue
			}
			log.Fatalf("Failed to insert %s: %v", rec.Slug, err)
		}
		log.Printf("Inserted chalet %s", rec.Slug)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@chalethaven.local")
	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	password := v.GetString("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Println("SEED_ADMIN_PASSWORD not set; no admin account created")
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("%v", err)
	}
	users := repository.NewMongoUserRepository(db)
	admin := &models.User{
		Username:     v.GetString("SEED_ADMIN_USERNAME"),
		Email:        v.GetString("SEED_ADMIN_EMAIL"),
		Name:         "Site administrator",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, userRepo.ErrUserExists) {
			log.Printf("Admin %s already exists", admin.Email)
			return
		}
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin %s", admin.Email)
}
