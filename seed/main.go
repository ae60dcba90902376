package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"experiencehub/config"
	"experiencehub/database"
	"experiencehub/database/repository"
	"experiencehub/models"
	"experiencehub/services/experience"
	"experiencehub/utils"
)

var seedExperiences = []models.CreateExperienceRequest{
	{
		Title:       "Kayaking",
		Location:    "Goa",
		Description: "Guided kayak trip through the Sal backwaters and mangroves.",
		Price:       999,
		ImageURL:    "https://images.unsplash.com/photo-1544551763-46a013bb70d5",
		AvailabilityCalendar: []models.CalendarEntryInput{
			{Date: "2025-10-22", TimeSlots: []models.SlotInput{
				{Label: "7:00 AM", TotalUnits: 8},
				{Label: "9:00 AM", TotalUnits: 5},
				{Label: "4:00 PM", TotalUnits: 8},
			}},
			{Date: "2025-10-23", TimeSlots: []models.SlotInput{
				{Label: "9:00 AM", TotalUnits: 5},
			}},
		},
	},
	{
		Title:           "Nandi Hills Sunrise",
		Location:        "Bangalore",
		Description:     "Early morning drive and hike to catch the sunrise above the clouds.",
		Price:           899,
		ImageURL:        "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee",
		Dates:           []string{"2025-10-22", "2025-10-23", "2025-10-24"},
		Slots:           []string{"04:30 am", "05:30 am"},
		DefaultCapacity: 12,
	},
	{
		Title:           "Coffee Trail",
		Location:        "Coorg",
		Description:     "Plantation walk with a tasting session.",
		Price:           1299,
		ImageURL:        "https://images.unsplash.com/photo-1447933601403-0c6688de566e",
		Dates:           []string{"2025-10-25", "2025-10-26"},
		Slots:           []string{"10:00 am", "02:00 pm"},
		DefaultCapacity: 10,
	},
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := database.InitDB(ctx); err != nil {
		logger.Fatal("seed: failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close(context.Background())

	db := database.Database()
	for _, name := range []string{"experiences", "slot_inventory", "bookings"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			logger.Fatal("seed: failed to clear collection", zap.String("collection", name), zap.Error(err))
		}
	}

	repos := repository.NewMongoRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		logger.Fatal("seed: failed to ensure indexes", zap.Error(err))
	}

	// Seeding rewrites the catalog, so the cached listing must go too.
	if _, err := utils.InitCache(); err != nil {
		logger.Warn("seed: catalog cache unavailable", zap.Error(err))
	}
	var cache *experience.CatalogCache
	if client := utils.GetCacheClient(); client != nil {
		defer client.Close()
		cache = experience.NewCatalogCache(client, config.AppConfig.CatalogCacheTTL, logger)
	}

	catalog := experience.NewExperienceService(repos.Experiences, repos.Inventory, cache, logger)
	for _, req := range seedExperiences {
		exp, err := catalog.Create(ctx, req)
		if err != nil {
			logger.Fatal("seed: failed to create experience", zap.String("title", req.Title), zap.Error(err))
		}
		logger.Info("seed: experience created", zap.String("id", exp.ID), zap.String("title", exp.Title))
	}
	logger.Info("seed: done", zap.Int("experiences", len(seedExperiences)))
}
