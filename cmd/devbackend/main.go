// Command devbackend runs the in-memory auction REST API for local use.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	bidding "auction-console/internal/biddingService"
	"auction-console/internal/devbackend"
	"auction-console/internal/models"
	"auction-console/internal/repository"
	"auction-console/utils"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", os.Getenv("AUCTION_DEV_SECRET"), "token signing secret; random when empty")
	seed := flag.Bool("seed", true, "add sample items")
	flag.Parse()

	repo := repository.NewMemoryRepo()
	if *seed {
		prepopulateItems(repo)
	}

	svc := bidding.NewBiddingService(repo, bidding.Options{Secret: *secret})
	router := devbackend.NewRouter(svc)

	utils.Info("starting dev auction backend", map[string]any{"addr": *addr})
	if err := router.Run(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulateItems adds sample items to the in-memory repo
func prepopulateItems(repo *repository.MemoryRepo) {
	now := time.Now().UTC().Truncate(time.Minute)
	items := []models.Item{
		{Name: "Vintage desk lamp", Description: "Brass, working condition", StartingPrice: 40, AuctionStartTime: now.Add(-5 * time.Minute), Duration: 60},
		{Name: "Oak chair", Description: "Hand finished", StartingPrice: 120, AuctionStartTime: now.Add(30 * time.Minute), Duration: 45},
		{Name: "Film camera", Description: "35mm rangefinder", StartingPrice: 200, AuctionStartTime: now.Add(-2 * time.Hour), Duration: 30},
	}

	for _, item := range items {
		item.ID = utils.GenerateID()
		if err := repo.AddItem(item); err != nil {
			utils.Warn("seed item rejected", map[string]any{"name": item.Name, "error": err.Error()})
		}
	}
}
