package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/database"
	"github.com/swapcloset/swapcloset-golang/internal/feed"
	"github.com/swapcloset/swapcloset-golang/internal/handlers"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/ledger"
	"github.com/swapcloset/swapcloset-golang/internal/media"
	"github.com/swapcloset/swapcloset-golang/internal/models"
	"github.com/swapcloset/swapcloset-golang/internal/notify"
	"github.com/swapcloset/swapcloset-golang/internal/routes"
	"github.com/swapcloset/swapcloset-golang/internal/submissions"
	"github.com/swapcloset/swapcloset-golang/internal/viewsync"
	"github.com/swapcloset/swapcloset-golang/internal/workflow"
)

// changeFeed is what main needs from the feed backend: both ends.
type changeFeed interface {
	feed.Publisher
	feed.Subscriber
}

func main() {
	// Load .env if present. In deployed environments the variables come
	// from the process environment instead.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("FATAL: could not connect to database: %v", err)
	}
	defer db.Close()

	// The change feed runs on Redis when one is configured; otherwise an
	// in-process bus keeps the view synchronizers working on a single node.
	var bus changeFeed
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisFeed, err := feed.NewRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatalf("FATAL: could not connect to redis: %v", err)
		}
		bus = redisFeed
		log.Println("Change feed: redis pub/sub at", addr)
	} else {
		bus = feed.NewBus()
		log.Println("Change feed: in-process bus (REDIS_ADDR not set)")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	uploads, err := media.NewDiskStore("./uploads", baseURL)
	if err != nil {
		log.Fatalf("FATAL: could not prepare upload directory: %v", err)
	}

	items := itemstore.NewSQL(db, bus)
	coins := ledger.NewSQL(db)
	notifications := notify.New(db)

	catalogRepo := catalog.New(items)
	submissionRepo := submissions.New(items)
	engine := workflow.New(items, coins, notifications)

	// One synchronized snapshot per dashboard list. Each runs until the
	// process exits.
	ctx := context.Background()
	views := map[string]*viewsync.View{
		"catalog": viewsync.NewView("catalog", func(ctx context.Context) ([]*models.Item, error) {
			return catalogRepo.List(ctx)
		}),
		"pending": viewsync.NewView("pending", func(ctx context.Context) ([]*models.Item, error) {
			return submissionRepo.List(ctx, "pending")
		}),
		"approved": viewsync.NewView("approved", func(ctx context.Context) ([]*models.Item, error) {
			return submissionRepo.List(ctx, "approved")
		}),
		"rejected": viewsync.NewView("rejected", func(ctx context.Context) ([]*models.Item, error) {
			return submissionRepo.List(ctx, "rejected")
		}),
	}
	for _, view := range views {
		go func(v *viewsync.View) {
			if err := v.Run(ctx, bus); err != nil && err != context.Canceled {
				log.Printf("WARNING: view %s stopped: %v", v.Name(), err)
			}
		}(view)
	}

	h := &handlers.Handlers{
		DB:            db,
		Catalog:       catalogRepo,
		Submissions:   submissionRepo,
		Workflow:      engine,
		Ledger:        coins,
		Media:         uploads,
		Notifications: notifications,
		Views:         views,
	}

	router := routes.SetupRouter(h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Starting server on port " + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("FATAL: server stopped: %v", err)
	}
}
