package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"vitrine/catalog"
	"vitrine/condb"
	"vitrine/config"
	"vitrine/controllers"
	"vitrine/media"
	"vitrine/memstore"
	"vitrine/models"
	"vitrine/routes"
	"vitrine/utils"
	"vitrine/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	utils.SecretKey = cfg.Auth.JWTSecret
	utils.TokenTTL = cfg.Auth.JWTTTL

	shutdownCtx, shutdownCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer shutdownCancel()

	store, closeStore, err := openStore(shutdownCtx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	storage, err := openStorage(cfg)
	if err != nil {
		log.Fatal(err)
	}

	order := catalog.OrderOptions{
		DefaultNumber: cfg.Order.DefaultWhatsapp,
		Currency:      cfg.Order.Currency,
		Locale:        cfg.Order.PriceLocale,
	}
	h := controllers.New(store, catalog.NewHolder(store, cfg.App.CatalogTTL), storage, order)

	app := fiber.New(fiber.Config{
		Views:        views.Engine(order),
		ErrorHandler: controllers.ErrorHandler,
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.AllowOrigins, // คั่นด้วย comma
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Set-Cookie",
		AllowCredentials: true,
	}))

	app.Static("/static/uploads", cfg.Media.UploadDir)
	app.Static("/static", "./static")

	routes.RegisterRoutes(app, h)

	g, gctx := errgroup.WithContext(shutdownCtx)
	g.Go(func() error {
		log.Printf("vitrine listening on :%s (dev mode: %v)", cfg.App.Port, cfg.App.DevMode)
		return app.Listen(":" + cfg.App.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down, waiting for pending requests...")
		return app.ShutdownWithTimeout(20 * time.Second)
	})
	if err := g.Wait(); err != nil {
		log.Println(err)
	}
	log.Println("server stopped")
}

// openStore picks the in-memory store in dev mode and Postgres otherwise.
func openStore(ctx context.Context, cfg *config.Config) (controllers.Store, func(), error) {
	hash, err := utils.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	if cfg.App.DevMode {
		s := memstore.New()
		if _, err := s.Seed(ctx, cfg.Auth.AdminEmail, hash); err != nil {
			return nil, nil, err
		}
		log.Printf("dev mode: in-memory store seeded, admin %s", cfg.Auth.AdminEmail)
		return s, func() {}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := condb.Migrate(cfg.Database.URL); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := condb.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	s := condb.NewStore(pool)

	if _, err := s.CreateUser(ctx, cfg.Auth.AdminEmail, hash, models.RoleAdmin); err == nil {
		log.Printf("created admin account %s", cfg.Auth.AdminEmail)
	} else if !errors.Is(err, models.ErrConflict) {
		pool.Close()
		return nil, nil, fmt.Errorf("admin account: %w", err)
	}
	return s, pool.Close, nil
}

func openStorage(cfg *config.Config) (media.Storage, error) {
	if cfg.Media.CloudinaryURL != "" {
		return media.NewCloudinary(cfg.Media.CloudinaryURL, cfg.Media.CloudinaryFolder)
	}
	log.Printf("CLOUDINARY_URL not set, storing uploads in %s", cfg.Media.UploadDir)
	return media.NewLocal(cfg.Media.UploadDir, "/static/uploads")
}
