package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/archive"
	"github.com/cottagecooking/class-booking/internal/auth"
	"github.com/cottagecooking/class-booking/internal/booking"
	"github.com/cottagecooking/class-booking/internal/catalog"
	"github.com/cottagecooking/class-booking/internal/config"
	"github.com/cottagecooking/class-booking/internal/handler"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/queue"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/router"
	"github.com/cottagecooking/class-booking/internal/store"
	appsync "github.com/cottagecooking/class-booking/internal/sync"
	"github.com/cottagecooking/class-booking/internal/worker"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared store: Redis when configured, in-memory otherwise.  The
	// in-memory fallback runs the whole site in one process, which is all
	// a single cottage kitchen needs.
	var st store.Store
	if client := config.NewRedisClient(); client != nil {
		r := store.NewRedis(client)
		defer r.Close()
		st = r
		logrus.Info("using redis store")
	} else {
		st = store.NewMemory()
		logrus.Info("using in-memory store")
	}

	// Seed the default schedule on first boot, then publish both catalog
	// views so every reader starts from reconciled numbers.
	sessions, err := catalog.Seed(ctx, st)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	pub := appsync.NewPublisher(st)
	if err := publishInitial(ctx, st, pub, sessions); err != nil {
		log.Fatalf("initial publish: %v", err)
	}

	// Optional MySQL reporting mirror, fed by the queue consumer.
	var mirror *archive.DB
	if cfg.ArchiveEnabled() {
		mirror, err = archive.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open archive: %v", err)
		}
		defer mirror.Close()
		if err := mirror.EnsureSchema(ctx); err != nil {
			log.Fatalf("archive schema: %v", err)
		}
	}

	// Services.
	var events booking.EventPublisher
	if cfg.QueueEnabled {
		events = queue.Publisher{}
	}
	bookings := booking.NewService(st, pub, events)
	accounts := auth.NewService(st, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)

	// Background loops.
	if cfg.QueueEnabled {
		go queue.StartBookingConsumer(ctx, mirror)
	}
	sweeper := &worker.PendingSweeper{
		Bookings: bookings,
		Store:    st,
		Interval: cfg.SweepInterval,
		TTL:      cfg.PendingTTL,
	}
	go sweeper.Start(ctx)

	// HTTP surface.
	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(st))
	router.RegisterBooking(e, handler.NewBookingHandler(bookings))
	router.RegisterAuth(e, handler.NewAuthHandler(accounts), cfg.JWTSecret)
	router.RegisterDashboard(e, handler.NewDashboardHandler(st), cfg.JWTSecret)
	router.RegisterAdmin(e, cfg.JWTSecret,
		handler.NewAdminClassHandler(st, pub),
		handler.NewAdminBookingHandler(bookings),
		handler.NewAdminDeskHandler(st, accounts, mirror),
	)

	addr := ":" + cfg.Port
	logrus.WithField("env", cfg.Env).Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// publishInitial reconciles the seeded catalog against whatever ledger
// already exists in the store and writes both views plus the update marker.
func publishInitial(ctx context.Context, st store.Store, pub *appsync.Publisher, sessions []model.ClassSession) error {
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, st, store.KeyBookingLedger, &ledger); err != nil {
		return err
	}
	return pub.Publish(ctx, reconcile.All(sessions, ledger))
}
