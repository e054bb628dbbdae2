package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironclub/fittrack/internal/auth"
	"github.com/ironclub/fittrack/internal/client"
	"github.com/ironclub/fittrack/internal/config"
	"github.com/ironclub/fittrack/internal/instructor"
	"github.com/ironclub/fittrack/internal/media"
	"github.com/ironclub/fittrack/internal/middleware"
	"github.com/ironclub/fittrack/internal/models"
	"github.com/ironclub/fittrack/internal/site"
	"github.com/ironclub/fittrack/internal/store"
	"github.com/ironclub/fittrack/internal/view"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)

	users := store.NewMongoUsers(mongoDB)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo users indexes: %v", err)
	}
	exercises := store.NewMongoExercises(mongoDB)
	if err := exercises.EnsureIndexes(ctx); err != nil {
		log.Fatalf("mongo exercises indexes: %v", err)
	}
	workouts := store.NewMongoWorkouts(mongoDB)

	// ── PostgreSQL ───────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	favorites := store.NewPostgresFavorites(pgPool)
	if err := favorites.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	mediaStore, err := store.NewMediaStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Views ────────────────────────────────────────────────
	renderer, err := view.New()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, sessions, renderer, cfg.CookieSecure)
	siteHandler := site.NewHandler(renderer)
	clientHandler := client.NewHandler(users, exercises, workouts, favorites, renderer)
	instructorHandler := instructor.NewHandler(users, exercises, workouts, mediaStore, renderer)
	mediaHandler := media.NewHandler(mediaStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", siteHandler.Landing)

	// Auth routes: forms only for guests, logout only for the logged-in.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireGuest(sessions))
		r.Get("/signup", authHandler.SignupPage)
		r.Post("/signup", authHandler.Signup)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Get("/logout", authHandler.Logout)
		r.Get("/homepage", siteHandler.Homepage)
		r.Get("/media/*", mediaHandler.Get)
	})

	// Role sub-applications
	r.Route("/client", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Use(middleware.RequireRole(models.RoleClient))
		clientHandler.Routes(r)
	})
	r.Route("/instructor", func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Use(middleware.RequireRole(models.RoleInstructor))
		instructorHandler.Routes(r)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 1 * time.Minute,
	}

	go func() {
		log.Printf("fittrack listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
