package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/config"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/infra/memory"
	pgstore "classquiz-service/internal/infra/postgres"
	redisstore "classquiz-service/internal/infra/redis"
	transport "classquiz-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	staticLoader := memory.NewStaticQuizLoader(sampleQuizzes(), sampleCategories())

	var loader memory.QuizLoader = staticLoader
	var catalog app.CatalogRepository = staticLoader
	var results app.ResultRepository = memory.NewResultStore()
	if pool != nil {
		loader = pgstore.NewQuizLoader(pool)
		catalog = pgstore.NewCatalog(pool)
		results = pgstore.NewResultWriter(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var registry app.SessionRegistry
	if redisClient != nil {
		registry = redisstore.NewSessionRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewSessionRegistry()
	}

	sessions := app.NewSessionService(registry, quizRepo, results, app.SessionConfig{
		MinutesPerQuestion: cfg.Quiz.MinutesPerQuestion,
		DefaultPoints:      cfg.Quiz.DefaultPoints,
		SchoolID:           cfg.Quiz.SchoolID,
	})
	wsHandler := transport.NewWSHandler(sessions)
	catalogHandler := transport.NewCatalogHandler(app.NewCatalogService(catalog))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/categories", catalogHandler.ListCategories)
	mux.HandleFunc("/quizzes", catalogHandler.ListQuizzes)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes seeds the no-database dev mode; production content comes from
// the quizzes collection.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-math-1": {
			ID:         "quiz-math-1",
			Title:      "คณิตศาสตร์พื้นฐาน",
			Emoji:      "🧮",
			Difficulty: domain.DifficultyEasy,
			CategoryID: "cat-math",
			Questions: []domain.Question{
				{
					Prompt:        "2 + 2 เท่ากับเท่าไร",
					AltPrompt:     "What is 2 + 2?",
					Options:       []string{"3", "4", "5"},
					AltOptions:    []string{"3", "4", "5"},
					CorrectOption: 1,
					Points:        10,
				},
				{
					Prompt:        "7 × 8 เท่ากับเท่าไร",
					AltPrompt:     "What is 7 × 8?",
					Options:       []string{"54", "56", "58", "64"},
					CorrectOption: 1,
					Points:        20,
				},
			},
		},
	}
}

func sampleCategories() []domain.Category {
	return []domain.Category{
		{ID: "cat-math", Name: "คณิตศาสตร์", Emoji: "🧮"},
		{ID: "cat-sci", Name: "วิทยาศาสตร์", Emoji: "🔬"},
	}
}
