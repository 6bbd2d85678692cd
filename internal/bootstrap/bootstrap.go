package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentms/internal/app/controllers"
	appMigrations "github.com/yigit/studentms/internal/app/migrations"
	appRepos "github.com/yigit/studentms/internal/app/repositories"
	appRoutes "github.com/yigit/studentms/internal/app/routes"
	appServices "github.com/yigit/studentms/internal/app/services"
	"github.com/yigit/studentms/internal/config"
	"github.com/yigit/studentms/internal/db"
	appMiddleware "github.com/yigit/studentms/internal/middleware"
	pkgAuth "github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/logger"
	"github.com/yigit/studentms/internal/pkg/tokenstore"
	"github.com/yigit/studentms/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Hasher         *pkgAuth.PasswordHasher
	Revoked        tokenstore.Store
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the YAML config and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL, applies migrations and seeds the admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateEmbedded(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	hasher := pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)
	adminRepo := appRepos.NewAdminRepository(dbPool)
	if err := seed.EnsureDefaultAdmin(ctx, adminRepo, hasher, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, lgr); err != nil {
		// the API still serves students without a seeded admin
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRevocationStore returns a Redis-backed store when an address is
// configured and reachable, otherwise an in-process one. The returned client is
// nil for the in-process store.
func SetupRevocationStore(cfg *config.Config, lgr zerolog.Logger) (tokenstore.Store, *redis.Client) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("No Redis address configured, keeping revoked tokens in memory")
		return tokenstore.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, keeping revoked tokens in memory")
		_ = client.Close()
		return tokenstore.NewMemoryStore(), nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Token revocation backed by Redis")
	return tokenstore.NewRedisStore(client), client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, revoked tokenstore.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Revoked: revoked}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Hasher = pkgAuth.NewPasswordHasher(cfg.Auth.BcryptCost)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Hasher, revoked, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.Services.AuthService, deps.Services.StudentService),
		Student: appControllers.NewStudentController(deps.Services.StudentService, deps.Services.ExportService),
		Health:  appControllers.NewHealthController(healthPinger(dbPool)),
	}

	return deps
}

// healthPinger keeps a nil pool out of the Pinger interface. A typed nil
// *pgxpool.Pool would compare non-nil there and panic on Ping.
func healthPinger(pool *pgxpool.Pool) appControllers.Pinger {
	if pool == nil {
		return nil
	}
	return pool
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.Server.APIPrefix)
	return router
}
