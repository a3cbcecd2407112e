// Package app wires configuration, connections and services into one
// process-wide object shared by the server and the admin CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/survey-tracker/internal/config"
	"github.com/ignite/survey-tracker/internal/export"
	"github.com/ignite/survey-tracker/internal/pkg/distlock"
	"github.com/ignite/survey-tracker/internal/pkg/logger"
	"github.com/ignite/survey-tracker/internal/pkg/reqseq"
	"github.com/ignite/survey-tracker/internal/questionnaire"
	"github.com/ignite/survey-tracker/internal/repository/postgres"
	"github.com/ignite/survey-tracker/internal/service/dashboard"
	"github.com/ignite/survey-tracker/internal/service/followup"
	"github.com/ignite/survey-tracker/internal/service/reference"
	"github.com/ignite/survey-tracker/internal/service/respondent"
	"github.com/ignite/survey-tracker/internal/surveyimport"
)

// App holds the open connections and the wired services.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client // nil when not configured or unreachable
	S3     *s3.Client    // nil when storage is not configured

	Respondents *respondent.Service
	Followups   *followup.Service
	References  *reference.Service
	Dashboard   *dashboard.Service
	Sessions    questionnaire.SessionStore
	Importer    *surveyimport.Importer
	Opener      *surveyimport.Opener
	Reports     *export.Renderer
}

// ConfigureLogging applies the log section.
func ConfigureLogging(cfg config.LogConfig) {
	logger.SetLevel(logger.ParseLevel(cfg.Level))
	logger.SetRedactPII(cfg.Redact())
}

// New opens Postgres (required), Redis and S3 (both optional) and wires the
// services. Redis failures degrade to in-memory sessions, sequencing and no
// analytics cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	ConfigureLogging(cfg.Log)

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: db}

	if cfg.Redis.Enabled() {
		client, err := openRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory fallbacks", "error", err)
		} else {
			a.Redis = client
		}
	}

	if cfg.Storage.Enabled() {
		client, err := surveyimport.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			logger.Warn("s3 unavailable, import limited to uploads and local files", "error", err)
		} else {
			a.S3 = client
		}
	}

	a.Reports, err = export.NewRenderer()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.wire()
	return a, nil
}

func (a *App) wire() {
	cfg := a.Config

	a.Respondents = respondent.NewService(postgres.NewRespondentRepo(a.DB))
	a.Followups = followup.NewService(postgres.NewFollowupRepo(a.DB), a.Respondents)
	a.References = reference.NewService(postgres.NewReferenceRepo(a.DB))

	var (
		cache dashboard.Cache
		seq   reqseq.Sequencer = reqseq.NewMemorySequencer(cfg.Analytics.SeqTTL())
	)
	a.Sessions = questionnaire.NewMemorySessionStore(cfg.Questionnaire.SessionTTL())
	if a.Redis != nil {
		cache = dashboard.NewRedisCache(a.Redis, cfg.Analytics.CacheTTL())
		seq = reqseq.NewRedisSequencer(a.Redis, cfg.Analytics.SeqTTL())
		a.Sessions = questionnaire.NewRedisSessionStore(a.Redis, cfg.Questionnaire.SessionTTL())
	}
	a.Dashboard = dashboard.NewService(a.Respondents, a.Followups, cache, seq)
	a.Respondents.OnChange(a.Dashboard.Invalidate)
	a.Followups.OnChange(a.Dashboard.Invalidate)

	lock := distlock.NewLock(a.Redis, a.DB, surveyimport.LockKey, cfg.Import.LockTTL())
	a.Importer = surveyimport.NewImporter(a.Respondents, lock)
	a.Importer.SetMaxErrors(cfg.Import.MaxErrorsReported)

	if a.S3 != nil {
		a.Opener = surveyimport.NewOpener(a.S3)
	} else {
		a.Opener = surveyimport.NewOpener(nil)
	}
}

// Close releases the connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Warn("close database", "error", err)
		}
	}
}

// OpenDB opens and pings the Postgres pool.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is required (DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.URL}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
