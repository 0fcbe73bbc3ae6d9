// Package server wires configuration, storage backends, AWS clients and the
// HTTP surface together and runs them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/csye-webapp/webapp/internal/logging"
	"github.com/csye-webapp/webapp/internal/metrics"
	"github.com/csye-webapp/webapp/internal/server/config"
	"github.com/csye-webapp/webapp/internal/server/health"
	"github.com/csye-webapp/webapp/internal/server/notify"
	"github.com/csye-webapp/webapp/internal/server/repositories/repomanager"
	"github.com/csye-webapp/webapp/internal/server/rest"
	"github.com/csye-webapp/webapp/internal/server/services"
	"github.com/csye-webapp/webapp/internal/server/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	server  *rest.Server
	closers []io.Closer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger, logCloser := logging.New(logging.Options{
		Console: os.Stdout,
		File:    c.LogFile,
		Level:   zerolog.InfoLevel,
	})
	app := &App{config: c, logger: logger, closers: []io.Closer{logCloser}}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		app.abort()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	var rec metrics.Recorder = metrics.Nop{}
	if c.StatsdAddr != "" {
		sr, err := metrics.NewStatsdRecorder(c.StatsdAddr, "")
		if err != nil {
			logger.Warn(ctx, "metrics disabled", "error", err)
		} else {
			rec = sr
			app.closers = append(app.closers, sr)
		}
	}

	awsCfg, err := storage.LoadAWSConfig(ctx, storage.Options{
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	})
	if err != nil {
		app.abort()
		return nil, err
	}
	store := storage.NewS3Store(storage.NewS3Client(awsCfg, c.S3BaseEndpoint), c.S3Bucket, rec)

	var publisher notify.Publisher = notify.NewLogPublisher(logger)
	if c.SNSTopicARN != "" {
		publisher = notify.NewSNSPublisher(sns.NewFromConfig(awsCfg), c.SNSTopicARN)
	}

	auth := services.NewAuthService(db, m, rec, logger)
	users := services.NewUserService(db, m, publisher, rec, logger, services.UserServiceOptions{
		VerificationTokenTTL: c.VerificationTokenTTL,
		PublicBaseURL:        c.PublicBaseURL,
	})

	app.server = rest.NewServer(c.EndpointAddr, logger, rec, rest.Services{
		Auth:         auth,
		Users:        users,
		ProfilePics:  services.NewProfilePicService(db, m, store, rec, logger),
		Verification: services.NewVerificationService(db, m, rec, logger),
		Health:       health.NewService(health.NewPostgresChecker(db)),
	}, rest.Options{
		RequireVerifiedEmail: c.RequireVerifiedEmail,
		ShutdownTimeout:      c.ShutdownTimeout,
	})

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the server fails, then
// releases the database pool, metrics client and log file.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	app.releaseClosers()
}

// abort releases everything NewApp acquired before it failed.
func (app *App) abort() {
	_ = app.db.Close()
	app.releaseClosers()
}

// releaseClosers closes in reverse acquisition order, so the log file goes last.
func (app *App) releaseClosers() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i].Close()
	}
}
