package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"careerai/internal/classifier"
	"careerai/internal/config"
	apphttp "careerai/internal/http"
	"careerai/internal/observability"
	"careerai/internal/repository/sqlite"
	"careerai/internal/service"
	"careerai/internal/session"
	"careerai/internal/storage"
	"careerai/internal/voice"
)

const serviceName = "careerai"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, logger, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: serviceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warnf("tracing disabled: %v", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	resultRepo := sqlite.NewAssessmentRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := resultRepo.Init(ctx); err != nil {
		logger.Fatalf("init result repository: %v", err)
	}

	model, err := classifier.Default(classifier.Options{
		Trees: cfg.Classifier.Trees,
		Seed:  cfg.Classifier.Seed,
	})
	if err != nil {
		logger.Fatalf("train classifier: %v", err)
	}
	logger.Infof("career model trained on %d roles", len(model.Labels()))

	sessionStore, closeSessions, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup sessions: %v", err)
	}
	defer closeSessions()

	dispatcher, clips, closeVoice := buildVoice(ctx, cfg, logger)
	dispatcher.Start(ctx)

	archive, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Warnf("report archive disabled: %v", err)
	}

	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	assessmentService := service.NewAssessmentService(resultRepo, model, dispatcher, service.AssessmentConfig{
		Archive:       archive,
		ArchivePrefix: cfg.Storage.KeyPrefix,
	})
	sessions := session.NewManager(sessionStore, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	handler := apphttp.NewHandler(userService, assessmentService, sessions, apphttp.Options{
		LoginRatePerSecond: cfg.Auth.LoginRatePerSecond,
		LoginBurst:         cfg.Auth.LoginBurst,
		Clips:              clips,
		Logger:             logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	dispatcher.Shutdown()
	closeVoice()
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warnf("tracing shutdown: %v", err)
		}
	}

	logger.Info("bye")
}

func buildSessionStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (session.Store, func(), error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	logger.Infof("using redis session store at %s", cfg.Redis.Addr)
	return session.NewRedisStore(rdb), func() { rdb.Close() }, nil
}

// buildVoice never fails: a missing speech backend only disables announcements.
// The returned clip source is nil when announcements are disabled.
func buildVoice(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*voice.Dispatcher, apphttp.ClipSource, func()) {
	dcfg := voice.Config{QueueSize: cfg.Voice.QueueSize, Logger: logger.WithField("component", "voice")}
	if cfg.Voice.Provider != "google" {
		return voice.NewDispatcher(dcfg, voice.Disabled{}, nil), nil, func() {}
	}

	synth, err := voice.NewGoogleSynthesizer(ctx, voice.GoogleConfig{
		CredentialsFile: cfg.Voice.CredentialsFile,
		LanguageCode:    cfg.Voice.LanguageCode,
		VoiceName:       cfg.Voice.VoiceName,
	})
	if err != nil {
		logger.Warnf("voice output disabled: %v", err)
		return voice.NewDispatcher(dcfg, voice.Disabled{}, nil), nil, func() {}
	}
	logger.Infof("voice announcements written to %s", cfg.Voice.OutputDir)
	sink := voice.DirSink{
		Dir:       cfg.Voice.OutputDir,
		Retention: time.Duration(cfg.Voice.RetentionMinutes) * time.Minute,
	}
	return voice.NewDispatcher(dcfg, synth, sink), sink, func() { synth.Close() }
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not set")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving reports to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket), nil
}
