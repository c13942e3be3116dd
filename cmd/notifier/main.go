package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lottomart/notifier/modules/admin"
	"github.com/lottomart/notifier/pkg/archive"
	"github.com/lottomart/notifier/pkg/clientip"
	"github.com/lottomart/notifier/pkg/config"
	"github.com/lottomart/notifier/pkg/email"
	"github.com/lottomart/notifier/pkg/environment"
	"github.com/lottomart/notifier/pkg/httpserver"
	"github.com/lottomart/notifier/pkg/jwt"
	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/mongo"
	"github.com/lottomart/notifier/pkg/opensearch"
	"github.com/lottomart/notifier/pkg/push"
	"github.com/lottomart/notifier/pkg/ratelimiter"
	"github.com/lottomart/notifier/pkg/rbac"
	"github.com/lottomart/notifier/pkg/redis"
	"github.com/lottomart/notifier/pkg/requestid"
	"github.com/lottomart/notifier/pkg/runlock"
	"github.com/lottomart/notifier/svc/broadcast"
	"github.com/lottomart/notifier/svc/broadcast/mongostore"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("notifier stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	config.UseEnvFiles(".env")

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env, err := environment.Parse(cfg.Env)
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor(), environment.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	checks := map[string]httpserver.Check{}
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	stores, err := buildStores(ctx, cfg, checks, &cleanup)
	if err != nil {
		return err
	}

	var redisClient *goredis.Client
	var redisCfg redis.Config
	if cfg.RedisEnabled {
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		redisClient, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = redisClient.Close() })
		checks["redis"] = redis.Healthcheck(redisClient)
	}

	var locker runlock.Locker = runlock.NewMemoryLocker()
	var limiterStore ratelimiter.Store
	if redisClient != nil {
		locker = runlock.NewRedisLocker(redisClient, redisCfg.KeyPrefix)
		limiterStore = ratelimiter.NewRedisStore(redisClient, redisCfg.KeyPrefix)
	} else {
		ms := ratelimiter.NewMemoryStore()
		cleanup = append(cleanup, ms.Close)
		limiterStore = ms
	}
	limiter, err := ratelimiter.NewBucket(limiterStore, ratelimiter.Config{
		Capacity:       cfg.AdminRateLimitCapacity,
		RefillRate:     cfg.AdminRateLimitCapacity,
		RefillInterval: cfg.AdminRateLimitInterval,
	})
	if err != nil {
		return err
	}

	var pushCfg push.Config
	if err := config.Load(&pushCfg); err != nil {
		return err
	}
	pushClient, err := push.NewClient(pushCfg)
	if err != nil {
		return err
	}

	primary, fallback, err := buildEmail(env, log)
	if err != nil {
		return err
	}

	sinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}

	var bcfg broadcast.Config
	if err := config.Load(&bcfg); err != nil {
		return err
	}

	mode := broadcast.PushFallbackFail
	if !env.IsProductionLike() {
		mode = broadcast.PushFallbackSimulate
	}

	svc, err := broadcast.NewService(broadcast.Dependencies{
		Directory:     stores.directory,
		Preferences:   stores.preferences,
		Inbox:         stores.inbox,
		Reports:       stores.reports,
		Push:          pushClient,
		EmailPrimary:  primary,
		EmailFallback: fallback,
		Locker:        locker,
		Sinks:         sinks,
	},
		broadcast.WithConfig(bcfg),
		broadcast.WithPushFallbackMode(mode),
		broadcast.WithLogger(log),
	)
	if err != nil {
		return err
	}

	tokens, err := jwt.NewFromString(cfg.JWTSigningKey)
	if err != nil {
		return err
	}
	var policy rbac.RoleSource = rbac.NewMemorySource(rbac.DefaultPolicy)
	if cfg.RBACPolicyFile != "" {
		policy = rbac.NewYAMLFileSource(cfg.RBACPolicyFile)
	}
	authz, err := rbac.NewAuthorizer(ctx, policy)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware, environment.Middleware(env))
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks))
	r.Mount("/admin", admin.Router(admin.RouterOptions{
		Service:    svc,
		Tokens:     tokens,
		Authorizer: authz,
		Limiter:    limiter,
		Logger:     log,
	}))

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	log.Info("notifier starting",
		slog.String("addr", httpCfg.Addr),
		slog.String("push_fallback_mode", mode.String()),
	)
	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

type storeSet struct {
	directory   broadcast.Directory
	preferences broadcast.PreferenceStore
	inbox       broadcast.Inbox
	reports     broadcast.ReportStore
}

func buildStores(ctx context.Context, cfg appConfig, checks map[string]httpserver.Check, cleanup *[]func()) (storeSet, error) {
	switch cfg.StoreBackend {
	case "memory":
		m := broadcast.NewMemoryStore()
		return storeSet{directory: m, preferences: m, inbox: m, reports: m}, nil
	case "mongo":
		var mcfg mongo.Config
		if err := config.Load(&mcfg); err != nil {
			return storeSet{}, err
		}
		db, err := mongo.ConnectDatabase(ctx, mcfg)
		if err != nil {
			return storeSet{}, err
		}
		*cleanup = append(*cleanup, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(ctx)
		})
		checks["mongo"] = mongo.Healthcheck(db.Client())
		s := mongostore.New(db)
		return storeSet{directory: s, preferences: s, inbox: s, reports: s}, nil
	default:
		return storeSet{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// buildEmail wires Postmark as primary and SMTP as fallback when configured.
// Outside production-like environments a missing provider is replaced by a
// DevSender that writes messages to disk.
func buildEmail(env environment.Environment, log *slog.Logger) (email.BatchSender, email.EmailSender, error) {
	var ecfg email.Config
	if err := config.Load(&ecfg); err != nil {
		return nil, nil, err
	}

	var primary email.BatchSender
	var fallback email.EmailSender

	if ecfg.PostmarkServerToken != "" {
		pm, err := email.NewPostmarkClient(ecfg)
		if err != nil {
			return nil, nil, err
		}
		primary = pm
	}
	if ecfg.SMTPHost != "" {
		smtp, err := email.NewSMTPSender(ecfg)
		if err != nil {
			return nil, nil, err
		}
		fallback = smtp
	}

	if !env.IsProductionLike() {
		dev := email.NewDevSender(ecfg.DevOutputDir)
		if primary == nil {
			primary = dev
		}
		if fallback == nil {
			fallback = dev
		}
	}
	if primary == nil && fallback == nil {
		log.Warn("no email provider configured; email channel will always fail")
	}
	return primary, fallback, nil
}

func buildSinks(ctx context.Context, cfg appConfig) ([]broadcast.ReportSink, error) {
	var sinks []broadcast.ReportSink

	switch cfg.ArchiveBackend {
	case "", "none":
	case "local":
		local, err := archive.NewLocal(cfg.ArchiveLocalDir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, broadcast.NewArchiveSink(local))
	case "s3":
		var s3cfg archive.S3Config
		if err := config.Load(&s3cfg); err != nil {
			return nil, err
		}
		s3, err := archive.NewS3(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, broadcast.NewArchiveSink(s3))
	default:
		return nil, fmt.Errorf("unknown ARCHIVE_BACKEND %q", cfg.ArchiveBackend)
	}

	if cfg.OpenSearchEnabled {
		var ocfg opensearch.Config
		if err := config.Load(&ocfg); err != nil {
			return nil, err
		}
		client, err := opensearch.New(ctx, ocfg)
		if err != nil {
			return nil, errors.Join(errors.New("opensearch unavailable"), err)
		}
		indexer, err := opensearch.NewIndexer(client, ocfg.ReportIndex)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, broadcast.NewIndexSink(indexer))
	}

	return sinks, nil
}
