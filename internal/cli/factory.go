package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/internal/agency"
	"github.com/aretw0/convoy/pkg/adapters/memory"
	"github.com/aretw0/convoy/pkg/adapters/redis"
	"github.com/aretw0/convoy/pkg/config"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/observability"
	"github.com/aretw0/convoy/pkg/oracle/openai"
	"github.com/aretw0/convoy/pkg/persistence/middleware"
	"github.com/aretw0/convoy/pkg/ports"
	"github.com/aretw0/convoy/pkg/runner"
	"github.com/aretw0/convoy/pkg/session"
)

// App bundles the wired collaborators of one convoy invocation.
type App struct {
	Agency    *convoy.Agency
	Sessions  *session.Manager
	Runner    *runner.Runner
	Collector *observability.Collector
}

// BuildApp assembles oracle, store, agency and runner from the options,
// loading the agency file when one is given and falling back to the
// built-in travel agency otherwise.
func BuildApp(opts RunOptions, logger *slog.Logger, runnerOpts ...runner.Option) (*App, error) {
	var cfg *config.Config
	if opts.AgencyPath != "" {
		loaded, err := config.Load(opts.AgencyPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	def, err := buildDefinition(cfg)
	if err != nil {
		return nil, err
	}

	oracle, err := buildOracle(opts, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{}

	agencyOpts := []convoy.Option{convoy.WithLogger(logger)}
	if opts.Metrics {
		app.Collector = observability.NewCollector(prometheus.DefaultRegisterer)
		agencyOpts = append(agencyOpts, convoy.WithLifecycleHooks(app.Collector.Hooks()))
	}
	if opts.Debug {
		agencyOpts = append(agencyOpts, convoy.WithLifecycleHooks(debugHooks(logger)))
	}

	app.Agency, err = convoy.New(def, oracle, agencyOpts...)
	if err != nil {
		return nil, err
	}

	app.Sessions, err = buildSessions(opts, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg != nil && cfg.Runner.MaxRetries > 0 {
		runnerOpts = append(runnerOpts, runner.WithRetry(cfg.Runner.MaxRetries, cfg.Runner.Backoff))
	}
	runnerOpts = append(runnerOpts, runner.WithLogger(logger))
	app.Runner = runner.NewRunner(app.Agency, app.Sessions, runnerOpts...)

	return app, nil
}

func buildDefinition(cfg *config.Config) (convoy.TeamDef, error) {
	reg := agency.Capabilities()
	if cfg == nil {
		return agency.Definition(time.Now(), reg), nil
	}
	return cfg.Compile(reg)
}

func buildOracle(opts RunOptions, cfg *config.Config, logger *slog.Logger) (ports.Oracle, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	model, baseURL, temperature := opts.Model, opts.BaseURL, opts.Temperature
	if cfg != nil {
		if model == "" {
			model = cfg.Oracle.Model
		}
		if baseURL == "" {
			baseURL = cfg.Oracle.BaseURL
		}
		if temperature == 0 {
			temperature = cfg.Oracle.Temperature
		}
	}

	oracleOpts := []openai.Option{openai.WithLogger(logger)}
	if model != "" {
		oracleOpts = append(oracleOpts, openai.WithModel(model))
	}
	if baseURL != "" {
		oracleOpts = append(oracleOpts, openai.WithBaseURL(baseURL))
	}
	if temperature > 0 {
		oracleOpts = append(oracleOpts, openai.WithTemperature(temperature))
	}

	return openai.New(apiKey, oracleOpts...), nil
}

func buildSessions(opts RunOptions, cfg *config.Config, logger *slog.Logger) (*session.Manager, error) {
	addr := opts.RedisAddr
	password, db, prefix := "", 0, ""
	var ttl time.Duration
	if cfg != nil && cfg.Store.Type == "redis" {
		if addr == "" {
			addr = cfg.Store.Address
		}
		password = cfg.Store.Password
		db = cfg.Store.DB
		prefix = cfg.Store.Prefix
		ttl = cfg.Store.TTL
	}

	if addr == "" {
		store, err := wrapStore(memory.NewStore())
		if err != nil {
			return nil, err
		}
		return session.NewManager(store, session.WithLogger(logger)), nil
	}

	client := backend.NewClient(&backend.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis unreachable at %s: %w", addr, err)
	}

	lockPrefix := prefix
	if lockPrefix == "" {
		lockPrefix = "convoy:"
	}

	storeOpts := []redis.Option{}
	if ttl > 0 {
		storeOpts = append(storeOpts, redis.WithTTL(ttl))
	}
	if prefix != "" {
		storeOpts = append(storeOpts, redis.WithPrefix(prefix))
	}

	store, err := wrapStore(redis.NewFromClient(client, storeOpts...))
	if err != nil {
		return nil, err
	}

	return session.NewManager(
		store,
		session.WithLogger(logger),
		session.WithLocker(redis.NewLocker(client, lockPrefix)),
	), nil
}

// wrapStore chains persistence middleware configured through the
// environment. CONVOY_ENCRYPTION_KEY holds hex-encoded AES-256 keys,
// active key first, retired rotation keys after it, comma-separated.
// CONVOY_REDACT_PATTERNS holds comma-separated regexes masked in
// persisted content. Redaction runs before encryption.
func wrapStore(store ports.SessionStore) (ports.SessionStore, error) {
	if raw := os.Getenv("CONVOY_ENCRYPTION_KEY"); raw != "" {
		var keys [][]byte
		for _, part := range strings.Split(raw, ",") {
			key, err := hex.DecodeString(strings.TrimSpace(part))
			if err != nil || len(key) != 32 {
				return nil, fmt.Errorf("CONVOY_ENCRYPTION_KEY: keys must be 64 hex characters each")
			}
			keys = append(keys, key)
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    keys[0],
			FallbackKeys: keys[1:],
		})(store)
	}

	if raw := os.Getenv("CONVOY_REDACT_PATTERNS"); raw != "" {
		patterns := strings.Split(raw, ",")
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("CONVOY_REDACT_PATTERNS: %w", err)
			}
		}
		store = middleware.NewRedactionMiddleware(patterns)(store)
	}

	return store, nil
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			logger.Debug("decision", "team", e.Team, "next", e.Decision.Next)
		},
		OnWorkerStart: func(ctx context.Context, e *domain.WorkerEvent) {
			logger.Debug("worker start", "team", e.Team, "worker", e.Worker)
		},
		OnWorkerReturn: func(ctx context.Context, e *domain.WorkerEvent) {
			logger.Debug("worker return", "team", e.Team, "worker", e.Worker)
		},
		OnCapabilityCall: func(ctx context.Context, e *domain.CapabilityEvent) {
			logger.Debug("capability call", "worker", e.Worker, "capability", e.Capability)
		},
		OnCapabilityReturn: func(ctx context.Context, e *domain.CapabilityEvent) {
			if e.IsError {
				logger.Debug("capability return (error)", "capability", e.Capability, "err", e.Output)
			} else {
				logger.Debug("capability return", "capability", e.Capability)
			}
		},
		OnTeamFinish: func(ctx context.Context, e *domain.EventBase) {
			logger.Debug("team finish", "team", e.Team)
		},
	}
}
