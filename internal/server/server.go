// Package server orchestrates all components: NATS client, rules, registry,
// dispatcher, audit log, HTTP status pages.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	comms "github.com/nats-io/nats.go"

	"github.com/miktos/nexus-dispatch/internal/config"
	"github.com/miktos/nexus-dispatch/pkg/commsutil"
	"github.com/miktos/nexus-dispatch/pkg/db"
	"github.com/miktos/nexus-dispatch/pkg/dispatch"
	"github.com/miktos/nexus-dispatch/pkg/engine"
	"github.com/miktos/nexus-dispatch/pkg/events"
	"github.com/miktos/nexus-dispatch/pkg/matcher"
	"github.com/miktos/nexus-dispatch/pkg/rules"
	"github.com/miktos/nexus-dispatch/pkg/skill"
	"github.com/miktos/nexus-dispatch/pkg/skills"
)

const logPrefix = "server:server"

// Server is the nexus-dispatch orchestrator.
type Server struct {
	cfg        *config.Config
	nc         *comms.Conn
	pool       *pgxpool.Pool
	repo       *db.Repository
	httpServer *http.Server
	registry   *skill.Registry
	matcher    *matcher.Matcher
	disp       *dispatch.Dispatcher
}

// Run starts the server, blocks until shutdown signal, then cleans up.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("%s - failed to load config: %w", logPrefix, err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info(fmt.Sprintf("%s - Starting nexus-dispatch", logPrefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Server{cfg: cfg}

	// Step 1: Load the rule set and build the skill registry
	rulesCfg, err := rules.LoadRulesConfig(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("%s - failed to load rules: %w", logPrefix, err)
	}

	eng := engine.NewSim()
	registry := skill.NewRegistry()
	if err := skills.RegisterAll(registry, eng); err != nil {
		return fmt.Errorf("%s - failed to register skill library: %w", logPrefix, err)
	}
	s.registry = registry

	// Warn about rules targeting skills that were never registered; the
	// dispatcher handles the miss defensively, but it is a config smell.
	for _, r := range rulesCfg.Rules {
		if _, err := registry.Resolve(r.Skill); err != nil {
			slog.Warn(fmt.Sprintf("%s - rule %q targets unregistered skill %q", logPrefix, r.Name, r.Skill))
		}
	}

	s.matcher = matcher.NewMatcher(rulesCfg.ToMatcherRules(), matcher.Config{MinConfidence: cfg.MinConfidence})
	slog.Info(fmt.Sprintf("%s - Loaded %d rules for %d skills", logPrefix, len(rulesCfg.Rules), registry.Len()))

	// Step 2: Connect to NATS
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName)
	if err != nil {
		return fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}
	s.nc = nc

	// Step 3: Connect to the audit database when configured
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			nc.Close()
			return fmt.Errorf("%s - failed to connect to database: %w", logPrefix, err)
		}
		s.pool = pool

		if cfg.RunMigrations {
			migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
			if err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to load migrations: %w", logPrefix, err)
			}
			if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
				pool.Close()
				nc.Close()
				return fmt.Errorf("%s - failed to run migrations: %w", logPrefix, err)
			}
		}
		s.repo = db.NewRepository(pool)
	} else {
		slog.Info(fmt.Sprintf("%s - DATABASE_URL not set, audit log disabled", logPrefix))
	}

	// Step 4: Create the dispatcher with the COMMS event publisher
	publisherOpts := &events.CommsPublisherOpts{}
	if cfg.EventSubject != "" {
		publisherOpts.GlobalSubject = cfg.EventSubject
	}
	s.disp = dispatch.NewDispatcher(dispatch.NewDispatcherParams{
		Registry:  registry,
		Matcher:   s.matcher,
		Publisher: events.NewCommsPublisher(nc, publisherOpts),
	})

	// Step 5: Subscribe to the dispatch subject
	dispatchSubject := cfg.DispatchSubject
	if dispatchSubject == "" {
		dispatchSubject = commsutil.SubjectDispatch
	}

	sub, err := nc.Subscribe(dispatchSubject, s.handleDispatchMsg(ctx))
	if err != nil {
		s.closeAll()
		return fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, dispatchSubject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, dispatchSubject))

	// Step 6: Start HTTP status server
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome())
	mux.HandleFunc("/skill/", s.handleSkillDetail())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthCheckTimeout)
		defer cancel()
		h := s.health(healthCtx)
		w.Header().Set("Content-Type", "application/json")
		if h.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(h)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	s.httpServer = &http.Server{Addr: httpAddr, Handler: mux}
	go func() {
		slog.Info(fmt.Sprintf("%s - HTTP status server listening on %s", logPrefix, httpAddr))
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s - HTTP server error: %v", logPrefix, err))
		}
	}()

	slog.Info(fmt.Sprintf("%s - Nexus-dispatch is ready", logPrefix))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", logPrefix, sig))

	// Graceful shutdown
	sub.Unsubscribe()
	s.httpServer.Shutdown(ctx)
	s.nc.Drain()
	if s.pool != nil {
		s.pool.Close()
	}

	slog.Info(fmt.Sprintf("%s - Shutdown complete", logPrefix))
	return nil
}

func (s *Server) closeAll() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}

// handleDispatchMsg handles one command request from the dispatch subject.
func (s *Server) handleDispatchMsg(ctx context.Context) comms.MsgHandler {
	requestTimeout := s.cfg.RequestTimeout
	return func(msg *comms.Msg) {
		var req dispatch.CommandRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", logPrefix, err))
			resp := &dispatch.CommandResponse{
				Envelope: dispatch.Envelope{
					Status:  dispatch.StatusError,
					Message: "failed to decode request",
					Data:    map[string]any{},
					Error:   &dispatch.ErrorDetail{Kind: dispatch.KindNoMatchingSkill},
				},
			}
			data, _ := json.Marshal(resp)
			msg.Respond(data)
			return
		}

		// Per-request context; a tighter client deadline wins.
		timeout := requestTimeout
		if req.TimeoutMs > 0 && time.Duration(req.TimeoutMs)*time.Millisecond < timeout {
			timeout = time.Duration(req.TimeoutMs) * time.Millisecond
		}
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		env, match := s.disp.DispatchWithMatch(reqCtx, req.Command)
		s.recordDispatch(req.Command, match, env)

		resp := &dispatch.CommandResponse{
			ID:         req.ID,
			Skill:      match.Skill,
			Confidence: match.Confidence,
			Envelope:   *env,
		}
		data, err := json.Marshal(resp)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
			return
		}
		msg.Respond(data)
	}
}

// recordDispatch appends the outcome to the audit log when one is configured.
// Audit failures are logged and never affect the response.
func (s *Server) recordDispatch(command string, match matcher.MatchResult, env *dispatch.Envelope) {
	if s.repo == nil || env == nil {
		return
	}
	// The request context may already be expired; give the write its own.
	auditCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	params := db.InsertDispatchParams{
		Command:       command,
		Skill:         match.Skill,
		Category:      match.Category,
		Status:        env.Status,
		Confidence:    match.Confidence,
		Message:       env.Message,
		ExecutionTime: env.ExecutionTime,
	}
	if env.Error != nil {
		params.ErrorKind = env.Error.Kind
		params.ErrorField = env.Error.Field
	}
	if _, err := s.repo.InsertDispatch(auditCtx, params); err != nil {
		slog.Warn(fmt.Sprintf("%s - audit insert failed: %v", logPrefix, err))
	}
}

// healthOutput is the /health response body.
type healthOutput struct {
	Status    string       `json:"status"`
	Checks    healthChecks `json:"checks"`
	Timestamp string       `json:"timestamp"`
}

type healthChecks struct {
	COMMS    bool  `json:"comms"`
	Skills   int   `json:"skills"`
	Database *bool `json:"database,omitempty"`
}

// DatabaseChecked reports whether an audit database check was performed.
func (h *healthOutput) DatabaseChecked() bool { return h.Checks.Database != nil }

// DatabaseOK reports whether the audit database check passed.
func (h *healthOutput) DatabaseOK() bool {
	return h.Checks.Database != nil && *h.Checks.Database
}

func (s *Server) health(ctx context.Context) *healthOutput {
	out := &healthOutput{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	out.Checks.COMMS = s.nc != nil && s.nc.IsConnected()
	out.Checks.Skills = s.registry.Len()
	if !out.Checks.COMMS {
		out.Status = "unhealthy"
	}
	if s.repo != nil {
		ok := s.repo.Ping(ctx) == nil
		out.Checks.Database = &ok
		if !ok {
			out.Status = "unhealthy"
		}
	}
	return out
}
