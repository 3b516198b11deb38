package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/laofangxose/au-finance-calculators/internal/server"
)

func newServeCmd() *cobra.Command {
	defaults := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as an HTTP API",
		Long: `Serve the calculator as a JSON API.

Endpoints:
  POST /v1/calculate   scenario body, optional ?transform=name:k=v (repeatable)
  POST /v1/compare     {"scenario": {...}, "with": [...], "variants": [...]}
  POST /v1/simple-interest {"principal": ..., "annualRatePct": ..., "termYears": ...}
  GET  /v1/tables      reference tables in use
  GET  /v1/templates   built-in templates and transform names
  GET  /healthz

Flags fall back to NOVATED_ADDR, REDIS_ADDR and NOVATED_RATE_LIMIT, read from
the environment or a .env file in the working directory.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", defaults.Addr, "Listen address (env NOVATED_ADDR)")
	cmd.Flags().String("engine", "http", "HTTP engine: http (net/http with h2c) or fasthttp")
	cmd.Flags().String("redis", "", "Redis address for the shared result cache (env REDIS_ADDR); empty uses an in-process cache")
	cmd.Flags().Float64("rate-limit", defaults.RateLimit, "Requests per second across all clients, 0 disables (env NOVATED_RATE_LIMIT)")
	cmd.Flags().Int("burst", defaults.Burst, "Rate limiter burst size")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "Result cache entry lifetime, 0 disables caching")
	cmd.Flags().Int("cache-entries", defaults.CacheMaxEntries, "Maximum entries held by the in-process result cache")
	cmd.Flags().StringSlice("origins", defaults.AllowedOrigins, "Allowed CORS origins")
	return cmd
}

// serveConfig resolves flags with environment fallbacks for unset ones
func serveConfig(cmd *cobra.Command) (server.Config, string, string, error) {
	cfg := server.DefaultConfig()
	flags := cmd.Flags()

	cfg.Addr, _ = flags.GetString("addr")
	if !flags.Changed("addr") {
		if v := os.Getenv("NOVATED_ADDR"); v != "" {
			cfg.Addr = v
		}
	}

	cfg.RateLimit, _ = flags.GetFloat64("rate-limit")
	if !flags.Changed("rate-limit") {
		if v := os.Getenv("NOVATED_RATE_LIMIT"); v != "" {
			limit, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, "", "", fmt.Errorf("invalid NOVATED_RATE_LIMIT %q: %w", v, err)
			}
			cfg.RateLimit = limit
		}
	}

	redisAddr, _ := flags.GetString("redis")
	if !flags.Changed("redis") {
		redisAddr = os.Getenv("REDIS_ADDR")
	}

	cfg.Burst, _ = flags.GetInt("burst")
	cfg.CacheTTL, _ = flags.GetDuration("cache-ttl")
	cfg.CacheMaxEntries, _ = flags.GetInt("cache-entries")
	if cfg.CacheMaxEntries <= 0 {
		return cfg, "", "", fmt.Errorf("--cache-entries must be positive, got %d", cfg.CacheMaxEntries)
	}
	cfg.AllowedOrigins, _ = flags.GetStringSlice("origins")

	mode, _ := flags.GetString("engine")
	mode = strings.ToLower(mode)
	if mode != "http" && mode != "fasthttp" {
		return cfg, "", "", fmt.Errorf("unknown engine %q (valid: http, fasthttp)", mode)
	}
	return cfg, mode, redisAddr, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// a missing .env is normal
	_ = godotenv.Load()

	cfg, mode, redisAddr, err := serveConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	debugMode, _ := cmd.Flags().GetBool("debug")
	logger := simpleCLILogger{debug: debugMode}
	engine.SetLogger(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache server.ResultCache
	switch {
	case cfg.CacheTTL <= 0:
		logger.Infof("result cache disabled")
	case redisAddr != "":
		rc := server.NewRedisCache(&redis.Options{Addr: redisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warnf("redis at %s unavailable (%v); using in-process cache", redisAddr, err)
			_ = rc.Close()
			cache = server.NewBoundedMemoryCache(cfg.CacheMaxEntries)
		} else {
			logger.Infof("using redis cache at %s", redisAddr)
			defer rc.Close()
			cache = rc
		}
	default:
		cache = server.NewBoundedMemoryCache(cfg.CacheMaxEntries)
	}

	srv, err := server.New(engine, cache, cfg)
	if err != nil {
		return err
	}

	if mode == "fasthttp" {
		return srv.ListenAndServeFast(ctx)
	}
	return srv.ListenAndServe(ctx)
}
