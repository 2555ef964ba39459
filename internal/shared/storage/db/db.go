package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"cv-analyzer/internal/shared/telemetry"
)

// Profile selects pool defaults for the kind of process opening the database.
type Profile int

const (
	ProfileServer Profile = iota
	ProfileLambda
	ProfileMigrate
)

// PoolSettings tunes the *sql.DB connection pool.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

var (
	sqlOpen = sql.Open

	sharedMu sync.Mutex
	sharedDB *sql.DB
)

// IsLambdaRuntime reports whether the process runs inside AWS Lambda.
func IsLambdaRuntime() bool {
	return strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != ""
}

// CurrentProfile returns ProfileLambda inside Lambda and ProfileServer otherwise.
func CurrentProfile() Profile {
	if IsLambdaRuntime() {
		return ProfileLambda
	}
	return ProfileServer
}

// Defaults returns the pool settings for p. Lambda keeps the pool tiny since
// each concurrent invocation holds its own connections.
func (p Profile) Defaults() PoolSettings {
	switch p {
	case ProfileLambda:
		return PoolSettings{MaxOpen: 2, MaxIdle: 1, MaxLifetime: 15 * time.Minute, MaxIdleTime: 30 * time.Second, PingTimeout: 3 * time.Second}
	case ProfileMigrate:
		return PoolSettings{MaxOpen: 1, MaxIdle: 1, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second}
	default:
		return PoolSettings{MaxOpen: 10, MaxIdle: 5, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second}
	}
}

// SettingsFromEnv starts from p's defaults and applies any DB_* overrides.
func SettingsFromEnv(p Profile) PoolSettings {
	s := p.Defaults()
	envInt("DB_MAX_OPEN_CONNS", &s.MaxOpen)
	envInt("DB_MAX_IDLE_CONNS", &s.MaxIdle)
	envDuration("DB_CONN_MAX_LIFETIME", &s.MaxLifetime)
	envDuration("DB_CONN_MAX_IDLE_TIME", &s.MaxIdleTime)
	envDuration("DB_PING_TIMEOUT", &s.PingTimeout)
	return s
}

// Open connects to Postgres through pgx and pings it before returning.
func Open(ctx context.Context, dsn string, s PoolSettings) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	conn, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.apply(conn)

	timeout := s.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := conn.Stats()
	telemetry.Info("db.opened", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return conn, nil
}

// Shared returns one *sql.DB per process so warm Lambda invocations reuse
// the pool. A failed open is not cached; the next call tries again.
func Shared(ctx context.Context, dsn string, s PoolSettings) (*sql.DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB != nil {
		telemetry.Debug("db.shared_reuse", nil)
		return sharedDB, nil
	}
	conn, err := Open(ctx, dsn, s)
	if err != nil {
		return nil, err
	}
	sharedDB = conn
	return sharedDB, nil
}

func (s PoolSettings) apply(conn *sql.DB) {
	maxOpen, maxIdle, lifetime := s.MaxOpen, s.MaxIdle, s.MaxLifetime
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxLifetime(lifetime)
	if s.MaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(s.MaxIdleTime)
	}
}

func envInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("db.bad_env", map[string]any{"key": key, "error": err})
		return
	}
	*dst = v
}

func envDuration(key string, dst *time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.bad_env", map[string]any{"key": key, "error": err})
		return
	}
	*dst = v
}
