//go:build e2e

// Package e2e boots the payment API over a disposable Postgres database.
// Every test binary shares one container and gets its own database in it.
package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"proximity-pay/cmd/bootstrap"
	"proximity-pay/cmd/bootstrap/components"
	"proximity-pay/internal/infra/db"
	"proximity-pay/internal/pkg/config"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	postgresImage    = "postgres:17"
	postgresUser     = "pay"
	postgresPassword = "pay-e2e"
	postgresPort     = nat.Port("5432/tcp")
)

// schemaFiles are applied in order to each fresh database. Paths are
// relative to the module root.
var schemaFiles = []string{
	"migrations/001_initial_schema.sql",
}

// ledgerServer is the container shared by every suite in the process. The
// reaper removes it when the test binary exits.
var ledgerServer struct {
	once sync.Once
	host string
	port string
	err  error
}

type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
	// Ledger books deposits directly, for top-ups a test needs mid-flow.
	Ledger commands.LedgerCommands
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	dbCfg := newPaymentDatabase(t)

	pool, closePool, err := db.Connect(dbCfg)
	require.NoError(t, err, "connect %s", dbCfg.DBName)
	t.Cleanup(closePool)

	require.NoError(t, applySchema(pool), "apply schema to %s", dbCfg.DBName)

	cfg := config.NewTestConfig()
	cfg.DB = dbCfg

	s.DB = pool
	s.Config = cfg
	s.Router, s.Ledger = startPaymentAPI(t, pool, cfg)
}

// SetupSubTest empties every table so each t.Run starts from no users.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}

// startPaymentAPI wires the auth, session and wallet stack on top of an
// already migrated pool. Telemetry and the listener are left out; tests
// drive the router directly.
func startPaymentAPI(t *testing.T, pool *pgxpool.Pool, cfg config.Config) (*gin.Engine, commands.LedgerCommands) {
	t.Helper()

	var (
		router *gin.Engine
		ledger commands.LedgerCommands
	)
	app := fx.New(
		fx.Supply(pool, cfg),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.ClockModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router, &ledger),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start payment api")

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			t.Logf("stop payment api: %v", err)
		}
	})

	return router, ledger
}

// newPaymentDatabase creates a uniquely named database on the shared server
// and drops it when the suite finishes.
func newPaymentDatabase(t *testing.T) config.DBConfig {
	t.Helper()

	host, port := sharedPostgres(t)
	name := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		postgresUser, postgresPassword, host, port)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "open admin pool")
	defer admin.Close()

	// CREATE DATABASE copies template1 and fails while another session
	// holds it, which happens when packages run in parallel.
	err = createDatabase(ctx, admin, name)
	require.NoError(t, err, "create database %s", name)

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		dropper, err := pgxpool.New(dropCtx, adminDSN)
		if err != nil {
			t.Logf("drop %s: %v", name, err)
			return
		}
		defer dropper.Close()
		if _, err := dropper.Exec(dropCtx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			t.Logf("drop %s: %v", name, err)
		}
	})

	return config.DBConfig{
		Host:     host,
		Port:     port,
		User:     postgresUser,
		Password: postgresPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
}

func createDatabase(ctx context.Context, admin *pgxpool.Pool, name string) error {
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		if _, err = admin.Exec(ctx, "CREATE DATABASE "+name); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
		}
	}
	return err
}

func applySchema(pool *pgxpool.Pool) error {
	root, err := moduleRoot()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, rel := range schemaFiles {
		ddl, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("exec %s: %w", rel, err)
		}
	}
	return nil
}

// moduleRoot walks up from the package directory `go test` runs in until it
// finds go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// sharedPostgres starts the server on first use and returns its mapped
// address. A failed start is remembered so later suites fail fast.
func sharedPostgres(t *testing.T) (string, string) {
	t.Helper()

	ledgerServer.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        postgresImage,
				ExposedPorts: []string{string(postgresPort)},
				Env: map[string]string{
					"POSTGRES_USER":     postgresUser,
					"POSTGRES_PASSWORD": postgresPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
				// Settlement tests commit in tight loops; durability is irrelevant here.
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
						postgresUser, postgresPassword, host, port.Port())
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"app": "proximity-pay", "purpose": "e2e"},
			},
			Started: true,
		})
		if err != nil {
			ledgerServer.err = fmt.Errorf("start %s: %w", postgresImage, err)
			return
		}

		host, err := ctr.Host(ctx)
		if err != nil {
			ledgerServer.err = fmt.Errorf("container host: %w", err)
			return
		}
		mapped, err := ctr.MappedPort(ctx, postgresPort)
		if err != nil {
			ledgerServer.err = fmt.Errorf("container port: %w", err)
			return
		}
		ledgerServer.host, ledgerServer.port = host, mapped.Port()
	})

	require.NoError(t, ledgerServer.err)
	return ledgerServer.host, ledgerServer.port
}
