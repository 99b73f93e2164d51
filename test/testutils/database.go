// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/flavorgraph/internal/infrastructure/config"
	gormstore "github.com/alchemorsel/flavorgraph/internal/infrastructure/persistence/gorm"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestDatabase provides a migrated test database with cleanup
type TestDatabase struct {
	Container testcontainers.Container
	GormDB    *gorm.DB
	Config    *config.Config
	t         *testing.T
}

// DatabaseConfig holds postgres container configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// SetupPostgresDatabase starts a postgres container and migrates it
func SetupPostgresDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	dbCfg := DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "flavorgraph_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        dbCfg.Image,
				ExposedPorts: []string{dbCfg.Port + "/tcp"},
				Env: map[string]string{
					"POSTGRES_DB":       dbCfg.Database,
					"POSTGRES_USER":     dbCfg.Username,
					"POSTGRES_PASSWORD": dbCfg.Password,
				},
				WaitingFor: wait.ForAll(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(60*time.Second),
					wait.ForListeningPort(dbCfg.Port+"/tcp"),
				),
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, dbCfg.Port)
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         port,
		Database:     dbCfg.Database,
		Username:     dbCfg.Username,
		Password:     dbCfg.Password,
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}}

	db, err := gormstore.SetupDatabase(cfg, zap.NewNop())
	require.NoError(t, err, "Failed to set up postgres database")

	td := &TestDatabase{Container: container, GormDB: db, Config: cfg, t: t}
	t.Cleanup(td.Cleanup)
	return td
}

// TruncateAll removes every stored extension
func (td *TestDatabase) TruncateAll() {
	td.t.Helper()

	for _, model := range []interface{}{&gormstore.EdgeModel{}, &gormstore.IngredientModel{}} {
		err := td.GormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
		require.NoError(td.t, err)
	}
}

// Cleanup closes the database and terminates the container
func (td *TestDatabase) Cleanup() {
	if td.GormDB != nil {
		if err := gormstore.Close(td.GormDB); err != nil {
			td.t.Logf("Failed to close database: %v", err)
		}
		td.GormDB = nil
	}

	if td.Container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := td.Container.Terminate(ctx); err != nil {
			td.t.Logf("Failed to terminate container: %v", err)
		}
		td.Container = nil
	}
}
