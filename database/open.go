package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mosaic-folio/backend/config"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the database selected by DB_TYPE and registers read
// replicas listed in DB_REPLICA_DSNS.
func Open(c map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(c, "DB_TYPE", "postgres")

	var dialector gorm.Dialector
	switch dbType {
	case "postgres":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				config.GetString(c, "DB_HOST", "localhost"),
				config.GetString(c, "DB_USER", "postgres"),
				config.GetString(c, "DB_PASSWORD", "postgres"),
				config.GetString(c, "DB_NAME", "mosaic"),
				config.GetString(c, "DB_PORT", "5432"),
				config.GetString(c, "DB_SSLMODE", "disable"),
			)
		}
		dialector = postgres.New(postgres.Config{DSN: dsn})
	case "supa":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		// Supabase's pooler does not support prepared statements.
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		return OpenSQLite(config.GetString(c, "SQLITE_PATH", "mosaic.db"))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	db, err := gorm.Open(dialector, gormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if replicas := config.GetStringSlice(c, "DB_REPLICA_DSNS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, dsn := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{DSN: dsn}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          dialectors,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: true,
		}))
		if err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(dialectors)).Msg("Read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	return db, nil
}

// OpenSQLite opens a SQLite database at path with foreign keys enforced.
// ":memory:" yields a private in-memory database pinned to one connection;
// file databases run in WAL mode with a small pool, writers waiting on the
// busy timeout.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := path == ":memory:"
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if memory {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.Silent))
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if memory {
		// an in-memory database only exists on the connection that created it
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(sqliteFileConns)
		sqlDB.SetMaxIdleConns(sqliteFileConns)
	}
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

const sqliteFileConns = 4

func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             2 * time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
	}
}
