package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/env"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// Config describes how to reach the database and how large the shared
// connection pool may grow.
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// Path is the database file for the sqlite driver.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	LogLevel   logger.LogLevel
	MaxRetries int
	RetryDelay time.Duration
}

// ConfigFromEnv reads DB_* settings.
func ConfigFromEnv() Config {
	driver := env.GetEnv("DB_DRIVER", DriverMySQL)
	defaultPort := "3306"
	if driver == DriverPostgres {
		defaultPort = "5432"
	}

	level := logger.Warn
	if env.IsDev() {
		level = logger.Info
	}

	return Config{
		Driver:          driver,
		Host:            env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:            env.GetEnv("DB_PORT", defaultPort),
		User:            env.GetEnv("DB_USER", ""),
		Password:        env.GetEnv("DB_PASSWORD", ""),
		Name:            env.GetEnv("DB_NAME", "reviewdesk"),
		Path:            env.GetEnv("DB_PATH", "reviewdesk.db"),
		MaxOpenConns:    env.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    env.GetEnvInt("DB_MAX_IDLE_CONNS", 30),
		ConnMaxLifetime: env.GetEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		LogLevel:        level,
		MaxRetries:      maxRetries,
		RetryDelay:      retryDelay,
	}
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL:
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name)
		return mysql.New(mysql.Config{
			DSN:                       dsn,  // data source name
			DefaultStringSize:         256,  // default size for string fields
			DisableDatetimePrecision:  true, // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true, // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true, // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,
		}), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.Host, c.User, c.Password, c.Name, c.Port)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(SQLiteDSN(c.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// SQLiteDSN enables foreign keys, which SQLite leaves off by default, and
// takes the write lock when a transaction begins so concurrent writers wait
// for each other instead of failing on lock upgrade.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}

// Open connects once and configures the pool. Every repository shares the
// returned handle; each operation borrows its own connection from the pool.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the tables used by the repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.ReportInspector{},
		&models.Archive{},
	)
}

// SetupDatabase opens the pool with retries and prepares the schema. It
// panics when the database stays unreachable.
func SetupDatabase(cfg Config) *gorm.DB {
	return setup(cfg, Migrate)
}

func setup(cfg Config, migrate func(*gorm.DB) error) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		db, err = Open(cfg)
		if err == nil {
			if err = migrate(db); err == nil {
				log.Infof("[Database] Connected using %s driver", cfg.Driver)
				return db
			}
			_ = Close(db)
		}

		log.Warnf("[Database] Failed to connect to database (try %d/%d): %v", i+1, attempts, err)
		if i < attempts-1 {
			log.Infof("[Database] Retrying in %v...", cfg.RetryDelay)
			time.Sleep(cfg.RetryDelay)
		}
	}

	panic(err)
}

// Close releases the pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
