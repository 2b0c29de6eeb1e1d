package database

import (
	"database/sql"
	"embed"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/quickplate/quickplate/config"
)

// QuickPlate is the shared handle every dbhelper function runs against.
var QuickPlate *sql.DB

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens the MySQL pool and verifies connectivity. Admin traffic is
// low volume, so the pool is kept small and idle connections are dropped.
func Connect(cfg config.DBConfig) error {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}

	QuickPlate = db
	return nil
}

// ConnectAndMigrate opens the pool and applies all embedded migrations.
func ConnectAndMigrate(cfg config.DBConfig) error {
	if err := Connect(cfg); err != nil {
		return err
	}
	return migrateUp(cfg)
}

func migrateUp(cfg config.DBConfig) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to load embedded migrations")
	}

	// Migrations need multiStatements, which the application pool does not
	// carry; use a dedicated connection.
	db, err := sql.Open("mysql", cfg.DSN()+"&multiStatements=true")
	if err != nil {
		return errors.Wrap(err, "failed to open migration connection")
	}
	defer db.Close()

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to prepare migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "failed to initialize migrations")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to run migrations")
	}

	logrus.Info("database migrated")
	return nil
}

// Shutdown closes the shared handle.
func Shutdown() error {
	if QuickPlate == nil {
		return nil
	}
	return QuickPlate.Close()
}

// Tx runs fn inside a transaction. The transaction is rolled back on error
// or panic and committed otherwise, so no exit path leaks the connection.
func Tx(fn func(tx *sql.Tx) error) error {
	tx, err := QuickPlate.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("transaction rollback failed")
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

// MySQL server error numbers for constraint failures.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

// IsDuplicateErr reports whether err is a unique-key violation.
func IsDuplicateErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

// IsConstraintErr reports whether err is a foreign-key violation.
func IsConstraintErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlErrRowIsReferenced || mysqlErr.Number == mysqlErrNoReferencedRow
}
