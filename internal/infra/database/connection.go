package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB carrega o dialeto junto da conexão. As queries são escritas com $n e
// reescritas para o SQLite.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(driver, dsn string) (*DB, error) {
	dialect := Dialect(strings.ToLower(driver))
	if dialect != Postgres && dialect != SQLite {
		return nil, fmt.Errorf("driver de banco desconhecido: %q", driver)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		// uma conexão só: :memory: é por conexão e o SQLite serializa escrita
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("erro ao aplicar %s: %w", pragma, err)
			}
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

var placeholder = regexp.MustCompile(`\$\d+`)

// q adapta a query ao dialeto. Cada $n aparece uma vez e em ordem, então
// no SQLite vira "?" posicional.
func (d *DB) q(query string) string {
	if d.Dialect == SQLite {
		return placeholder.ReplaceAllString(query, "?")
	}
	return query
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
