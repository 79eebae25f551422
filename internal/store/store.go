package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/notify"

	// Postgres driver, registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseMu guards goose's package-level dialect and filesystem settings.
var gooseMu sync.Mutex

// Store holds the database handle and hands out tenant-aware repositories.
type Store struct {
	db      *sqlx.DB
	dialect string
	pub     notify.Publisher
	log     *logger.Logger
	loc     *time.Location
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sets where change events go after each successful write.
func WithPublisher(p notify.Publisher) Option {
	return func(s *Store) { s.pub = p }
}

// WithLogger sets the store logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithLocation sets the location calendar dates are read back in.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithClock sets the clock used to stamp change events.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// IsPostgresDSN reports whether dsn addresses a Postgres server rather
// than a SQLite file.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to dsn and runs pending migrations. A postgres:// DSN uses
// pgx; anything else is a SQLite path or URI, which gets the recommended
// pragmas.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{
		pub: notify.Nop{},
		loc: time.Local,
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNop(s.log).With("component", "store")

	driver, gooseDialect := "sqlite", "sqlite3"
	s.dialect = dialect.SQLite
	if IsPostgresDSN(dsn) {
		driver, gooseDialect = "pgx", "postgres"
		s.dialect = dialect.Postgres
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if s.dialect == dialect.SQLite {
		// One connection keeps per-connection pragmas in effect and
		// serializes writers.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := migrate(context.Background(), db.DB, gooseDialect, s.log); err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the ent dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Subjects returns the subject and topic repository.
func (s *Store) Subjects() SubjectRepo {
	return &subjectRepo{s: s}
}

// Blocks returns the block repository.
func (s *Store) Blocks() BlockRepo {
	return &blockRepo{s: s}
}

// Alerts returns the alert repository.
func (s *Store) Alerts() AlertRepo {
	return &alertRepo{s: s}
}

// Settings returns the settings repository.
func (s *Store) Settings() SettingsRepo {
	return &settingsRepo{s: s}
}

// Scope returns a view bound to tenant.
func (s *Store) Scope(tenant Tenant) *Scope {
	return NewScope(s.Subjects(), s.Blocks(), tenant)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB, gooseDialect string, log *logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output to the store logger at debug level.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// builder returns an ent SQL builder for the store's dialect.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// querier is any ent builder that renders to SQL.
type querier interface {
	Query() (string, []any)
}

func (s *Store) exec(ctx context.Context, e sqlx.ExecerContext, q querier) (int64, error) {
	query, args := q.Query()
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) selectRows(ctx context.Context, qr sqlx.QueryerContext, dest any, q querier) error {
	query, args := q.Query()
	return sqlx.SelectContext(ctx, qr, dest, query, args...)
}

func (s *Store) getRow(ctx context.Context, qr sqlx.QueryerContext, dest any, q querier) error {
	query, args := q.Query()
	err := sqlx.GetContext(ctx, qr, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// runInTx runs fn in a transaction, rolling back on error or panic.
func (s *Store) runInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// publish announces a committed write. Delivery failures are only logged.
func (s *Store) publish(ctx context.Context, tenant Tenant, c notify.Collection, op notify.Op, id string) {
	ev := notify.Event{Tenant: string(tenant), Collection: c, Op: op, ID: id, At: s.now()}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("publish change event", "tenant", tenant, "collection", c, "op", op, "error", err)
	}
}

func (s *Store) tenantEQ(tenant Tenant) *entsql.Predicate {
	return entsql.EQ("tenant", string(tenant))
}

// millisArg stores t as unix milliseconds, nil meaning NULL.
func millisArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func (s *Store) fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).In(s.loc)
	return &t
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYPLAN_DB environment variable
// 2. $XDG_DATA_HOME/studyplan/studyplan.db
// 3. ~/.local/share/studyplan/studyplan.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYPLAN_DB"); p != "" {
		if IsPostgresDSN(p) {
			return p, nil
		}
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studyplan", "studyplan.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
