package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// PostgresJournal is the durable Journal. Status transitions are enforced
// in SQL: updates carry the allowed source statuses in the WHERE clause, so
// an illegal transition updates zero rows.
type PostgresJournal struct {
	db *sql.DB
}

func NewPostgresJournal(cred *Credentials) (*PostgresJournal, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	return &PostgresJournal{db: db}, nil
}

func (j *PostgresJournal) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(j.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (j *PostgresJournal) FindByIdempotencyKey(ctx context.Context, key string) (*Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, idempotency_key, status, amount,
		       COALESCE(payment_id, ''), COALESCE(order_id, 0),
		       COALESCE(failure_reason, ''), payload, created_at, updated_at
		FROM checkout_sessions
		WHERE idempotency_key = $1`, key)

	var s Session
	var status string
	err := row.Scan(&s.ID, &s.IdempotencyKey, &status, &s.Amount,
		&s.PaymentID, &s.OrderID, &s.FailureReason, &s.Payload, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query checkout session: %w", err)
	}
	s.Status = domain.CheckoutStatus(status)
	return &s, nil
}

func (j *PostgresJournal) Create(ctx context.Context, session *Session) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (id, idempotency_key, status, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`,
		session.ID, session.IdempotencyKey, session.Status.String(), session.Amount)
	if err != nil {
		return fmt.Errorf("create checkout session: %w", err)
	}
	return nil
}

func (j *PostgresJournal) SetStatus(ctx context.Context, id string, status domain.CheckoutStatus) error {
	return j.guardedUpdate(ctx, status, `
		UPDATE checkout_sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`, id, status.String())
}

func (j *PostgresJournal) SetPayment(ctx context.Context, id, paymentID string) error {
	status := domain.CheckoutStatusPaymentCompleted
	return j.guardedUpdate(ctx, status, `
		UPDATE checkout_sessions
		SET status = $2, payment_id = $4, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`, id, status.String(), paymentID)
}

func (j *PostgresJournal) Complete(ctx context.Context, id string, orderID int64, payload []byte) error {
	status := domain.CheckoutStatusCompleted
	return j.guardedUpdate(ctx, status, `
		UPDATE checkout_sessions
		SET status = $2, order_id = $4, payload = $5, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`, id, status.String(), orderID, payload)
}

func (j *PostgresJournal) Fail(ctx context.Context, id, reason string) error {
	status := domain.CheckoutStatusFailed
	return j.guardedUpdate(ctx, status, `
		UPDATE checkout_sessions
		SET status = $2, failure_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`, id, status.String(), reason)
}

func (j *PostgresJournal) Close() error {
	return j.db.Close()
}

// guardedUpdate runs an update whose WHERE clause restricts the current
// status to the legal transition sources for the target status. Zero rows
// means the session is missing or the transition is illegal.
func (j *PostgresJournal) guardedUpdate(ctx context.Context, to domain.CheckoutStatus, query string, args ...any) error {
	sources := transitionSources(to)
	fullArgs := make([]any, 0, len(args)+1)
	fullArgs = append(fullArgs, args[0], args[1], pq.Array(sources))
	fullArgs = append(fullArgs, args[2:]...)

	res, err := j.db.ExecContext(ctx, query, fullArgs...)
	if err != nil {
		return fmt.Errorf("update checkout session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if scanErr := j.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM checkout_sessions WHERE id = $1)`, args[0]).Scan(&exists); scanErr == nil && !exists {
			return ErrSessionNotFound
		}
		return ErrIllegalTransition
	}
	return nil
}

func transitionSources(to domain.CheckoutStatus) []string {
	all := []domain.CheckoutStatus{
		domain.CheckoutStatusInitiated,
		domain.CheckoutStatusPaymentPending,
		domain.CheckoutStatusPaymentCompleted,
		domain.CheckoutStatusCompleted,
		domain.CheckoutStatusFailed,
	}
	var sources []string
	for _, from := range all {
		if domain.CanTransitionTo(from, to) {
			sources = append(sources, from.String())
		}
	}
	return sources
}
