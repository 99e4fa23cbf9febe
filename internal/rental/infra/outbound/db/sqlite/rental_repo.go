package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"
)

type RentalRepoSQLite struct {
	db *sql.DB
}

func NewRentalRepoSQLite(db *sql.DB) *RentalRepoSQLite {
	return &RentalRepoSQLite{db: db}
}

// Verificación estática
var _ domain.RentalRepository = (*RentalRepoSQLite)(nil)

// ------------------ Helper DRY para insertar en outbox ------------------

func insertOutboxTx(ctx context.Context, tx *sql.Tx, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox (id,aggregate_type,aggregate_id,event_type,payload,created_at,processed)
		 VALUES (?,?,?,?,?,?,0)`,
		evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(payloadBytes), evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

// ------------------ Métodos ------------------

// Create inserta reserva y evento en transacción
func (r *RentalRepoSQLite) Create(ctx context.Context, rental *domain.Rental, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rentals (id,cart_id,user_id,start_date,end_date,status,total_price,created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		rental.ID.String(), rental.CartID.String(), rental.UserID.String(),
		rental.StartDate, rental.EndDate, string(rental.Status), rental.TotalPrice.String(), rental.CreatedAt,
	); err != nil {
		return err
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateStatus persiste la transición de estado y el evento en transacción
func (r *RentalRepoSQLite) UpdateStatus(ctx context.Context, rental *domain.Rental, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE rentals SET status=? WHERE id=?`,
		string(rental.Status), rental.ID.String(),
	)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrRentalNotFound
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID con manejo de errores en uuid.Parse
func (r *RentalRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at
		FROM rentals WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())

	rental, err := scanRental(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

// applyCriteria traduce criterios a SQL para SQLite (placeholders ?).
func applyCriteria(criteria sharedDomain.Criteria) (string, []interface{}) {
	if criteria == nil {
		return "", nil
	}
	conds := criteria.ToConditions()
	if len(conds) == 0 {
		return "", nil
	}
	var clauses []string
	var args []interface{}
	for _, c := range conds {
		clauses = append(clauses, fmt.Sprintf("%s %s ?", c.Field, c.Op))
		if id, ok := c.Value.(uuid.UUID); ok {
			args = append(args, id.String())
		} else {
			args = append(args, c.Value)
		}
	}
	return strings.Join(clauses, " AND "), args
}

// ListByCriteria recupera reservas aplicando filtros, paginación y ordenamiento.
func (r *RentalRepoSQLite) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.Rental, error) {
	whereSQL, args := applyCriteria(criteria)

	query := `SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at FROM rentals`
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	orderBy := "created_at ASC"
	if sort.Field != "" {
		orderBy = fmt.Sprintf("%s %s", sort.Field, sharedUtils.Ternary(sort.Desc, "DESC", "ASC"))
	}
	query += " ORDER BY " + orderBy

	limit := 50
	offset := 0
	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		if p.Limit > 0 {
			limit = p.Limit
		}
		offset = p.Offset
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

// ListOpen devuelve las reservas pending/active para reconstruir el índice.
func (r *RentalRepoSQLite) ListOpen(ctx context.Context) ([]*domain.Rental, error) {
	query := `SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at
		FROM rentals WHERE status IN (?, ?) ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, string(domain.RentalPending), string(domain.RentalActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

// scanner cubre tanto *sql.Row como *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(s scanner) (*domain.Rental, error) {
	var r domain.Rental
	var idStr, cartStr, userStr, statusStr, priceStr string

	if err := s.Scan(&idStr, &cartStr, &userStr, &r.StartDate, &r.EndDate, &statusStr, &priceStr, &r.CreatedAt); err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		src string
		dst *uuid.UUID
	}{
		{idStr, &r.ID},
		{cartStr, &r.CartID},
		{userStr, &r.UserID},
	} {
		parsed, err := uuid.Parse(pair.src)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in DB: %w", err)
		}
		*pair.dst = parsed
	}

	r.Status = domain.RentalStatus(statusStr)

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price in DB: %w", err)
	}
	r.TotalPrice = price

	return &r, nil
}

// ------------------ Inicialización de DB ------------------

// InitSQLite crea las tablas rentals y outbox si no existen
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS rentals (
            id TEXT PRIMARY KEY,
            cart_id TEXT NOT NULL,
            user_id TEXT NOT NULL,
            start_date DATETIME NOT NULL,
            end_date DATETIME NOT NULL,
            status TEXT NOT NULL,
            total_price TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS outbox (
            id TEXT PRIMARY KEY,
            aggregate_type TEXT NOT NULL,
            aggregate_id TEXT NOT NULL,
            event_type TEXT NOT NULL,
            payload TEXT NOT NULL,
            created_at DATETIME NOT NULL,
            processed BOOLEAN NOT NULL DEFAULT 0
        )
    `)
	return err
}
