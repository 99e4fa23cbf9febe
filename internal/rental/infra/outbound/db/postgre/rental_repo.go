package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	// --- Importaciones del dominio y compartidas ---
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
	"github.com/shopspring/decimal"
)

// RentalRepoPostgres implementa la interfaz RentalRepository para PostgreSQL.
type RentalRepoPostgres struct {
	db *sql.DB
}

// NewRentalRepoPostgres es el constructor del repositorio.
func NewRentalRepoPostgres(db *sql.DB) *RentalRepoPostgres {
	return &RentalRepoPostgres{db: db}
}

// Verificación estática
var _ rentalDomain.RentalRepository = (*RentalRepoPostgres)(nil)

// ------------------ CRUD + Outbox ------------------

// Create inserta una reserva y un evento en una transacción.
func (r *RentalRepoPostgres) Create(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rentals (id, cart_id, user_id, start_date, end_date, status, total_price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rental.ID, rental.CartID, rental.UserID, rental.StartDate, rental.EndDate,
		string(rental.Status), rental.TotalPrice.String(), rental.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateStatus actualiza el estado de una reserva y crea un evento en una transacción.
func (r *RentalRepoPostgres) UpdateStatus(ctx context.Context, rental *rentalDomain.Rental, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE rentals SET status=$1 WHERE id=$2`,
		string(rental.Status), rental.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return rentalDomain.ErrRentalNotFound
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return fmt.Errorf("failed to insert outbox: %w", err)
	}

	return tx.Commit()
}

// ------------------ Lectura ------------------

// GetByID recupera una reserva de la base de datos por su ID.
func (r *RentalRepoPostgres) GetByID(ctx context.Context, id uuid.UUID) (*rentalDomain.Rental, error) {
	query := `SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at
		FROM rentals WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)

	rental, err := scanRental(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rentalDomain.ErrRentalNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}

	return rental, nil
}

// applyCriteria traduce criterios a SQL para Postgres ($1, $2...).
func (r *RentalRepoPostgres) applyCriteria(criteria sharedDomain.Criteria) (string, []interface{}) {
	if criteria == nil {
		return "", nil
	}
	conds := criteria.ToConditions()
	if len(conds) == 0 {
		return "", nil
	}
	var clauses []string
	var args []interface{}
	for i, c := range conds {
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", c.Field, c.Op, i+1))
		args = append(args, c.Value)
	}
	return strings.Join(clauses, " AND "), args
}

// ListByCriteria recupera una lista de reservas aplicando filtros, paginación y ordenamiento.
func (r *RentalRepoPostgres) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*rentalDomain.Rental, error) {
	whereSQL, args := r.applyCriteria(criteria)

	query := "SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at FROM rentals"
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}

	// Añadir ordenamiento y paginación
	argOffset := len(args)
	orderField := "created_at"
	if sort.Field != "" {
		orderField = sort.Field
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderField, sharedUtils.Ternary(sort.Desc, "DESC", "ASC"))

	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argOffset+1, argOffset+2)
		args = append(args, p.Limit, p.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*rentalDomain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

// ListOpen devuelve las reservas que aún ocupan intervalo (pending/active).
func (r *RentalRepoPostgres) ListOpen(ctx context.Context) ([]*rentalDomain.Rental, error) {
	query := `SELECT id, cart_id, user_id, start_date, end_date, status, total_price, created_at
		FROM rentals WHERE status IN ($1, $2) ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query,
		string(rentalDomain.RentalPending), string(rentalDomain.RentalActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []*rentalDomain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(s scanner) (*rentalDomain.Rental, error) {
	var r rentalDomain.Rental
	var statusStr, priceStr string

	if err := s.Scan(&r.ID, &r.CartID, &r.UserID, &r.StartDate, &r.EndDate, &statusStr, &priceStr, &r.CreatedAt); err != nil {
		return nil, err
	}

	r.Status = rentalDomain.RentalStatus(statusStr)

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price in DB: %w", err)
	}
	r.TotalPrice = price

	return &r, nil
}

// ------------------ Inicialización del Esquema ------------------

// InitPostgresRentalSchema crea las tablas 'rentals' y 'outbox' si no existen.
func InitPostgresRentalSchema(db *sql.DB) error {
	_, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS rentals (
        id UUID PRIMARY KEY,
        cart_id UUID NOT NULL,
        user_id UUID NOT NULL,
        start_date TIMESTAMP WITH TIME ZONE NOT NULL,
        end_date TIMESTAMP WITH TIME ZONE NOT NULL,
        status TEXT NOT NULL,
        total_price NUMERIC(12,2) NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create rentals table: %w", err)
	}

	// La tabla Outbox es compartida, pero la definimos aquí por completitud.
	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS outbox (
        id UUID PRIMARY KEY,
        aggregate_type TEXT NOT NULL,
        aggregate_id TEXT NOT NULL,
        event_type TEXT NOT NULL,
        payload JSONB NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL,
        processed BOOLEAN NOT NULL DEFAULT FALSE
    )`)
	return err
}

// ------------------ Helper DRY para insertar en outbox ------------------
func insertOutboxTx(ctx context.Context, tx *sql.Tx, evt sharedDomain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at, processed)
		 VALUES ($1, $2, $3, $4, $5, $6, false)`,
		evt.ID, evt.AggregateType, evt.AggregateID, evt.EventType, payloadBytes, evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}
