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

	"github.com/davicafu/rentacarritos/internal/catalog/domain"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedQuery "github.com/davicafu/rentacarritos/shared/platform/query"
	sharedUtils "github.com/davicafu/rentacarritos/shared/utils"
)

type CartRepoSQLite struct {
	db *sql.DB
}

func NewCartRepoSQLite(db *sql.DB) *CartRepoSQLite {
	return &CartRepoSQLite{db: db}
}

// Verificación estática
var _ domain.CartRepository = (*CartRepoSQLite)(nil)

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

// Create inserta carrito y evento en transacción
func (r *CartRepoSQLite) Create(ctx context.Context, c *domain.CartModule, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Se ignora si el Commit() es exitoso

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO carts (id,type,nombre,descripcion,price_per_day,image_url,available,created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		c.ID.String(), string(c.Type), c.Nombre, c.Descripcion, c.PricePerDay.String(), c.ImageURL, c.Available, c.CreatedAt,
	); err != nil {
		return err
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID con manejo de errores en uuid.Parse
func (r *CartRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*domain.CartModule, error) {
	query := `SELECT id, type, nombre, descripcion, price_per_day, image_url, available, created_at
		FROM carts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())

	cart, err := scanCart(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// SetAvailability muta el flag y registra el evento en transacción
func (r *CartRepoSQLite) SetAvailability(ctx context.Context, id uuid.UUID, available bool, evt sharedDomain.OutboxEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE carts SET available=? WHERE id=?`,
		available, id.String(),
	)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrCartNotFound
	}

	if err := insertOutboxTx(ctx, tx, evt); err != nil {
		return err
	}

	return tx.Commit()
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
		args = append(args, normalizeArg(c.Value))
	}
	return strings.Join(clauses, " AND "), args
}

// normalizeArg convierte tipos de dominio a lo que el driver entiende.
func normalizeArg(v interface{}) interface{} {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case decimal.Decimal:
		return val.String()
	default:
		return v
	}
}

// ListByCriteria recupera carritos aplicando filtros, paginación y ordenamiento.
// Sin orden explícito devuelve el orden de alta en el catálogo.
func (r *CartRepoSQLite) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*domain.CartModule, error) {
	whereSQL, args := applyCriteria(criteria)

	query := `SELECT id, type, nombre, descripcion, price_per_day, image_url, available, created_at FROM carts`
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

	var carts []*domain.CartModule
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}

	return carts, rows.Err()
}

// scanner cubre tanto *sql.Row como *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCart(s scanner) (*domain.CartModule, error) {
	var c domain.CartModule
	var idStr, typeStr, priceStr string

	if err := s.Scan(&idStr, &typeStr, &c.Nombre, &c.Descripcion, &priceStr, &c.ImageURL, &c.Available, &c.CreatedAt); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in DB: %w", err)
	}
	c.ID = parsedID
	c.Type = domain.CartType(typeStr)

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price in DB: %w", err)
	}
	c.PricePerDay = price

	return &c, nil
}

// ------------------ Inicialización de DB ------------------

// InitSQLite crea las tablas carts y outbox si no existen
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS carts (
            id TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            nombre TEXT NOT NULL,
            descripcion TEXT NOT NULL,
            price_per_day TEXT NOT NULL,
            image_url TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1,
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
