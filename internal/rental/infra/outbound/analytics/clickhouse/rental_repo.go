package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RentalAnalyticsRepo implementa la interfaz RentalAnalyticsRepository para ClickHouse.
type RentalAnalyticsRepo struct {
	db *sql.DB
}

// NewRentalAnalyticsRepo es el constructor.
func NewRentalAnalyticsRepo(addr string, dbName string) (*RentalAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &RentalAnalyticsRepo{db: conn}, nil
}

// LogBatch inserta un lote de reservas en ClickHouse. Esta es la forma más eficiente.
func (r *RentalAnalyticsRepo) LogBatch(ctx context.Context, rentals []*rentalDomain.Rental) error {
	// ClickHouse funciona mejor con inserciones en lotes.
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Preparamos la sentencia de inserción.
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO rentals_log (id, cart_id, user_id, start_date, end_date, status, total_price, created_at, event_time)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	eventTime := time.Now()
	for _, rental := range rentals {
		price, _ := rental.TotalPrice.Float64()
		if _, err := stmt.ExecContext(
			ctx,
			rental.ID,
			rental.CartID,
			rental.UserID,
			rental.StartDate,
			rental.EndDate,
			string(rental.Status),
			price,
			rental.CreatedAt,
			eventTime,
		); err != nil {
			// Si un registro falla, hacemos rollback de todo el lote.
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for rental %s: %w", rental.ID, err)
		}
	}

	return tx.Commit()
}

// GetDailyRentalTrend agrega creaciones y cancelaciones por día natural.
func (r *RentalAnalyticsRepo) GetDailyRentalTrend(ctx context.Context, start, end time.Time) ([]rentalDomain.DailyRentalTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(status = 'pending') AS created,
			countIf(status = 'cancelled') AS cancelled
		FROM rentals_log
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []rentalDomain.DailyRentalTrend
	for rows.Next() {
		var trend rentalDomain.DailyRentalTrend
		if err := rows.Scan(&trend.Day, &trend.CreatedCount, &trend.CancelledCount); err != nil {
			return nil, err
		}
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// InitSchema crea la tabla en ClickHouse si no existe.
func (r *RentalAnalyticsRepo) InitSchema() error {
	// Tabla optimizada para analítica: particionada por mes y ordenada
	// por los campos de consulta más habituales.
	query := `
		CREATE TABLE IF NOT EXISTS rentals_log (
			id          UUID,
			cart_id     UUID,
			user_id     UUID,
			start_date  DateTime64(3),
			end_date    DateTime64(3),
			status      String,
			total_price Float64,
			created_at  DateTime64(3),
			event_time  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (cart_id, status, event_time);
	`
	_, err := r.db.Exec(query)
	return err
}

// Verificación estática de la interfaz.
var _ rentalDomain.RentalAnalyticsRepository = (*RentalAnalyticsRepo)(nil)
