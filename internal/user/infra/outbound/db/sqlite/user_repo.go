package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	"github.com/davicafu/rentacarritos/internal/user/domain"
)

type UserRepoSQLite struct {
	db *sql.DB
}

func NewUserRepoSQLite(db *sql.DB) *UserRepoSQLite {
	return &UserRepoSQLite{db: db}
}

// Verificación estática
var _ domain.UserRepository = (*UserRepoSQLite)(nil)

// ------------------ Métodos ------------------

// Create da de alta un usuario. Devuelve ErrUserAlreadyExists si la PK choca.
func (r *UserRepoSQLite) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id,nombre,email,phone,street,city,state,zip_code,created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.ID.String(), u.Nombre, u.Email, u.Phone,
		u.Address.Street, u.Address.City, u.Address.State, u.Address.ZipCode, u.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID recupera el usuario junto a su lista ordenada de reservas.
func (r *UserRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, nombre, email, phone, street, city, state, zip_code, created_at
		FROM users WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())

	var u domain.User
	var idStr string
	if err := row.Scan(&idStr, &u.Nombre, &u.Email, &u.Phone,
		&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.ZipCode, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in DB: %w", err)
	}
	u.ID = parsedID

	rentals, err := r.rentalIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	u.RentalIDs = rentals

	return &u, nil
}

// Update persiste los cambios de perfil.
func (r *UserRepoSQLite) Update(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET nombre=?, phone=?, street=?, city=?, state=?, zip_code=? WHERE id=?`,
		u.Nombre, u.Phone, u.Address.Street, u.Address.City, u.Address.State, u.Address.ZipCode, u.ID.String(),
	)
	if err != nil {
		return err
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// AppendRental añade la reserva al final de la lista del usuario.
// El rowid de SQLite conserva el orden de inserción.
func (r *UserRepoSQLite) AppendRental(ctx context.Context, userID, rentalID uuid.UUID) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=?`, userID.String()).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrUserNotFound
		}
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_rentals (user_id, rental_id) VALUES (?,?)`,
		userID.String(), rentalID.String(),
	)
	return err
}

// rentalIDs lee las reservas del usuario en orden de inserción.
func (r *UserRepoSQLite) rentalIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rental_id FROM user_rentals WHERE user_id=? ORDER BY rowid`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in DB: %w", err)
		}
		ids = append(ids, parsed)
	}

	return ids, rows.Err()
}

// ------------------ Inicialización de DB ------------------

// InitSQLite crea las tablas users y user_rentals si no existen
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            nombre TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            street TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL DEFAULT '',
            zip_code TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS user_rentals (
            user_id TEXT NOT NULL,
            rental_id TEXT NOT NULL,
            PRIMARY KEY (user_id, rental_id)
        )
    `)
	return err
}
