package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secureweb/auth-service/internal/domain/entity"
	"github.com/secureweb/auth-service/internal/domain/repository"
)

const userColumns = "id, username, email, password_hash, phone, address, created_at, updated_at"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, entity.Canonical(u.Username), entity.Canonical(u.Email), u.Password, u.Phone, u.Address)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return repository.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*entity.User, error) {
	return r.getOne(`
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, entity.Canonical(username))
}

func (r *UserRepository) GetByUsernameAndEmail(username, email string) (*entity.User, error) {
	return r.getOne(`
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1 AND lower(email) = $2
	`, entity.Canonical(username), entity.Canonical(email))
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	return r.getOne(`
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = $1
	`, entity.Canonical(email))
}

func (r *UserRepository) getOne(query string, args ...any) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Phone, &u.Address,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $6
	`, entity.Canonical(u.Email), u.Password, u.Phone, u.Address, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
