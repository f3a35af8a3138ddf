package repository

import (
	"context"

	"github.com/spec-kit/animation-service/internal/domain"
	"github.com/spec-kit/animation-service/internal/persistence"
)

// UserRepository defines persistence access for API users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
	LookupCredential(ctx context.Context, username string) (domain.Credential, error)
}

type userRepository struct {
	tx persistence.Transactor
}

// NewUserRepository returns a Postgres-backed implementation. Every call runs
// in its own transaction.
func NewUserRepository(tx persistence.Transactor) UserRepository {
	return &userRepository{tx: tx}
}

const userColumns = `id, name, password_hash, password_salt, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, password_hash, password_salt)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		err := q.QueryRow(ctx, query,
			user.Name,
			user.PasswordHash,
			user.PasswordSalt,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		return translateError(err)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, password_hash=$2, password_salt=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	return r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		err := q.QueryRow(ctx, query,
			user.Name,
			user.PasswordHash,
			user.PasswordSalt,
			user.ID,
		).Scan(&user.UpdatedAt)
		return translateError(err)
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE name=$1`
	return r.getOne(ctx, query, name)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		return translateError(q.QueryRow(ctx, query, arg).Scan(
			&user.ID,
			&user.Name,
			&user.PasswordHash,
			&user.PasswordSalt,
			&user.CreatedAt,
			&user.UpdatedAt,
		))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	var users []domain.User
	err := r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		rows, err := q.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var user domain.User
			if err := rows.Scan(
				&user.ID,
				&user.Name,
				&user.PasswordHash,
				&user.PasswordSalt,
				&user.CreatedAt,
				&user.UpdatedAt,
			); err != nil {
				return err
			}
			users = append(users, user)
		}
		return rows.Err()
	})
	return users, err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id=$1`

	return r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		cmd, err := q.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *userRepository) LookupCredential(ctx context.Context, username string) (domain.Credential, error) {
	const query = `SELECT name, password_hash, password_salt FROM users WHERE name=$1`

	var cred domain.Credential
	err := r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		return translateError(q.QueryRow(ctx, query, username).Scan(
			&cred.Username,
			&cred.PasswordHash,
			&cred.Salt,
		))
	})
	return cred, err
}
