package repository

import (
	"context"

	"github.com/spec-kit/animation-service/internal/domain"
	"github.com/spec-kit/animation-service/internal/persistence"
)

// AnimationRepository defines persistence access for animations.
type AnimationRepository interface {
	Create(ctx context.Context, animation *domain.Animation) error
	Update(ctx context.Context, animation *domain.Animation) error
	GetByID(ctx context.Context, id int64) (*domain.Animation, error)
	List(ctx context.Context) ([]domain.Animation, error)
	Delete(ctx context.Context, id int64) error
}

type animationRepository struct {
	tx persistence.Transactor
}

// NewAnimationRepository returns a Postgres-backed implementation.
func NewAnimationRepository(tx persistence.Transactor) AnimationRepository {
	return &animationRepository{tx: tx}
}

func (r *animationRepository) Create(ctx context.Context, animation *domain.Animation) error {
	const query = `
        INSERT INTO animations (name, description, data)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		return q.QueryRow(ctx, query,
			animation.Name,
			animation.Description,
			jsonOrEmpty(animation.Data),
		).Scan(&animation.ID, &animation.CreatedAt, &animation.UpdatedAt)
	})
}

func (r *animationRepository) Update(ctx context.Context, animation *domain.Animation) error {
	const query = `
        UPDATE animations SET name=$1, description=$2, data=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING created_at, updated_at`

	return r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		err := q.QueryRow(ctx, query,
			animation.Name,
			animation.Description,
			jsonOrEmpty(animation.Data),
			animation.ID,
		).Scan(&animation.CreatedAt, &animation.UpdatedAt)
		return translateError(err)
	})
}

func (r *animationRepository) GetByID(ctx context.Context, id int64) (*domain.Animation, error) {
	const query = `
        SELECT id, name, description, data, created_at, updated_at
        FROM animations WHERE id=$1`

	var animation domain.Animation
	err := r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		return translateError(q.QueryRow(ctx, query, id).Scan(
			&animation.ID,
			&animation.Name,
			&animation.Description,
			&animation.Data,
			&animation.CreatedAt,
			&animation.UpdatedAt,
		))
	})
	if err != nil {
		return nil, err
	}
	return &animation, nil
}

func (r *animationRepository) List(ctx context.Context) ([]domain.Animation, error) {
	const query = `
        SELECT id, name, description, data, created_at, updated_at
        FROM animations ORDER BY id`

	var animations []domain.Animation
	err := r.tx.WithinTx(ctx, func(ctx context.Context, q persistence.Querier) error {
		rows, err := q.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var animation domain.Animation
			if err := rows.Scan(
				&animation.ID,
				&animation.Name,
				&animation.Description,
				&animation.Data,
				&animation.CreatedAt,
				&animation.UpdatedAt,
			); err != nil {
				return err
			}
			animations = append(animations, animation)
		}
		return rows.Err()
	})
	return animations, err
}

func (r *animationRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM animations WHERE id=$1`

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

func jsonOrEmpty(data []byte) []byte {
	if len(data) == 0 {
		return []byte("{}")
	}
	return data
}
