package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/animation-service/internal/domain"
)

// MemoryUserRepository keeps users in process memory. Used when no DSN is
// configured and in tests.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.User
}

// NewMemoryUserRepository builds an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: make(map[int64]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(user.Name, 0) {
		return domain.ErrConflict
	}
	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(user.Name, user.ID) {
		return domain.ErrConflict
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *MemoryUserRepository) GetByName(_ context.Context, name string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Name == name {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryUserRepository) LookupCredential(ctx context.Context, username string) (domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credential{}, err
	}
	user, err := r.GetByName(ctx, username)
	if err != nil {
		return domain.Credential{}, err
	}
	return user.Credential(), nil
}

func (r *MemoryUserRepository) nameTaken(name string, exceptID int64) bool {
	for id, user := range r.byID {
		if id != exceptID && user.Name == name {
			return true
		}
	}
	return false
}

func cloneUser(u domain.User) domain.User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	u.PasswordSalt = append([]byte(nil), u.PasswordSalt...)
	return u
}

// MemoryAnimationRepository keeps animations in process memory.
type MemoryAnimationRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Animation
}

// NewMemoryAnimationRepository builds an empty repository.
func NewMemoryAnimationRepository() *MemoryAnimationRepository {
	return &MemoryAnimationRepository{byID: make(map[int64]domain.Animation)}
}

func (r *MemoryAnimationRepository) Create(_ context.Context, animation *domain.Animation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	animation.ID = r.nextID
	animation.Data = jsonOrEmpty(animation.Data)
	animation.CreatedAt = now
	animation.UpdatedAt = now
	r.byID[animation.ID] = cloneAnimation(*animation)
	return nil
}

func (r *MemoryAnimationRepository) Update(_ context.Context, animation *domain.Animation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[animation.ID]
	if !ok {
		return domain.ErrNotFound
	}
	animation.Data = jsonOrEmpty(animation.Data)
	animation.CreatedAt = existing.CreatedAt
	animation.UpdatedAt = time.Now().UTC()
	r.byID[animation.ID] = cloneAnimation(*animation)
	return nil
}

func (r *MemoryAnimationRepository) GetByID(_ context.Context, id int64) (*domain.Animation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	animation, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneAnimation(animation)
	return &out, nil
}

func (r *MemoryAnimationRepository) List(_ context.Context) ([]domain.Animation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	animations := make([]domain.Animation, 0, len(r.byID))
	for _, animation := range r.byID {
		animations = append(animations, cloneAnimation(animation))
	}
	sort.Slice(animations, func(i, j int) bool { return animations[i].ID < animations[j].ID })
	return animations, nil
}

func (r *MemoryAnimationRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneAnimation(a domain.Animation) domain.Animation {
	a.Data = append([]byte(nil), a.Data...)
	return a
}
