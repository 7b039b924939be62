package memory

import (
	"context"
	"sync"
	"time"

	"medichat-web/internal/entity"

	"github.com/google/uuid"
)

// ServiceUserRepository keeps service users in process when no database is configured.
type ServiceUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.ServiceUser
	credits map[uuid.UUID]*entity.Credit
}

func NewServiceUserRepository() *ServiceUserRepository {
	return &ServiceUserRepository{
		users:   make(map[string]*entity.ServiceUser),
		credits: make(map[uuid.UUID]*entity.Credit),
	}
}

func (r *ServiceUserRepository) EnsureWithCredit(ctx context.Context, user *entity.ServiceUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.UserId]; ok {
		*user = *existing
		return nil
	}

	stored := *user
	if stored.Id == uuid.Nil {
		stored.Id = uuid.New()
	}
	stored.CreatedAt = time.Now()
	r.users[stored.UserId] = &stored
	r.credits[stored.Id] = &entity.Credit{Id: uuid.New(), ServiceUserId: stored.Id, UpdatedAt: stored.CreatedAt}

	*user = stored
	return nil
}

func (r *ServiceUserRepository) FindCredit(ctx context.Context, userId string) (*entity.Credit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userId]
	if !ok {
		return nil, nil
	}
	credit := *r.credits[user.Id]
	return &credit, nil
}

// SetBalance is used by seeding and tests.
func (r *ServiceUserRepository) SetBalance(userId string, balance int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userId]
	if !ok {
		return false
	}
	r.credits[user.Id].Balance = balance
	r.credits[user.Id].UpdatedAt = time.Now()
	return true
}
