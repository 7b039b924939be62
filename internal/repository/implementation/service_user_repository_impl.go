package implementation

import (
	"context"
	"errors"

	"medichat-web/internal/entity"
	"medichat-web/internal/mapper"
	"medichat-web/internal/model"
	"medichat-web/internal/repository/contract"
	"medichat-web/internal/repository/specification"

	"gorm.io/gorm"
)

type ServiceUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServiceUserMapper
}

func NewServiceUserRepository(db *gorm.DB) contract.ServiceUserRepository {
	return &ServiceUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewServiceUserMapper(),
	}
}

func (r *ServiceUserRepositoryImpl) EnsureWithCredit(ctx context.Context, user *entity.ServiceUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := r.mapper.ToModel(user)
		if err := specification.Apply(tx, specification.ByExternalUserID{UserID: m.UserId}).
			Attrs(model.ServiceUser{Email: m.Email, Name: m.Name}).
			FirstOrCreate(m).Error; err != nil {
			return err
		}

		credit := model.Credit{ServiceUserId: m.Id}
		if err := specification.Apply(tx, specification.CreditOf{ServiceUserID: m.Id}).
			Attrs(model.Credit{Balance: 0}).
			FirstOrCreate(&credit).Error; err != nil {
			return err
		}

		*user = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *ServiceUserRepositoryImpl) FindCredit(ctx context.Context, userId string) (*entity.Credit, error) {
	var user model.ServiceUser
	err := specification.Apply(r.db.WithContext(ctx),
		specification.WithCredits{},
		specification.ByExternalUserID{UserID: userId},
	).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CreditToEntity(user.Credits), nil
}
