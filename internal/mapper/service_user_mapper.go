package mapper

import (
	"medichat-web/internal/entity"
	"medichat-web/internal/model"
)

type ServiceUserMapper struct{}

func NewServiceUserMapper() *ServiceUserMapper {
	return &ServiceUserMapper{}
}

func (m *ServiceUserMapper) ToModel(u *entity.ServiceUser) *model.ServiceUser {
	if u == nil {
		return nil
	}
	return &model.ServiceUser{
		Id:        u.Id,
		UserId:    u.UserId,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func (m *ServiceUserMapper) ToEntity(u *model.ServiceUser) *entity.ServiceUser {
	if u == nil {
		return nil
	}
	return &entity.ServiceUser{
		Id:        u.Id,
		UserId:    u.UserId,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func (m *ServiceUserMapper) CreditToEntity(c *model.Credit) *entity.Credit {
	if c == nil {
		return nil
	}
	return &entity.Credit{
		Id:            c.Id,
		ServiceUserId: c.ServiceUserId,
		Balance:       c.Balance,
		UpdatedAt:     c.UpdatedAt,
	}
}
