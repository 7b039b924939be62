package service

import (
	"context"
	"fmt"

	"medichat-web/internal/dto"
	"medichat-web/internal/repository/contract"
)

type IInfoService interface {
	GetInfo(ctx context.Context, userId string) (*dto.InfoResponse, error)
}

type infoService struct {
	users contract.ServiceUserRepository
}

func NewInfoService(users contract.ServiceUserRepository) IInfoService {
	return &infoService{users: users}
}

// GetInfo reports a zero balance for identities that have no credit row yet.
func (s *infoService) GetInfo(ctx context.Context, userId string) (*dto.InfoResponse, error) {
	credit, err := s.users.FindCredit(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("find credit: %w", err)
	}

	info := &dto.CreditInfo{}
	if credit != nil {
		info.Balance = credit.Balance
	}
	return &dto.InfoResponse{
		Status: "success",
		Info:   &dto.UserInfo{Credits: info},
	}, nil
}
