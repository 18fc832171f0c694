package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
	"restaurant-dashboard/internal/forms"
	"restaurant-dashboard/internal/gateway"
	"restaurant-dashboard/internal/session"
)

type ChefServiceInterface interface {
	List(ctx context.Context) ([]domain.Chef, error)
	Create(ctx context.Context, in forms.Chef) (domain.Chef, error)
	Delete(ctx context.Context, id domain.ID) error
}

type ChefService struct {
	gw  Gateway
	log *logger.Logger
}

func NewChefService(gw Gateway, log *logger.Logger) *ChefService {
	return &ChefService{gw: gw, log: log}
}

func (s *ChefService) List(ctx context.Context) ([]domain.Chef, error) {
	if err := require(ctx, session.Session.CanManageStaff); err != nil {
		return nil, err
	}
	chefs, err := s.gw.FetchChefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chefs: %w", err)
	}
	for i := range chefs {
		chefs[i].Password = ""
	}
	return chefs, nil
}

func (s *ChefService) Create(ctx context.Context, in forms.Chef) (domain.Chef, error) {
	if err := require(ctx, session.Session.CanManageStaff); err != nil {
		return domain.Chef{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Chef{}, err
	}
	c, err := s.gw.CreateChef(ctx, in.ToDomain())
	if err != nil {
		return domain.Chef{}, fmt.Errorf("create chef: %w", err)
	}
	s.log.Info("chef_created", map[string]any{"chef_id": c.ID.String(), "email": c.Email})
	return c, nil
}

func (s *ChefService) Delete(ctx context.Context, id domain.ID) error {
	if err := require(ctx, session.Session.CanManageStaff); err != nil {
		return err
	}
	if err := s.gw.DeleteChef(ctx, id); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return fmt.Errorf("chef %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete chef %s: %w", id, err)
	}
	s.log.Info("chef_deleted", map[string]any{"chef_id": id.String()})
	return nil
}
