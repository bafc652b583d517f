package web

import (
	"context"

	"github.com/emiliopalmerini/adpulse/internal/domain"
)

type mockCampaignRepository struct {
	CreateFunc  func(ctx context.Context, c *domain.Campaign) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Campaign, error)
	ListFunc    func(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, error)
	UpdateFunc  func(ctx context.Context, c *domain.Campaign) error
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *mockCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCampaignRepository) List(ctx context.Context, filter domain.CampaignFilter) ([]*domain.Campaign, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCampaignRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
