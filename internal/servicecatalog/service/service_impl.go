package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/servicecatalog/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.CatalogService]
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("servicecatalog.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.CatalogService](p.DB),
	}
}

func (s *Service) List(ctx context.Context, query string) ([]domain.Response, error) {
	tx := s.db.WithContext(ctx).Model(&domain.CatalogService{}).Order("service_title")
	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("service_title LIKE ?", "%"+q+"%")
	}

	var rows []domain.CatalogService
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ToResponse(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	serviceID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", serviceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	resp := domain.ToResponse(*row)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.ServiceTitle)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	row := domain.CatalogService{
		ID:                 s.genID.Generate(),
		ServiceTitle:       title,
		ServiceDescription: trimmed(req.ServiceDescription),
		Amount:             req.Amount,
	}
	if err := s.repo.Insert(ctx, &row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	serviceID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", serviceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if req.ServiceTitle != nil {
		title := strings.TrimSpace(*req.ServiceTitle)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		row.ServiceTitle = title
	}
	if req.ServiceDescription != nil {
		row.ServiceDescription = trimmed(req.ServiceDescription)
	}
	if req.Amount != nil {
		if err := domain.ValidateAmount(*req.Amount); err != nil {
			return nil, err
		}
		row.Amount = *req.Amount
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(*row)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	serviceID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, "id = ?", serviceID)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
