package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/transactioncategory/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.TransactionCategory]
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
		log:   p.Log.Named("transactioncategory.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.TransactionCategory](p.DB),
	}
}

func (s *Service) List(ctx context.Context, query string) ([]domain.Response, error) {
	tx := s.db.WithContext(ctx).Model(&domain.TransactionCategory{}).Order("name")
	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("name LIKE ?", "%"+q+"%")
	}

	var rows []domain.TransactionCategory
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
	categoryID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", categoryID)
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
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	row := domain.TransactionCategory{
		ID:    s.genID.Generate(),
		Name:  name,
		Color: trimmed(req.Color),
		Icon:  trimmed(req.Icon),
	}
	if err := s.repo.Insert(ctx, &row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	categoryID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", categoryID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		row.Name = name
	}
	if req.Color != nil {
		row.Color = trimmed(req.Color)
	}
	if req.Icon != nil {
		row.Icon = trimmed(req.Icon)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(*row)
	return &resp, nil
}

// Delete removes the category. Transactions referencing it keep a null
// category rather than blocking the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	categoryID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE transactions SET category_id = NULL WHERE category_id = ?`, categoryID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.TransactionCategory{}, "id = ?", categoryID).Error
	})
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
