package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Customer]
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Customer](p.DB),
	}
}

func (s *Service) List(ctx context.Context, query string) ([]domain.Response, error) {
	tx := s.db.WithContext(ctx).Model(&domain.Customer{}).Order("legal_name")
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("legal_name LIKE ? OR display_name LIKE ?", like, like)
	}

	var rows []domain.Customer
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
	customerID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", customerID)
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
	legalName := strings.TrimSpace(req.LegalName)
	if legalName == "" {
		return nil, domain.ErrInvalidLegalName
	}

	row := domain.Customer{
		ID:           s.genID.Generate(),
		LegalName:    legalName,
		DisplayName:  trimmed(req.DisplayName),
		TaxID:        trimmed(req.TaxID),
		Email:        trimmed(req.Email),
		Phone:        trimmed(req.Phone),
		AddressLine1: trimmed(req.AddressLine1),
		AddressLine2: trimmed(req.AddressLine2),
		City:         trimmed(req.City),
		State:        trimmed(req.State),
		Zip:          trimmed(req.Zip),
		Country:      trimmed(req.Country),
	}
	if err := s.repo.Insert(ctx, &row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	customerID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", customerID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if req.LegalName != nil {
		legalName := strings.TrimSpace(*req.LegalName)
		if legalName == "" {
			return nil, domain.ErrInvalidLegalName
		}
		row.LegalName = legalName
	}
	applyOptional(&row.DisplayName, req.DisplayName)
	applyOptional(&row.TaxID, req.TaxID)
	applyOptional(&row.Email, req.Email)
	applyOptional(&row.Phone, req.Phone)
	applyOptional(&row.AddressLine1, req.AddressLine1)
	applyOptional(&row.AddressLine2, req.AddressLine2)
	applyOptional(&row.City, req.City)
	applyOptional(&row.State, req.State)
	applyOptional(&row.Zip, req.Zip)
	applyOptional(&row.Country, req.Country)

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(*row)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, "id = ?", customerID)
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

func applyOptional(field **string, value *string) {
	if value == nil {
		return
	}
	*field = trimmed(value)
}
