package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.BankAccount]
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
		log:   p.Log.Named("bankaccount.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.BankAccount](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	var rows []domain.BankAccount
	if err := s.db.WithContext(ctx).Order("label").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ToResponse(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	accountID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", accountID)
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
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.ErrInvalidLabel
	}
	beneficiary := strings.TrimSpace(req.BeneficiaryFullName)
	if beneficiary == "" {
		return nil, domain.ErrInvalidBeneficiary
	}
	accountNumber := strings.TrimSpace(req.BeneficiaryAccountNumber)
	if accountNumber == "" {
		return nil, domain.ErrInvalidAccountNumber
	}
	swift := strings.TrimSpace(req.SwiftCode)
	if swift == "" {
		return nil, domain.ErrInvalidSwiftCode
	}

	row := domain.BankAccount{
		ID:                       s.genID.Generate(),
		Label:                    label,
		BeneficiaryFullName:      beneficiary,
		BeneficiaryFullAddress:   trimmed(req.BeneficiaryFullAddress),
		BeneficiaryAccountNumber: accountNumber,
		SwiftCode:                swift,
		BankName:                 trimmed(req.BankName),
		BankAddress:              trimmed(req.BankAddress),
		IntermediaryBankInfo:     trimmed(req.IntermediaryBankInfo),
	}
	if err := s.repo.Insert(ctx, &row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	accountID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", accountID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, domain.ErrInvalidLabel
		}
		row.Label = label
	}
	if req.BeneficiaryFullName != nil {
		beneficiary := strings.TrimSpace(*req.BeneficiaryFullName)
		if beneficiary == "" {
			return nil, domain.ErrInvalidBeneficiary
		}
		row.BeneficiaryFullName = beneficiary
	}
	if req.BeneficiaryAccountNumber != nil {
		accountNumber := strings.TrimSpace(*req.BeneficiaryAccountNumber)
		if accountNumber == "" {
			return nil, domain.ErrInvalidAccountNumber
		}
		row.BeneficiaryAccountNumber = accountNumber
	}
	if req.SwiftCode != nil {
		swift := strings.TrimSpace(*req.SwiftCode)
		if swift == "" {
			return nil, domain.ErrInvalidSwiftCode
		}
		row.SwiftCode = swift
	}
	if req.BeneficiaryFullAddress != nil {
		row.BeneficiaryFullAddress = trimmed(req.BeneficiaryFullAddress)
	}
	if req.BankName != nil {
		row.BankName = trimmed(req.BankName)
	}
	if req.BankAddress != nil {
		row.BankAddress = trimmed(req.BankAddress)
	}
	if req.IntermediaryBankInfo != nil {
		row.IntermediaryBankInfo = trimmed(req.IntermediaryBankInfo)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := domain.ToResponse(*row)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	accountID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, "id = ?", accountID)
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
