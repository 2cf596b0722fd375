package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/smallbiznis/factura/internal/apikey/domain"
	"github.com/smallbiznis/factura/internal/auth/domain"
	"github.com/smallbiznis/factura/internal/auth/password"
	"github.com/smallbiznis/factura/internal/clock"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minPasswordLen = 8
	loginKeyTTL    = 30 * 24 * time.Hour
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	users repository.Repository[domain.User]
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,
		clock: p.Clock,
		users: repository.ProvideStore[domain.User](p.DB),
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindOne(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, domain.ErrBadCredentials
	}
	if !password.Verify(req.Password, *user.PasswordHash) {
		s.log.Warn("login rejected", zap.String("email", email))
		return nil, domain.ErrBadCredentials
	}

	key, err := apikeydomain.GenerateKey()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	expiresAt := now.Add(loginKeyTTL)
	record := apikeydomain.APIKey{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		Name:      "login",
		KeyHash:   apikeydomain.HashAPIKey(key),
		IsActive:  true,
		ExpiresAt: &expiresAt,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", zap.String("user_id", user.ID.String()))
	return &domain.LoginResponse{
		APIKey:    key,
		ExpiresAt: &expiresAt,
		User:      domain.ToResponse(*user),
	}, nil
}

// Authenticate resolves a bearer token to its user. The stored hash is
// compared in constant time even though the lookup is already by hash.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrBadCredentials
	}

	hash := apikeydomain.HashAPIKey(token)
	now := s.clock.Now()

	var record apikeydomain.APIKey
	err := s.db.WithContext(ctx).
		Where("key_hash = ? AND is_active = ?", hash, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(record.KeyHash), []byte(hash)) != 1 {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindOne(ctx, "id = ?", record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrBadCredentials
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.UserResponse, error) {
	var rows []domain.User
	if err := s.db.WithContext(ctx).Order("email").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.UserResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ToResponse(row))
	}
	return out, nil
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.UserResponse, error) {
	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, domain.ErrInvalidDisplayName
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.ErrInvalidPassword
	}

	existing, err := s.users.FindOne(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: &hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()))
	resp := domain.ToResponse(user)
	return &resp, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	userID, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	user, err := s.users.FindOne(ctx, "id = ?", userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&apikeydomain.APIKey{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, "id = ?", userID).Error
	})
}
