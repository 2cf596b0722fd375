package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/audit/domain"
	"github.com/smallbiznis/factura/internal/auditcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
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
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
	}
}

func (s *Service) AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error {
	actorType, actorID := auditcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = string(domain.ActorTypeSystem)
	}

	entry := domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  time.Now().UTC(),
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		entry.Metadata[key] = value
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("audit log write failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}
