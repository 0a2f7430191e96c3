package service

import (
	"context"

	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records admin actions. Callers treat failures as best effort;
// the error is logged here and returned for completeness.
type AuditService interface {
	LogCreate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) write(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: actorID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}

func (s *auditService) LogCreate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, nil, newValue)
}

// LogUpdate logs an update with old and new values
func (s *auditService) LogUpdate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return s.write(ctx, actorID, action, entityName, entityID, oldValue, nil)
}
