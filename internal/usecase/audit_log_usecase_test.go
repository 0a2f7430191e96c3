package usecase

import (
	"context"
	"testing"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAuditLogs struct {
	items  []entity.AuditLog
	filter entity.AuditLogFilter
}

func (r *memAuditLogs) Create(ctx context.Context, log *entity.AuditLog) error {
	log.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *log)
	return nil
}

func (r *memAuditLogs) FindAll(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	r.filter = filter
	return r.items, nil
}

func (r *memAuditLogs) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i], nil
		}
	}
	return nil, nil
}

func TestGetAllAuditLogsClampsLimit(t *testing.T) {
	repo := &memAuditLogs{}
	uc := NewAuditLogUsecase(testLogger(), repo)

	_, err := uc.GetAllAuditLogs(context.Background(), &dto.AuditLogQuery{})
	require.NoError(t, err)
	assert.Equal(t, defaultAuditLogLimit, repo.filter.Limit)

	_, err = uc.GetAllAuditLogs(context.Background(), &dto.AuditLogQuery{Action: "lead.", Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, maxAuditLogLimit, repo.filter.Limit)
	assert.Equal(t, "lead.", repo.filter.Action)
}

func TestGetAuditLog(t *testing.T) {
	repo := &memAuditLogs{}
	require.NoError(t, repo.Create(context.Background(), &entity.AuditLog{Action: entity.AuditActionLeadConvert}))
	uc := NewAuditLogUsecase(testLogger(), repo)

	res, err := uc.GetAuditLog(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionLeadConvert, res.Action)
	assert.Equal(t, "lead", res.Subject)

	_, err = uc.GetAuditLog(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
