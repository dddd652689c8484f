package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/lease/domain"
)

var tracer = otel.Tracer("lease-repository")

// GormLeaseRepositoryWithTracing wraps GormLeaseRepository with tracing
type GormLeaseRepositoryWithTracing struct {
	*GormLeaseRepository
}

// NewGormLeaseRepositoryWithTracing creates a new repository with tracing
func NewGormLeaseRepositoryWithTracing(db *gorm.DB) *GormLeaseRepositoryWithTracing {
	return &GormLeaseRepositoryWithTracing{
		GormLeaseRepository: NewGormLeaseRepository(db),
	}
}

// CreateExclusiveWithContext runs CreateExclusive inside a span.
func (r *GormLeaseRepositoryWithTracing) CreateExclusiveWithContext(ctx context.Context, lease *domain.Lease) error {
	_, span := tracer.Start(ctx, "repository.CreateExclusive",
		trace.WithAttributes(
			attribute.Int("lease.unit_id", int(lease.UnitID)),
			attribute.Int("lease.tenant_id", int(lease.TenantID)),
			attribute.String("lease.payment_cycle", lease.PaymentCycle),
		),
	)
	defer span.End()

	err := r.GormLeaseRepository.CreateExclusive(lease)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("lease.id", int(lease.ID)))
	return nil
}

// FindByIDWithContext runs FindByID inside a span.
func (r *GormLeaseRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id uint) (*domain.Lease, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("lease.id", int(id))),
	)
	defer span.End()

	lease, err := r.GormLeaseRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return lease, nil
}
