package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// GormUserRepositoryWithTracing wraps GormUserRepository with tracing
type GormUserRepositoryWithTracing struct {
	*GormUserRepository
}

// NewGormUserRepositoryWithTracing creates a new repository with tracing
func NewGormUserRepositoryWithTracing(db *gorm.DB) *GormUserRepositoryWithTracing {
	return &GormUserRepositoryWithTracing{
		GormUserRepository: NewGormUserRepository(db),
	}
}

// Create with tracing
func (r *GormUserRepositoryWithTracing) CreateWithContext(ctx context.Context, user *domain.User) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("user.username", user.Username),
			attribute.String("user.email", user.Email),
		),
	)
	defer span.End()

	err := r.GormUserRepository.Create(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

// FindByID with tracing
func (r *GormUserRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id uint) (*domain.User, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("user.id", int(id)),
		),
	)
	defer span.End()

	user, err := r.GormUserRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user.username", user.Username))
	return user, nil
}

// FindByUsername with tracing
func (r *GormUserRepositoryWithTracing) FindByUsernameWithContext(ctx context.Context, username string) (*domain.User, error) {
	_, span := tracer.Start(ctx, "repository.FindByUsername",
		trace.WithAttributes(
			attribute.String("user.username", username),
		),
	)
	defer span.End()

	user, err := r.GormUserRepository.FindByUsername(username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return user, nil
}
