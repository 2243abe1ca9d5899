package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"projectdesk/internal/domain"
)

type ProjectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	var out []domain.Project
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ProjectRepo) ListPersonal(ctx context.Context, ownerID string) ([]domain.Project, error) {
	var out []domain.Project
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND (customer_id IS NULL OR customer_id = '')", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ProjectRepo) ListByCustomer(ctx context.Context, ownerID, customerID string) ([]domain.Project, error) {
	var out []domain.Project
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND customer_id = ?", ownerID, customerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ProjectRepo) Save(ctx context.Context, p *domain.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepo) HardDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{}).Error
}

func (r *ProjectRepo) HardDeleteByCustomer(ctx context.Context, customerID string) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&domain.Project{}).Error
}
