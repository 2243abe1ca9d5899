package domain

import (
	"context"
	"time"
)

const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on-hold"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project CustomerID 为空表示个人项目
type Project struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Title           string     `gorm:"size:100;not null" json:"title"`
	Description     string     `gorm:"size:1000" json:"description,omitempty"`
	CustomerID      string     `gorm:"index;size:36" json:"customerId,omitempty"`
	CreatedBy       string     `gorm:"index;size:36;not null" json:"createdBy"`
	Status          string     `gorm:"size:16;not null;default:pending" json:"status"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Budget          float64    `json:"budget,omitempty"`
	DomainName      string     `gorm:"size:191;index" json:"domainName,omitempty"`
	DomainStartDate *time.Time `json:"domainStartDate,omitempty"`
	DocumentURL     string     `gorm:"size:512" json:"documentUrl,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	ListPersonal(ctx context.Context, ownerID string) ([]Project, error)
	ListByCustomer(ctx context.Context, ownerID, customerID string) ([]Project, error)
	Save(ctx context.Context, p *Project) error
	HardDelete(ctx context.Context, id string) error
	HardDeleteByCustomer(ctx context.Context, customerID string) error
}
