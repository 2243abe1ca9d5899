package domain

import (
	"context"
	"time"
)

type Address struct {
	Street     string `gorm:"size:128" json:"street,omitempty"`
	City       string `gorm:"size:64" json:"city,omitempty"`
	State      string `gorm:"size:64" json:"state,omitempty"`
	PostalCode string `gorm:"size:32" json:"postalCode,omitempty"`
	Country    string `gorm:"size:64" json:"country,omitempty"`
}

type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Address   Address   `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	Company   string    `gorm:"size:100" json:"company,omitempty"`
	Notes     string    `gorm:"size:500" json:"notes,omitempty"`
	LogoURL   string    `gorm:"size:512" json:"logoUrl,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	ListActive(ctx context.Context) ([]Customer, error)
	Save(ctx context.Context, c *Customer) error
	HardDelete(ctx context.Context, id string) error
}
