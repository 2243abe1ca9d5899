package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate 唯一索引冲突；并发注册的最终裁决在存储层
var ErrDuplicate = errors.New("duplicate record")

// User username/email 统一小写存储，唯一索引由库层兜底并发注册
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email         string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FullName      string    `gorm:"size:100;not null" json:"fullName"`
	PasswordHash  string    `gorm:"size:100;not null" json:"-"`
	AvatarURL     string    `gorm:"size:512;not null" json:"avatarUrl"`
	CoverImageURL string    `gorm:"size:512" json:"coverImageUrl,omitempty"`
	Role          string    `gorm:"size:16;not null;default:user" json:"role"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	RefreshToken  string    `gorm:"size:512" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Sanitized 返回去掉凭据字段的副本，供中间件塞进请求上下文
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByUsernameOrEmail 任一匹配即返回；找不到返回 (nil, nil)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, q string, offset, limit int, activeOnly bool) ([]User, int64, error)
}
