package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"projectdesk/internal/apperr"
	"projectdesk/internal/core/cache"
	"projectdesk/internal/domain"
	"projectdesk/internal/media"
	"projectdesk/pkg/utils"
)

const (
	customerListCacheKey = "customers:active"
	customerListCacheTTL = 30 * time.Second
)

const (
	DeleteActionSoft = "soft"
	DeleteActionHard = "hard"
)

type CustomerService struct {
	log       *zap.Logger
	customers domain.CustomerRepository
	projects  domain.ProjectRepository
	media     media.Uploader
	cache     *cache.Cache // 可为 nil，禁用列表缓存
}

func NewCustomerService(log *zap.Logger, customers domain.CustomerRepository, projects domain.ProjectRepository, uploader media.Uploader, c *cache.Cache) *CustomerService {
	return &CustomerService{log: log, customers: customers, projects: projects, media: uploader, cache: c}
}

type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address domain.Address
	Company string
	Notes   string
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput, logoPath string) (*domain.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, apperr.BadRequest("name and email are required")
	}
	if len(in.Name) < 2 || len(in.Name) > 100 {
		return nil, apperr.BadRequest("customer name must be 2 to 100 characters")
	}

	email := strings.ToLower(in.Email)
	existing, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("lookup customer failed", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("customer with this email already exists")
	}

	logoURL := ""
	if logoPath != "" {
		logoURL, err = s.media.Upload(ctx, logoPath)
		if err != nil {
			s.log.Warn("logo upload failed", zap.Error(err))
			return nil, apperr.BadRequest("failed to upload logo")
		}
	}

	c := &domain.Customer{
		ID:       utils.NewID(),
		Name:     in.Name,
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  in.Address,
		Company:  strings.TrimSpace(in.Company),
		Notes:    strings.TrimSpace(in.Notes),
		LogoURL:  logoURL,
		IsActive: true,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict("customer with this email already exists")
		}
		return nil, apperr.Internal("create customer failed", err)
	}
	s.invalidateList(ctx)
	return c, nil
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	if s.cache == nil {
		out, err := s.customers.ListActive(ctx)
		if err != nil {
			return nil, apperr.Internal("list customers failed", err)
		}
		return out, nil
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, customerListCacheKey, customerListCacheTTL,
		func(ctx context.Context) (*[]domain.Customer, error) {
			list, e := s.customers.ListActive(ctx)
			if e != nil {
				return nil, e
			}
			return &list, nil
		})
	if err != nil {
		// 经过缓存层失败算依赖故障，和纯 DB 错误分开归类
		return nil, apperr.Upstream("list customers failed", err)
	}
	if out == nil {
		return []domain.Customer{}, nil
	}
	return *out, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup customer failed", err)
	}
	if c == nil {
		return nil, apperr.NotFound("customer not found")
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput, logoPath string) (*domain.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != c.Email {
		existing, err := s.customers.FindByEmail(ctx, email)
		if err != nil {
			return nil, apperr.Internal("lookup customer failed", err)
		}
		if existing != nil {
			return nil, apperr.Conflict("customer with this email already exists")
		}
		c.Email = email
	}

	if logoPath != "" {
		logoURL, err := s.media.Upload(ctx, logoPath)
		if err != nil {
			s.log.Warn("logo upload failed", zap.Error(err))
			return nil, apperr.BadRequest("failed to upload logo")
		}
		c.LogoURL = logoURL
	}

	// 空字段不覆盖旧值
	if v := strings.TrimSpace(in.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(in.Company); v != "" {
		c.Company = v
	}
	if v := strings.TrimSpace(in.Notes); v != "" {
		c.Notes = v
	}
	if in.Address != (domain.Address{}) {
		c.Address = in.Address
	}

	if err := s.customers.Save(ctx, c); err != nil {
		return nil, apperr.Internal("update customer failed", err)
	}
	s.invalidateList(ctx)
	return c, nil
}

// Delete soft 仅置 isActive=false；hard 连同客户的项目一并删除
func (s *CustomerService) Delete(ctx context.Context, id, action string) error {
	if action == "" {
		action = DeleteActionSoft
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	switch action {
	case DeleteActionHard:
		if err := s.projects.HardDeleteByCustomer(ctx, id); err != nil {
			return apperr.Internal("delete customer projects failed", err)
		}
		if err := s.customers.HardDelete(ctx, id); err != nil {
			return apperr.Internal("delete customer failed", err)
		}
	case DeleteActionSoft:
		c.IsActive = false
		if err := s.customers.Save(ctx, c); err != nil {
			return apperr.Internal("deactivate customer failed", err)
		}
	default:
		return apperr.BadRequest("invalid action, use 'hard' or 'soft'")
	}
	s.invalidateList(ctx)
	return nil
}

func (s *CustomerService) invalidateList(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, customerListCacheKey)
	}
}
