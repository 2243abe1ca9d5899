package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"projectdesk/internal/apperr"
	"projectdesk/internal/domain"
	"projectdesk/internal/media"
	"projectdesk/pkg/utils"
)

type ProjectService struct {
	log       *zap.Logger
	projects  domain.ProjectRepository
	customers domain.CustomerRepository
	media     media.Uploader
}

func NewProjectService(log *zap.Logger, projects domain.ProjectRepository, customers domain.CustomerRepository, uploader media.Uploader) *ProjectService {
	return &ProjectService{log: log, projects: projects, customers: customers, media: uploader}
}

type ProjectInput struct {
	Title           string
	Description     string
	CustomerID      string
	Status          string
	StartDate       *time.Time
	EndDate         *time.Time
	Budget          *float64 // nil 表示本次请求没带
	DomainName      string
	DomainStartDate *time.Time
}

func (s *ProjectService) validate(in *ProjectInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title != "" && (len(in.Title) < 3 || len(in.Title) > 100) {
		return apperr.BadRequest("project title must be 3 to 100 characters")
	}
	if in.Status != "" && !domain.ValidProjectStatus(in.Status) {
		return apperr.BadRequest("status must be one of: pending, in-progress, completed, on-hold")
	}
	if in.Budget != nil && *in.Budget < 0 {
		return apperr.BadRequest("budget cannot be negative")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return apperr.BadRequest("end date must be after start date")
	}
	if in.DomainStartDate != nil && in.DomainStartDate.After(time.Now()) {
		return apperr.BadRequest("domain start date cannot be in the future")
	}
	return nil
}

func (s *ProjectService) checkCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return nil
	}
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return apperr.Internal("lookup customer failed", err)
	}
	if c == nil {
		return apperr.BadRequest("customer does not exist")
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, ownerID string, in ProjectInput, documentPath string) (*domain.Project, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, apperr.BadRequest("title is required")
	}
	if err := s.checkCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	documentURL := ""
	if documentPath != "" {
		var err error
		documentURL, err = s.media.Upload(ctx, documentPath)
		if err != nil {
			s.log.Warn("document upload failed", zap.Error(err))
			return nil, apperr.BadRequest("failed to upload document")
		}
	}

	start := time.Now()
	if in.StartDate != nil {
		start = *in.StartDate
	}
	status := in.Status
	if status == "" {
		status = domain.ProjectStatusPending
	}
	budget := 0.0
	if in.Budget != nil {
		budget = *in.Budget
	}

	p := &domain.Project{
		ID:              utils.NewID(),
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		CustomerID:      in.CustomerID,
		CreatedBy:       ownerID,
		Status:          status,
		StartDate:       start,
		EndDate:         in.EndDate,
		Budget:          budget,
		DomainName:      strings.TrimSpace(in.DomainName),
		DomainStartDate: in.DomainStartDate,
		DocumentURL:     documentURL,
		IsActive:        true,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, apperr.Internal("create project failed", err)
	}
	return p, nil
}

func (s *ProjectService) ListMine(ctx context.Context, ownerID string) ([]domain.Project, error) {
	out, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list projects failed", err)
	}
	return out, nil
}

func (s *ProjectService) ListPersonal(ctx context.Context, ownerID string) ([]domain.Project, error) {
	out, err := s.projects.ListPersonal(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list personal projects failed", err)
	}
	return out, nil
}

func (s *ProjectService) ListByCustomer(ctx context.Context, ownerID, customerID string) ([]domain.Project, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("lookup customer failed", err)
	}
	if c == nil {
		return nil, apperr.NotFound("customer not found")
	}
	out, err := s.projects.ListByCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, apperr.Internal("list customer projects failed", err)
	}
	return out, nil
}

// get 校验归属，非本人项目一律按不存在处理
func (s *ProjectService) get(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup project failed", err)
	}
	if p == nil || p.CreatedBy != ownerID {
		return nil, apperr.NotFound("project not found")
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	return s.get(ctx, ownerID, id)
}

func (s *ProjectService) Update(ctx context.Context, ownerID, id string, in ProjectInput, documentPath string) (*domain.Project, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	p, err := s.get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	if documentPath != "" {
		documentURL, err := s.media.Upload(ctx, documentPath)
		if err != nil {
			s.log.Warn("document upload failed", zap.Error(err))
			return nil, apperr.BadRequest("failed to upload document")
		}
		p.DocumentURL = documentURL
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		p.Description = v
	}
	if in.CustomerID != "" {
		p.CustomerID = in.CustomerID
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	// 指针区分“没传”和“置零”
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if v := strings.TrimSpace(in.DomainName); v != "" {
		p.DomainName = v
	}
	if in.DomainStartDate != nil {
		p.DomainStartDate = in.DomainStartDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil, apperr.BadRequest("end date must be after start date")
	}

	if err := s.projects.Save(ctx, p); err != nil {
		return nil, apperr.Internal("update project failed", err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, ownerID, id, action string) error {
	if action == "" {
		action = DeleteActionSoft
	}
	p, err := s.get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	switch action {
	case DeleteActionHard:
		if err := s.projects.HardDelete(ctx, id); err != nil {
			return apperr.Internal("delete project failed", err)
		}
	case DeleteActionSoft:
		p.IsActive = false
		if err := s.projects.Save(ctx, p); err != nil {
			return apperr.Internal("deactivate project failed", err)
		}
	default:
		return apperr.BadRequest("invalid action, use 'hard' or 'soft'")
	}
	return nil
}
