package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/service"
	"projectdesk/internal/transport/http/middleware"
	resp "projectdesk/internal/transport/http/response"
)

type ProjectHandler struct {
	log        *zap.Logger
	projects   *service.ProjectService
	stagingDir string
}

func NewProjectHandler(log *zap.Logger, svc *service.ProjectService, stagingDir string) *ProjectHandler {
	return &ProjectHandler{log: log, projects: svc, stagingDir: stagingDir}
}

type projectForm struct {
	Title           string   `form:"title"`
	Description     string   `form:"description"`
	CustomerID      string   `form:"customerId"`
	Status          string   `form:"status"`
	StartDate       string   `form:"startDate"`
	EndDate         string   `form:"endDate"`
	Budget          *float64 `form:"budget"`
	DomainName      string   `form:"domainName"`
	DomainStartDate string   `form:"domainStartDate"`
}

// toInput 日期按 YYYY-MM-DD 解析，格式错误直接 400
func (f projectForm) toInput() (service.ProjectInput, error) {
	in := service.ProjectInput{
		Title:       f.Title,
		Description: f.Description,
		CustomerID:  f.CustomerID,
		Status:      f.Status,
		Budget:      f.Budget,
		DomainName:  f.DomainName,
	}
	var err error
	if in.StartDate, err = parseDate(f.StartDate); err != nil {
		return in, err
	}
	if in.EndDate, err = parseDate(f.EndDate); err != nil {
		return in, err
	}
	if in.DomainStartDate, err = parseDate(f.DomainStartDate); err != nil {
		return in, err
	}
	return in, nil
}

func (h *ProjectHandler) stageDocument(c *gin.Context) (string, error) {
	fh, err := c.FormFile("document")
	if err != nil {
		return "", nil
	}
	return stageFile(c, fh, h.stagingDir)
}

// Create POST /api/v1/projects (multipart/form-data)
func (h *ProjectHandler) Create(c *gin.Context) {
	var f projectForm
	if err := c.ShouldBind(&f); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid request body")
		return
	}
	in, err := f.toInput()
	if err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid date, expected format YYYY-MM-DD")
		return
	}
	docPath, err := h.stageDocument(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	defer cleanupStaged(docPath)

	out, err := h.projects.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), in, docPath)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, out)
}

// List GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	out, err := h.projects.ListMine(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// ListPersonal GET /api/v1/projects/personal（无客户归属的项目）
func (h *ProjectHandler) ListPersonal(c *gin.Context) {
	out, err := h.projects.ListPersonal(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// ListByCustomer GET /api/v1/projects/by-customer/:customerId
func (h *ProjectHandler) ListByCustomer(c *gin.Context) {
	out, err := h.projects.ListByCustomer(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("customerId"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// Get GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	out, err := h.projects.Get(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// Update PUT /api/v1/projects/:id (multipart/form-data)
func (h *ProjectHandler) Update(c *gin.Context) {
	var f projectForm
	if err := c.ShouldBind(&f); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid request body")
		return
	}
	in, err := f.toInput()
	if err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid date, expected format YYYY-MM-DD")
		return
	}
	docPath, err := h.stageDocument(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	defer cleanupStaged(docPath)

	out, err := h.projects.Update(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), in, docPath)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// Delete DELETE /api/v1/projects/:id，body {"action":"soft"|"hard"}，缺省 soft
func (h *ProjectHandler) Delete(c *gin.Context) {
	var req deleteReq
	_ = c.ShouldBindJSON(&req)

	if err := h.projects.Delete(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), req.Action); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "project deleted successfully"})
}
