package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/domain"
	"projectdesk/internal/service"
	resp "projectdesk/internal/transport/http/response"
)

type CustomerHandler struct {
	log        *zap.Logger
	customers  *service.CustomerService
	stagingDir string
}

func NewCustomerHandler(log *zap.Logger, svc *service.CustomerService, stagingDir string) *CustomerHandler {
	return &CustomerHandler{log: log, customers: svc, stagingDir: stagingDir}
}

type customerForm struct {
	Name       string `form:"name"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	Street     string `form:"street"`
	City       string `form:"city"`
	State      string `form:"state"`
	PostalCode string `form:"postalCode"`
	Country    string `form:"country"`
	Company    string `form:"company"`
	Notes      string `form:"notes"`
}

func (f customerForm) toInput() service.CustomerInput {
	return service.CustomerInput{
		Name:  f.Name,
		Email: f.Email,
		Phone: f.Phone,
		Address: domain.Address{
			Street:     f.Street,
			City:       f.City,
			State:      f.State,
			PostalCode: f.PostalCode,
			Country:    f.Country,
		},
		Company: f.Company,
		Notes:   f.Notes,
	}
}

// stageLogo logo 可选；不存在直接返回空路径
func (h *CustomerHandler) stageLogo(c *gin.Context) (string, error) {
	fh, err := c.FormFile("logo")
	if err != nil {
		return "", nil
	}
	return stageFile(c, fh, h.stagingDir)
}

// Create POST /api/v1/customers (multipart/form-data)
func (h *CustomerHandler) Create(c *gin.Context) {
	var f customerForm
	if err := c.ShouldBind(&f); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid request body")
		return
	}
	logoPath, err := h.stageLogo(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	defer cleanupStaged(logoPath)

	out, err := h.customers.Create(c.Request.Context(), f.toInput(), logoPath)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, out)
}

// List GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	out, err := h.customers.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// Get GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	out, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

// Update PUT /api/v1/customers/:id (multipart/form-data)
func (h *CustomerHandler) Update(c *gin.Context) {
	var f customerForm
	if err := c.ShouldBind(&f); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid request body")
		return
	}
	logoPath, err := h.stageLogo(c)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	defer cleanupStaged(logoPath)

	out, err := h.customers.Update(c.Request.Context(), c.Param("id"), f.toInput(), logoPath)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, out)
}

type deleteReq struct {
	Action string `json:"action"`
}

// Delete DELETE /api/v1/customers/:id，body {"action":"soft"|"hard"}，缺省 soft
func (h *CustomerHandler) Delete(c *gin.Context) {
	var req deleteReq
	_ = c.ShouldBindJSON(&req)

	if err := h.customers.Delete(c.Request.Context(), c.Param("id"), req.Action); err != nil {
		fail(c, h.log, err)
		return
	}
	resp.OK(c, gin.H{"message": "customer deleted successfully"})
}
