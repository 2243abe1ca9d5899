package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"projectdesk/internal/domain"
	"projectdesk/pkg/utils"
)

func newProjectFixture() (*ProjectService, *memProjectRepo, *memCustomerRepo, *memUploader) {
	projects := newMemProjectRepo()
	customers := newMemCustomerRepo()
	up := newMemUploader()
	svc := NewProjectService(zap.NewNop(), projects, customers, up)
	return svc, projects, customers, up
}

func budgetOf(v float64) *float64 { return &v }

func seedCustomer(repo *memCustomerRepo) string {
	id := utils.NewID()
	repo.customers[id] = &domain.Customer{ID: id, Name: "Acme", Email: "acme@acme.com", IsActive: true}
	return id
}

func TestProjectCreateDefaults(t *testing.T) {
	svc, _, _, _ := newProjectFixture()

	p, err := svc.Create(context.Background(), "owner-1", ProjectInput{Title: "Website"}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusPending, p.Status)
	assert.Equal(t, "owner-1", p.CreatedBy)
	assert.True(t, p.IsActive)
	assert.False(t, p.StartDate.IsZero())
}

func TestProjectCreateValidation(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, "o", ProjectInput{}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Create(ctx, "o", ProjectInput{Title: "ab"}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Create(ctx, "o", ProjectInput{Title: "Website", Status: "archived"}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Create(ctx, "o", ProjectInput{Title: "Website", Budget: budgetOf(-5)}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	start := time.Now()
	end := start.Add(-24 * time.Hour)
	_, err = svc.Create(ctx, "o", ProjectInput{Title: "Website", StartDate: &start, EndDate: &end}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	future := time.Now().Add(48 * time.Hour)
	_, err = svc.Create(ctx, "o", ProjectInput{Title: "Website", DomainStartDate: &future}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
}

func TestProjectCreateUnknownCustomer(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	_, err := svc.Create(context.Background(), "o",
		ProjectInput{Title: "Website", CustomerID: "missing"}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
	assert.Contains(t, err.Error(), "customer does not exist")
}

func TestProjectCreateDocumentUploadFailure(t *testing.T) {
	svc, repo, _, up := newProjectFixture()
	up.failFor["/tmp/contract.pdf"] = true

	_, err := svc.Create(context.Background(), "o",
		ProjectInput{Title: "Website"}, "/tmp/contract.pdf")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
	assert.Empty(t, repo.projects)
}

func TestProjectOwnerScoping(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	p, err := svc.Create(context.Background(), "owner-1", ProjectInput{Title: "Website"}, "")
	require.NoError(t, err)

	// 非本人的项目一律按不存在处理
	_, err = svc.Get(context.Background(), "owner-2", p.ID)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	got, err := svc.Get(context.Background(), "owner-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProjectLists(t *testing.T) {
	svc, _, customers, _ := newProjectFixture()
	ctx := context.Background()
	custID := seedCustomer(customers)

	_, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Personal Site"}, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-1", ProjectInput{Title: "Acme Portal", CustomerID: custID}, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner-2", ProjectInput{Title: "Other Owner"}, "")
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	personal, err := svc.ListPersonal(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, "Personal Site", personal[0].Title)

	byCust, err := svc.ListByCustomer(ctx, "owner-1", custID)
	require.NoError(t, err)
	require.Len(t, byCust, 1)
	assert.Equal(t, "Acme Portal", byCust[0].Title)
}

func TestProjectListByUnknownCustomer(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	_, err := svc.ListByCustomer(context.Background(), "owner-1", "missing")
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestProjectUpdatePartial(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website", Budget: budgetOf(100)}, "")
	require.NoError(t, err)

	out, err := svc.Update(ctx, "owner-1", p.ID,
		ProjectInput{Status: domain.ProjectStatusInProgress}, "")
	require.NoError(t, err)
	assert.Equal(t, "Website", out.Title)
	assert.Equal(t, domain.ProjectStatusInProgress, out.Status)
	assert.Equal(t, float64(100), out.Budget)
}

func TestProjectUpdateBudgetToZero(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website", Budget: budgetOf(100)}, "")
	require.NoError(t, err)

	// 显式传 0 要能清掉预算，不传才保留旧值
	out, err := svc.Update(ctx, "owner-1", p.ID, ProjectInput{Budget: budgetOf(0)}, "")
	require.NoError(t, err)
	assert.Equal(t, float64(0), out.Budget)
}

func TestProjectUpdateTitleBounds(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website"}, "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "owner-1", p.ID, ProjectInput{Title: "ab"}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Update(ctx, "owner-1", p.ID, ProjectInput{Title: strings.Repeat("t", 101)}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
}

func TestProjectUpdateEndBeforeExistingStart(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()
	start := time.Now()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website", StartDate: &start}, "")
	require.NoError(t, err)

	end := start.Add(-24 * time.Hour)
	_, err = svc.Update(ctx, "owner-1", p.ID, ProjectInput{EndDate: &end}, "")
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
}

func TestProjectDeleteSoftAndHard(t *testing.T) {
	svc, repo, _, _ := newProjectFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner-1", p.ID, DeleteActionSoft))
	assert.False(t, repo.projects[p.ID].IsActive)

	require.NoError(t, svc.Delete(ctx, "owner-1", p.ID, DeleteActionHard))
	assert.Empty(t, repo.projects)
}

func TestProjectDeleteOtherOwner(t *testing.T) {
	svc, _, _, _ := newProjectFixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner-1", ProjectInput{Title: "Website"}, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, "owner-2", p.ID, DeleteActionHard)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
}
