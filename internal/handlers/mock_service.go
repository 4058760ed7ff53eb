package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"
	"taskplanner/internal/service"

	"github.com/gin-gonic/gin"
)

// Shared failure for exercising internal-error paths.
var errTestDB = errors.New("database unavailable")

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error
	currentUser   *models.User
	currentErr    error

	lastSignUp      service.SignUpParams
	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) SignUp(p service.SignUpParams) (int, error) {
	m.lastSignUp = p
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}
func (m *mockAuth) CurrentUser(id int) (*models.User, error) {
	return m.currentUser, m.currentErr
}

type mockTasks struct {
	createResp  *models.Task
	createErr   error
	listResp    []models.Task
	listErr     error
	getResp     *models.Task
	getErr      error
	updateResp  *models.Task
	updateErr   error
	deleteErr   error
	summaryResp service.BoardSummary
	summaryErr  error

	lastOwnerID    int
	lastTaskID     int
	lastCreate     service.TaskCreateParams
	lastUpdate     service.TaskUpdateParams
	lastListFilter repository.TaskFilter
	deleteCalls    int
}

func (m *mockTasks) Create(ctx context.Context, ownerID int, p service.TaskCreateParams) (*models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastCreate = p
	return m.createResp, m.createErr
}
func (m *mockTasks) List(ctx context.Context, ownerID int, f repository.TaskFilter) ([]models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastListFilter = f
	return m.listResp, m.listErr
}
func (m *mockTasks) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastTaskID = id
	return m.getResp, m.getErr
}
func (m *mockTasks) Update(ctx context.Context, ownerID, id int, p service.TaskUpdateParams) (*models.Task, error) {
	m.lastOwnerID = ownerID
	m.lastTaskID = id
	m.lastUpdate = p
	return m.updateResp, m.updateErr
}
func (m *mockTasks) Delete(ctx context.Context, ownerID, id int) error {
	m.lastOwnerID = ownerID
	m.lastTaskID = id
	m.deleteCalls++
	return m.deleteErr
}
func (m *mockTasks) Summary(ctx context.Context, ownerID int) (service.BoardSummary, error) {
	m.lastOwnerID = ownerID
	return m.summaryResp, m.summaryErr
}

type mockAdvisor struct {
	category string
	minutes  int
	analysis service.Analysis

	lastText        string
	lastTitle       string
	categorizeCalls int
	estimateCalls   int
	analyzeCalls    int
}

func (m *mockAdvisor) Categorize(ctx context.Context, text string) string {
	m.categorizeCalls++
	m.lastText = text
	return m.category
}
func (m *mockAdvisor) EstimateMinutes(ctx context.Context, text string) int {
	m.estimateCalls++
	m.lastText = text
	return m.minutes
}
func (m *mockAdvisor) Analyze(ctx context.Context, description, title string) service.Analysis {
	m.analyzeCalls++
	m.lastText = description
	m.lastTitle = title
	return m.analysis
}

type mockActivity struct {
	resp      []models.TaskEvent
	err       error
	recordErr error

	lastOwnerID int
	lastFilter  service.ActivityFilter
	recorded    []models.TaskEvent
}

func (m *mockActivity) List(ctx context.Context, ownerID int, f service.ActivityFilter) ([]models.TaskEvent, error) {
	m.lastOwnerID = ownerID
	m.lastFilter = f
	return m.resp, m.err
}
func (m *mockActivity) Record(ctx context.Context, e models.TaskEvent) error {
	m.recorded = append(m.recorded, e)
	return m.recordErr
}

type mockReminder struct{}

func (m *mockReminder) Run(ctx context.Context, tick time.Duration) {}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
