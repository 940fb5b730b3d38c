package handler

import (
	"bytes"
	"context"
	"io"
	"time"

	"helpdesk-system/backend/internal/dto"
	"helpdesk-system/backend/internal/service"
)

// ── Mock CheckInService ──

type mockCheckInService struct {
	checkInResult  *dto.CheckInResponse
	checkInErr     error
	checkOutResult *dto.CheckOutResponse
	checkOutErr    error
	listResult     []dto.OpenCheckInResponse
	listErr        error

	lastCheckIn *dto.CheckInRequest
	lastListID  int
}

func (m *mockCheckInService) CheckIn(_ context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	m.lastCheckIn = req
	return m.checkInResult, m.checkInErr
}
func (m *mockCheckInService) CheckOut(_ context.Context, _ *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	return m.checkOutResult, m.checkOutErr
}
func (m *mockCheckInService) ListByHelpdesk(_ context.Context, id int) ([]dto.OpenCheckInResponse, error) {
	m.lastListID = id
	return m.listResult, m.listErr
}

// ── Mock QueueService ──

type mockQueueService struct {
	addResult    *dto.AddQueueItemResponse
	addErr       error
	itemResult   *dto.QueueItemResponse
	updateErr    error
	statusErr    error
	listResult   []dto.QueueItemResponse
	listErr      error
	lastStatus   *dto.UpdateQueueItemStatusRequest
	lastCheckIn  int
	lastHelpdesk int
}

func (m *mockQueueService) Add(_ context.Context, _ *dto.AddQueueItemRequest) (*dto.AddQueueItemResponse, error) {
	return m.addResult, m.addErr
}
func (m *mockQueueService) Update(_ context.Context, _ *dto.UpdateQueueItemRequest) (*dto.QueueItemResponse, error) {
	return m.itemResult, m.updateErr
}
func (m *mockQueueService) UpdateStatus(_ context.Context, req *dto.UpdateQueueItemStatusRequest) (*dto.QueueItemResponse, error) {
	m.lastStatus = req
	return m.itemResult, m.statusErr
}
func (m *mockQueueService) ListByHelpdesk(_ context.Context, id int) ([]dto.QueueItemResponse, error) {
	m.lastHelpdesk = id
	return m.listResult, m.listErr
}
func (m *mockQueueService) ListByCheckIn(_ context.Context, id int) ([]dto.QueueItemResponse, error) {
	m.lastCheckIn = id
	return m.listResult, m.listErr
}

// ── Mock HelpdeskService ──

type mockHelpdeskService struct {
	helpdesk     *dto.HelpdeskResponse
	helpdeskErr  error
	list         []dto.HelpdeskResponse
	lastActive   bool
	deleteErr    error
	clearResult  *dto.ForceCheckoutResponse
	clearErr     error
	timespan     *dto.TimespanResponse
	timespanErr  error
	timespans    []dto.TimespanResponse
	lastDeleteID int
	calendar     string
}

func (m *mockHelpdeskService) Create(_ context.Context, _ *dto.CreateHelpdeskRequest) (*dto.HelpdeskResponse, error) {
	return m.helpdesk, m.helpdeskErr
}
func (m *mockHelpdeskService) GetByID(_ context.Context, _ int) (*dto.HelpdeskResponse, error) {
	return m.helpdesk, m.helpdeskErr
}
func (m *mockHelpdeskService) List(_ context.Context, activeOnly bool) ([]dto.HelpdeskResponse, error) {
	m.lastActive = activeOnly
	return m.list, nil
}
func (m *mockHelpdeskService) Update(_ context.Context, _ *dto.UpdateHelpdeskRequest) (*dto.HelpdeskResponse, error) {
	return m.helpdesk, m.helpdeskErr
}
func (m *mockHelpdeskService) Delete(_ context.Context, id int) error {
	m.lastDeleteID = id
	return m.deleteErr
}
func (m *mockHelpdeskService) ForceCheckoutAll(_ context.Context, _ int) (*dto.ForceCheckoutResponse, error) {
	return m.clearResult, m.clearErr
}
func (m *mockHelpdeskService) CreateTimespan(_ context.Context, _ *dto.CreateTimespanRequest) (*dto.TimespanResponse, error) {
	return m.timespan, m.timespanErr
}
func (m *mockHelpdeskService) GetTimespan(_ context.Context, _ int) (*dto.TimespanResponse, error) {
	return m.timespan, m.timespanErr
}
func (m *mockHelpdeskService) ListTimespans(_ context.Context) ([]dto.TimespanResponse, error) {
	return m.timespans, nil
}
func (m *mockHelpdeskService) UpdateTimespan(_ context.Context, _ *dto.UpdateTimespanRequest) (*dto.TimespanResponse, error) {
	return m.timespan, m.timespanErr
}
func (m *mockHelpdeskService) DeleteTimespan(_ context.Context, _ int) error {
	return m.timespanErr
}
func (m *mockHelpdeskService) TimespanCalendar(_ context.Context, _ int) (string, error) {
	return m.calendar, m.helpdeskErr
}

// ── Mock UnitService / TopicService ──

type mockUnitService struct {
	unit         *dto.UnitResponse
	unitErr      error
	units        []dto.UnitResponse
	importResult *dto.ImportUnitsResponse
	importErr    error

	lastSave     *dto.SaveUnitRequest
	lastActive   bool
	importedBody []byte
	importedDesk int
}

func (m *mockUnitService) Save(_ context.Context, req *dto.SaveUnitRequest) (*dto.UnitResponse, error) {
	m.lastSave = req
	return m.unit, m.unitErr
}
func (m *mockUnitService) GetByID(_ context.Context, _ int) (*dto.UnitResponse, error) {
	return m.unit, m.unitErr
}
func (m *mockUnitService) ListByHelpdesk(_ context.Context, _ int, activeOnly bool) ([]dto.UnitResponse, error) {
	m.lastActive = activeOnly
	return m.units, nil
}
func (m *mockUnitService) Delete(_ context.Context, _ int) error {
	return m.unitErr
}
func (m *mockUnitService) Import(_ context.Context, helpdeskID int, reader io.Reader) (*dto.ImportUnitsResponse, error) {
	m.importedDesk = helpdeskID
	m.importedBody, _ = io.ReadAll(reader)
	return m.importResult, m.importErr
}

type mockTopicService struct {
	topics []dto.TopicResponse
	err    error
}

func (m *mockTopicService) ListByUnit(_ context.Context, _ int) ([]dto.TopicResponse, error) {
	return m.topics, m.err
}

// ── Mock StudentService ──

type mockStudentService struct {
	student     *dto.StudentResponse
	studentErr  error
	students    []dto.StudentResponse
	validation  *service.NicknameValidation
	validateErr error
	generated   string
	generateErr error
}

func (m *mockStudentService) List(_ context.Context) ([]dto.StudentResponse, error) {
	return m.students, nil
}
func (m *mockStudentService) GetByNickname(_ context.Context, _ string) (*dto.StudentResponse, error) {
	return m.student, m.studentErr
}
func (m *mockStudentService) Add(_ context.Context, _ *dto.AddStudentRequest) (*dto.StudentResponse, error) {
	return m.student, m.studentErr
}
func (m *mockStudentService) Edit(_ context.Context, _ *dto.EditStudentRequest) (*dto.StudentResponse, error) {
	return m.student, m.studentErr
}
func (m *mockStudentService) Validate(_ context.Context, _ *dto.ValidateNicknameRequest) (*service.NicknameValidation, error) {
	return m.validation, m.validateErr
}
func (m *mockStudentService) Generate(_ context.Context) (string, error) {
	return m.generated, m.generateErr
}

// ── Mock UserService / AuthService ──

type mockUserService struct {
	user      *dto.UserResponse
	userErr   error
	users     []dto.UserResponse
	deleteErr error

	lastCaller int
	lastDelete int
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return m.user, m.userErr
}
func (m *mockUserService) GetByID(_ context.Context, _ int) (*dto.UserResponse, error) {
	return m.user, m.userErr
}
func (m *mockUserService) List(_ context.Context) ([]dto.UserResponse, error) {
	return m.users, nil
}
func (m *mockUserService) Update(_ context.Context, _ *dto.UpdateUserRequest, callerID int) (*dto.UserResponse, error) {
	m.lastCaller = callerID
	return m.user, m.userErr
}
func (m *mockUserService) Delete(_ context.Context, id int, callerID int) error {
	m.lastDelete, m.lastCaller = id, callerID
	return m.deleteErr
}
func (m *mockUserService) Verify(_ context.Context, _ int, _ string) (bool, error) {
	return true, nil
}
func (m *mockUserService) EnsureAdmin(_ context.Context) (bool, error) {
	return false, nil
}

type mockAuthService struct {
	loginResult *dto.LoginResponse
	loginErr    error
	logoutErr   error

	loggedOutJTI string
	loggedOutExp time.Time
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, expiresAt time.Time) error {
	m.loggedOutJTI, m.loggedOutExp = jti, expiresAt
	return m.logoutErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
	called   string
}

func (m *mockExportService) ExportZip(_ context.Context) (*bytes.Buffer, string, error) {
	m.called = "zip"
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportWorkbook(_ context.Context) (*bytes.Buffer, string, error) {
	m.called = "xlsx"
	return m.buf, m.filename, m.err
}
