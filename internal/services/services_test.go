package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskmind.com/taskmind/internal/auth"
	"taskmind.com/taskmind/internal/policy"
	"taskmind.com/taskmind/internal/reports"
	repository "taskmind.com/taskmind/internal/repositories"
	"taskmind.com/taskmind/internal/storage"
	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

type fixture struct {
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	task      *TaskService
	user      *UserService
	auth      *AuthService
	dashboard *DashboardService
	report    *ReportService
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tasks := repository.NewTaskRepository(db)
	users := repository.NewUserRepository(db)
	images, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	return &fixture{
		tasks:     tasks,
		users:     users,
		task:      NewTaskService(tasks, users, log),
		user:      NewUserService(users, tasks, log),
		auth:      NewAuthService(users, auth.NewPasswordHasher(4), auth.NewTokenIssuer("test-secret-0123456789", time.Hour), images, "invite-me", log),
		dashboard: NewDashboardService(tasks),
		report:    NewReportService(tasks, users, reports.NewExporter(), log),
	}
}

func (f *fixture) seedUser(t *testing.T, name string, role constants.Role) *policy.Caller {
	t.Helper()
	u := &model.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "hash",
		Role:     role,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return &policy.Caller{ID: u.ID, Role: role}
}

func (f *fixture) seedTask(t *testing.T, admin *policy.Caller, title string, assignee *policy.Caller) *model.Task {
	t.Helper()
	in := CreateTaskInput{Title: title, DueDate: time.Now().Add(48 * time.Hour)}
	if assignee != nil {
		in.AssignedTo = assignee.ID
	}
	task, err := f.task.CreateTask(context.Background(), admin, in)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }

func TestTaskService_CreateAndGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	user := f.seedUser(t, "Uma", constants.RoleUser)

	due := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	created, err := f.task.CreateTask(ctx, admin, CreateTaskInput{
		Title:       "  Ship release  ",
		Description: "cut the tag",
		DueDate:     due,
		AssignedTo:  user.ID,
		Attachments: []model.Attachment{{Filename: "notes.txt", URL: "http://x/notes.txt"}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ship release", created.Title)
	assert.Equal(t, constants.PriorityMedium, created.Priority)
	assert.Equal(t, constants.StatusPending, created.Status)
	assert.Equal(t, admin.ID, created.CreatedBy)
	assert.Equal(t, 0, created.Progress)
	assert.False(t, created.Attachments[0].UploadedAt.IsZero())

	view, err := f.task.GetTask(ctx, user, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, view.ID)
	assert.True(t, due.Equal(view.DueDate))
	require.NotNil(t, view.AssignedUser)
	assert.Equal(t, "Uma", view.AssignedUser.Name)
	require.NotNil(t, view.Creator)
	assert.Equal(t, "admin@example.com", view.Creator.Email)
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)

	_, err := f.task.CreateTask(ctx, admin, CreateTaskInput{DueDate: time.Now()})
	assert.Equal(t, 400, exceptions.StatusCode(err))

	_, err = f.task.CreateTask(ctx, admin, CreateTaskInput{Title: "No due date"})
	assert.Equal(t, 400, exceptions.StatusCode(err))

	_, err = f.task.CreateTask(ctx, admin, CreateTaskInput{Title: "Bad", DueDate: time.Now(), Priority: "Urgent"})
	assert.ErrorIs(t, err, exceptions.ErrInvalidPriority)

	_, err = f.task.CreateTask(ctx, admin, CreateTaskInput{Title: "Ghost", DueDate: time.Now(), AssignedTo: "nobody"})
	assert.Equal(t, 400, exceptions.StatusCode(err))

	_, err = f.task.CreateTask(ctx, admin, CreateTaskInput{
		Title:         "Empty item",
		DueDate:       time.Now(),
		TodoChecklist: []model.ChecklistItem{{Text: " "}},
	})
	assert.Equal(t, 400, exceptions.StatusCode(err))

	all, err := f.tasks.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskService_NonAdminDeniedStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	user := f.seedUser(t, "Uma", constants.RoleUser)
	task := f.seedTask(t, admin, "Keep me", user)

	_, err := f.task.CreateTask(ctx, user, CreateTaskInput{Title: "Sneaky", DueDate: time.Now()})
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	assert.ErrorIs(t, f.task.DeleteTask(ctx, user, task.ID), exceptions.ErrForbidden)
	assert.ErrorIs(t, f.task.DeleteTask(ctx, user, "missing"), exceptions.ErrForbidden)

	_, err = f.user.ListUsersWithTaskCounts(ctx, user)
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	all, err := f.tasks.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, task.ID, all[0].ID)

	_, err = f.task.ListTasks(ctx, nil, "")
	assert.ErrorIs(t, err, exceptions.ErrUnauthenticated)
}

func TestTaskService_ListScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	vic := f.seedUser(t, "Vic", constants.RoleUser)

	f.seedTask(t, admin, "uma-1", uma)
	latest := f.seedTask(t, admin, "uma-2", uma)
	f.seedTask(t, admin, "vic-1", vic)
	f.seedTask(t, admin, "nobody", nil)

	all, err := f.task.ListTasks(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := f.task.ListTasks(ctx, uma, "")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, latest.ID, mine[0].ID)
	for _, v := range mine {
		assert.True(t, v.IsAssignedTo(uma.ID))
	}

	_, err = f.task.UpdateTaskStatus(ctx, uma, latest.ID, constants.StatusCompleted)
	require.NoError(t, err)
	done, err := f.task.ListTasks(ctx, uma, constants.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, latest.ID, done[0].ID)

	_, err = f.task.ListTasks(ctx, uma, "Done")
	assert.ErrorIs(t, err, exceptions.ErrInvalidStatus)
}

func TestTaskService_UpdateStatusAssigneeOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	vic := f.seedUser(t, "Vic", constants.RoleUser)
	task := f.seedTask(t, admin, "Status scenario", uma)

	view, err := f.task.UpdateTaskStatus(ctx, uma, task.ID, constants.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, view.Status)

	_, err = f.task.UpdateTaskStatus(ctx, vic, task.ID, constants.StatusCompleted)
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	_, err = f.task.UpdateTaskStatus(ctx, uma, task.ID, "Done")
	assert.ErrorIs(t, err, exceptions.ErrInvalidStatus)

	_, err = f.task.UpdateTaskStatus(ctx, uma, "missing", constants.StatusCompleted)
	assert.ErrorIs(t, err, exceptions.ErrTaskNotFound)

	stored, err := f.tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, stored.Status)
}

func TestTaskService_AssigneePatchRestricted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	task := f.seedTask(t, admin, "Original", uma)

	_, err := f.task.UpdateTask(ctx, uma, task.ID, TaskPatch{Title: ptr("Renamed")})
	assert.ErrorIs(t, err, exceptions.ErrAssigneeFieldForbidden)

	view, err := f.task.UpdateTask(ctx, uma, task.ID, TaskPatch{
		Status:        ptr(constants.StatusInProgress),
		TodoChecklist: &[]model.ChecklistItem{{Text: "a", Completed: true}, {Text: "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Original", view.Title)
	assert.Equal(t, 50, view.Progress)

	view, err = f.task.UpdateTask(ctx, admin, task.ID, TaskPatch{
		Title:      ptr("Renamed"),
		Priority:   ptr(constants.PriorityHigh),
		AssignedTo: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Title)
	assert.Equal(t, constants.PriorityHigh, view.Priority)
	assert.Nil(t, view.AssignedTo)
	assert.Nil(t, view.AssignedUser)

	_, err = f.task.UpdateTask(ctx, uma, task.ID, TaskPatch{Status: ptr(constants.StatusCompleted)})
	assert.ErrorIs(t, err, exceptions.ErrForbidden, "unassigned task is admin-only")

	_, err = f.task.UpdateTask(ctx, admin, task.ID, TaskPatch{Priority: ptr(constants.TaskPriority("Urgent"))})
	assert.ErrorIs(t, err, exceptions.ErrInvalidPriority)
}

func TestTaskService_ChecklistDrivesProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	task := f.seedTask(t, admin, "Checklist", uma)

	view, err := f.task.UpdateTaskChecklist(ctx, uma, task.ID, []model.ChecklistItem{
		{Text: "one", Completed: true},
		{Text: "two"},
		{Text: "three"},
	})
	require.NoError(t, err)
	assert.Equal(t, 33, view.Progress)

	view, err = f.task.UpdateTask(ctx, admin, task.ID, TaskPatch{Progress: ptr(90)})
	require.NoError(t, err)
	assert.Equal(t, 33, view.Progress, "derived while the checklist is non-empty")

	view, err = f.task.UpdateTaskChecklist(ctx, uma, task.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Progress)
	assert.Empty(t, view.TodoChecklist)

	view, err = f.task.UpdateTask(ctx, admin, task.ID, TaskPatch{Progress: ptr(150)})
	require.NoError(t, err)
	assert.Equal(t, 100, view.Progress)

	_, err = f.task.UpdateTaskChecklist(ctx, uma, task.ID, []model.ChecklistItem{{Text: ""}})
	assert.Equal(t, 400, exceptions.StatusCode(err))
}

func TestTaskService_ConcurrentCreates(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)

	const concurrentCount = 50
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)

	for i := 0; i < concurrentCount; i++ {
		go func(idx int) {
			defer wg.Done()
			_, err := f.task.CreateTask(context.Background(), admin, CreateTaskInput{
				Title:   fmt.Sprintf("task-%d", idx),
				DueDate: time.Now(),
			})
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	tasks, err := f.task.ListTasks(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Len(t, tasks, concurrentCount)
}

func TestUserService_ListWithTaskCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)

	f.seedTask(t, admin, "p1", uma)
	f.seedTask(t, admin, "p2", uma)
	done := f.seedTask(t, admin, "c1", uma)
	_, err := f.task.UpdateTaskStatus(ctx, uma, done.ID, constants.StatusCompleted)
	require.NoError(t, err)

	rows, err := f.user.ListUsersWithTaskCounts(ctx, admin)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var umaRow, adminRow = rows[1], rows[0]
	assert.Equal(t, uma.ID, umaRow.ID)
	assert.Equal(t, int64(2), umaRow.PendingTasks)
	assert.Equal(t, int64(0), umaRow.InProgressTasks)
	assert.Equal(t, int64(1), umaRow.CompletedTasks)
	assert.Equal(t, constants.RoleAdmin, adminRow.Role)
	assert.Zero(t, adminRow.PendingTasks)

	raw, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "hash")
}

func TestUserService_SelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	vic := f.seedUser(t, "Vic", constants.RoleUser)

	_, err := f.user.GetUser(ctx, uma, uma.ID)
	require.NoError(t, err)
	_, err = f.user.GetUser(ctx, admin, uma.ID)
	require.NoError(t, err)
	_, err = f.user.GetUser(ctx, vic, uma.ID)
	assert.ErrorIs(t, err, exceptions.ErrForbidden)
	_, err = f.user.GetUser(ctx, admin, "missing")
	assert.ErrorIs(t, err, exceptions.ErrUserNotFound)

	profile, err := f.user.UpdateUser(ctx, uma, uma.ID, UserPatch{Name: ptr("Uma Q"), Email: ptr(" UMA.Q@Example.com ")})
	require.NoError(t, err)
	assert.Equal(t, "Uma Q", profile.Name)
	assert.Equal(t, "uma.q@example.com", profile.Email)
	assert.Equal(t, constants.RoleUser, profile.Role)

	_, err = f.user.UpdateUser(ctx, vic, uma.ID, UserPatch{Name: ptr("hijack")})
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	_, err = f.user.UpdateUser(ctx, vic, vic.ID, UserPatch{Email: ptr("uma.q@example.com")})
	assert.ErrorIs(t, err, exceptions.ErrEmailTaken)

	_, err = f.user.UpdateUser(ctx, vic, vic.ID, UserPatch{Email: ptr("not-an-email")})
	assert.Equal(t, 400, exceptions.StatusCode(err))
}

func TestUserService_DeleteUnassignsTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	task := f.seedTask(t, admin, "Orphan", uma)

	assert.ErrorIs(t, f.user.DeleteUser(ctx, uma, uma.ID), exceptions.ErrForbidden)

	require.NoError(t, f.user.DeleteUser(ctx, admin, uma.ID))
	assert.ErrorIs(t, f.user.DeleteUser(ctx, admin, uma.ID), exceptions.ErrUserNotFound)

	stored, err := f.tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedTo)

	_, err = f.auth.Authenticate(ctx, mustToken(t, f, uma.ID))
	assert.ErrorIs(t, err, exceptions.ErrUnauthenticated)
}

func mustToken(t *testing.T, f *fixture, userID string) string {
	t.Helper()
	token, _, err := f.auth.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func TestAuthService_RegisterLoginAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Name: "Uma", Email: " Uma@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "uma@example.com", res.User.Email)
	assert.Equal(t, constants.RoleUser, res.User.Role)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Uma2", Email: "uma@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, exceptions.ErrEmailTaken)

	_, err = f.auth.Register(ctx, RegisterInput{Email: "x@example.com"})
	var appErr *exceptions.Exception
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "password")

	admin, err := f.auth.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1", AdminInviteToken: "invite-me"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, admin.User.Role)

	wrongInvite, err := f.auth.Register(ctx, RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "secret1", AdminInviteToken: "guess"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, wrongInvite.User.Role)

	login, err := f.auth.Login(ctx, "UMA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = f.auth.Login(ctx, "uma@example.com", "wrong-password")
	assert.ErrorIs(t, err, exceptions.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, exceptions.ErrInvalidCredentials)

	caller, err := f.auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, &policy.Caller{ID: res.User.ID, Role: constants.RoleUser}, caller)

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, exceptions.ErrUnauthenticated)
	_, err = f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, exceptions.ErrUnauthenticated)
}

func TestAuthService_UpdateProfilePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Name: "Uma", Email: "uma@example.com", Password: "secret1"})
	require.NoError(t, err)
	caller := &policy.Caller{ID: res.User.ID, Role: res.User.Role}

	updated, err := f.auth.UpdateProfile(ctx, caller, ProfilePatch{Name: ptr("Uma Prime"), Password: ptr("secret2")})
	require.NoError(t, err)
	assert.Equal(t, "Uma Prime", updated.User.Name)

	_, err = f.auth.Login(ctx, "uma@example.com", "secret1")
	assert.ErrorIs(t, err, exceptions.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "uma@example.com", "secret2")
	require.NoError(t, err)

	profile, err := f.auth.Profile(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "Uma Prime", profile.Name)

	_, err = f.auth.UpdateProfile(ctx, caller, ProfilePatch{Password: ptr("x")})
	assert.Equal(t, 400, exceptions.StatusCode(err))
}

func TestAuthService_CreateAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.auth.CreateAdmin(ctx, "Root", "root@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, profile.Role)

	_, err = f.auth.CreateAdmin(ctx, "Root", "root@example.com", "supersecret")
	assert.ErrorIs(t, err, exceptions.ErrEmailTaken)
}

func TestAuthService_UploadImage(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.UploadImage("avatar.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ImageURL, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(res.ImageURL, ".png"))

	_, err = f.auth.UploadImage("script.sh", strings.NewReader("#!/bin/sh"))
	assert.Equal(t, 400, exceptions.StatusCode(err))

	_, err = f.auth.UploadImage("", nil)
	assert.Equal(t, 400, exceptions.StatusCode(err))
}

func TestDashboardService_Scoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)
	vic := f.seedUser(t, "Vic", constants.RoleUser)

	f.seedTask(t, admin, "uma-1", uma)
	f.seedTask(t, admin, "uma-2", uma)
	f.seedTask(t, admin, "vic-1", vic)

	f.dashboard.now = func() time.Time { return time.Now().Add(72 * time.Hour) }

	global, err := f.dashboard.GlobalDashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, global.Statistic.TotalTasks)
	assert.Equal(t, 3, global.Charts.OverdueTasks)
	assert.Len(t, global.RecentTasks, 3)
	assert.Equal(t, "vic-1", global.RecentTasks[0].Title)

	_, err = f.dashboard.GlobalDashboard(ctx, uma)
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	mine, err := f.dashboard.UserDashboard(ctx, uma)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Statistic.TotalTasks)
	assert.Equal(t, mine.Statistic.TotalTasks,
		mine.Statistic.PendingTasks+mine.Statistic.InProgressTasks+mine.Statistic.CompletedTasks)

	empty, err := f.dashboard.UserDashboard(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, empty.Statistic.TotalTasks)
}

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestReportService_ExportTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)

	_, err := f.task.CreateTask(ctx, admin, CreateTaskInput{
		Title:      "Report me",
		DueDate:    time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC),
		Priority:   constants.PriorityHigh,
		AssignedTo: uma.ID,
	})
	require.NoError(t, err)

	_, err = f.report.ExportTasks(ctx, uma)
	assert.ErrorIs(t, err, exceptions.ErrForbidden)

	data, err := f.report.ExportTasks(ctx, admin)
	require.NoError(t, err)

	rows := readSheet(t, data, "Tasks")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Title", "Description", "Due Date", "Priority", "Status", "Assigned To", "Created By"}, rows[0])
	assert.Equal(t, "Report me", rows[1][0])
	assert.Equal(t, "2030-01-02", rows[1][2])
	assert.Equal(t, "High", rows[1][3])
	assert.Equal(t, "Pending", rows[1][4])
	assert.Equal(t, "Uma (uma@example.com)", rows[1][5])
	assert.Equal(t, "Admin (admin@example.com)", rows[1][6])
}

func TestReportService_ExportUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.seedUser(t, "Admin", constants.RoleAdmin)
	uma := f.seedUser(t, "Uma", constants.RoleUser)

	f.seedTask(t, admin, "first", uma)
	f.seedTask(t, admin, "second", uma)

	data, err := f.report.ExportUsers(ctx, admin)
	require.NoError(t, err)

	rows := readSheet(t, data, "User Tasks")
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"User Name", "User Email", "Role", "Task Title", "Task Status", "Task Due Date"}, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 3)
	assert.Equal(t, []string{"Admin", "admin@example.com", "admin"}, rows[1][:3])
	for _, cell := range rows[1][3:] {
		assert.Empty(t, cell)
	}
	assert.Equal(t, "Uma", rows[2][0])
	assert.Equal(t, "first", rows[2][3])
	assert.Equal(t, "second", rows[3][3])
}
