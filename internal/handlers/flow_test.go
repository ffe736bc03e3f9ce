package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"pomodoroTracker/internal/events"
	"pomodoroTracker/internal/handlers"
	"pomodoroTracker/internal/handlers/dto"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/pomodoro"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/repository/inmemory"
	"pomodoroTracker/internal/search"
	"pomodoroTracker/internal/service"
	"pomodoroTracker/internal/session"
	"pomodoroTracker/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPomodoroFlow проходит путь проект -> задача -> сессия на настоящих
// сервисах и in-memory хранилище
func TestPomodoroFlow(t *testing.T) {
	logger.InitNop()
	fake := clockwork.NewFakeClockAt(now)
	repos := service.Repositories{
		Tasks:     inmemory.NewTaskStorage(),
		Pomodoros: inmemory.NewPomodoroStorage(),
		Projects:  inmemory.NewProjectStorage(),
	}
	statsService := service.NewStatsService(repos, nil, service.WithClock(fake))
	opts := []service.Option{
		service.WithClock(fake),
		service.WithPublisher(events.NewRecorder()),
		service.WithInvalidator(statsService),
	}
	h := handlers.NewHandler(handlers.Services{
		Tasks:     service.NewTaskService(repos, opts...),
		Pomodoros: service.NewPomodoroService(repos, service.PomodoroSettings{Cycle: session.DefaultCycleConfig()}, opts...),
		Projects:  service.NewProjectService(repos, opts...),
		Stats:     statsService,
	}, fake)
	router := chi.NewRouter()
	h.Routes(router)

	rec := do(router, http.MethodPost, "/projects", `{"name":"Thesis"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	p := field[project.Project](t, decode(t, rec), "project")

	rec = do(router, http.MethodPost, "/tasks", `{"title":"Chapter 1","project_id":"`+p.UUID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := field[dto.TaskResponse](t, decode(t, rec), "task")
	assert.Equal(t, task.StatusPending, created.Status)
	taskPath := "/tasks/" + created.UUID.String()

	rec = do(router, http.MethodPost, taskPath+"/pomodoros", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	pom := field[pomodoro.Pomodoro](t, decode(t, rec), "pomodoro")
	assert.Equal(t, pomodoro.TypeWork, pom.Type)
	assert.Equal(t, 25, pom.PlannedDurationMinutes)
	pomodoroPath := "/pomodoros/" + pom.UUID.String()

	rec = do(router, http.MethodPost, pomodoroPath+"/start", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, taskPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, task.StatusInProgress, field[dto.TaskResponse](t, decode(t, rec), "task").Status)

	fake.Advance(10 * time.Minute)
	rec = do(router, http.MethodGet, pomodoroPath+"/timer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := field[session.TimerView](t, decode(t, rec), "timer")
	assert.Equal(t, 900, view.RemainingSeconds)
	assert.Equal(t, 600, view.ElapsedSeconds)

	rec = do(router, http.MethodPost, pomodoroPath+"/resume", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, pomodoroPath+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, taskPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, field[dto.TaskResponse](t, decode(t, rec), "task").CompletedPomodoros)

	rec = do(router, http.MethodGet, taskPath+"/pomodoros/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pomodoro.TypeShortBreak, field[service.Recommendation](t, decode(t, rec), "recommendation").Type)

	rec = do(router, http.MethodGet, "/stats/pomodoros", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, field[stats.PomodoroStatistics](t, decode(t, rec), "stats").CompletedWork)

	rec = do(router, http.MethodPost, taskPath+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/projects/"+p.UUID.String()+"/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)
	assert.Contains(t, string(summary["summary"]), `"percentage":100`)

	rec = do(router, http.MethodDelete, "/projects/"+p.UUID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, pomodoroPath, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestSearchTasks_PageFarPastEnd тестирует страницу за концом списка на
// настоящем поиске: пустая страница и верный total
func TestSearchTasks_PageFarPastEnd(t *testing.T) {
	logger.InitNop()
	fake := clockwork.NewFakeClockAt(now)
	repos := service.Repositories{
		Tasks:     inmemory.NewTaskStorage(),
		Pomodoros: inmemory.NewPomodoroStorage(),
		Projects:  inmemory.NewProjectStorage(),
	}
	h := handlers.NewHandler(handlers.Services{
		Tasks:    service.NewTaskService(repos, service.WithClock(fake)),
		Projects: service.NewProjectService(repos, service.WithClock(fake)),
	}, fake)
	router := chi.NewRouter()
	h.Routes(router)

	rec := do(router, http.MethodPost, "/projects", `{"name":"Inbox"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	p := field[project.Project](t, decode(t, rec), "project")
	rec = do(router, http.MethodPost, "/tasks", `{"title":"only","project_id":"`+p.UUID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, query := range []string{
		"?page=100000000000000000&size=100",
		"?page=9223372036854775807",
	} {
		t.Run(query, func(t *testing.T) {
			rec := do(router, http.MethodGet, "/tasks"+query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			page := field[search.Page[dto.TaskResponse]](t, decode(t, rec), "tasks")
			assert.Empty(t, page.Items)
			assert.Equal(t, 1, page.Total)
			assert.Equal(t, 1, page.TotalPages)
		})
	}
}
