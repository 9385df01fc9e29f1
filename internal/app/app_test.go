package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki-motty/todo-copilot-sub000/internal/config"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
)

func newMemoryApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}
	a, err := New(cfg, logging.Nop())
	require.NoError(t, err)
	return a
}

func createTodo(t *testing.T, a *App, title string) {
	t.Helper()
	body := bytes.NewBufferString(`{"title":"` + title + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestMutatingRequestReachesOwnedEventBuffer(t *testing.T) {
	a := newMemoryApp(t)
	defer a.Close(context.Background())

	createTodo(t, a, "Ship release")

	events := a.svc.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "todo.created", string(events[0].Kind))
}

func TestCloseDrainsEventBuffer(t *testing.T) {
	a := newMemoryApp(t)

	createTodo(t, a, "Ship release")
	createTodo(t, a, "Write changelog")

	require.NoError(t, a.Close(context.Background()))
	assert.Empty(t, a.svc.DrainEvents())
}

func TestDrainEventsEmptiesBuffer(t *testing.T) {
	a := newMemoryApp(t)
	defer a.Close(context.Background())

	createTodo(t, a, "Ship release")

	a.drainEvents()
	assert.Empty(t, a.svc.DrainEvents())
}
