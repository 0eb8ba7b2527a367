package queue_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/queue"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHTTPQueue_Enqueue(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	q := queue.NewHTTPQueue(srv.URL, srv.Client())
	require.NoError(t, q.Enqueue(context.Background(), "deploy-staging"))
	assert.Equal(t, map[string]string{"job": "deploy-staging"}, got)
}

func TestHTTPQueue_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown job", http.StatusNotFound)
	}))
	defer srv.Close()

	err := queue.NewHTTPQueue(srv.URL, srv.Client()).Enqueue(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrEnqueueFailed)
}

func TestHTTPQueue_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := queue.NewHTTPQueue(url, nil).Enqueue(context.Background(), "deploy")
	require.ErrorIs(t, err, domain.ErrEnqueueFailed)
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	q := queue.New("", log)
	require.IsType(t, &queue.LogQueue{}, q)
	log.EXPECT().Info("downstream job triggered", "job", "deploy")
	require.NoError(t, q.Enqueue(context.Background(), "deploy"))

	assert.IsType(t, &queue.HTTPQueue{}, queue.New("http://jobs.internal/queue", log))
}
