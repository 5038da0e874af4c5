package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		env := model.NewEnvelope(body["claim"], model.Verdict{
			CorrectAnswer: "Correct. The capital of Japan is Tokyo.",
			Confidence:    0.95,
		})
		_ = json.NewEncoder(w).Encode(env)
	}))
	defer server.Close()

	c := NewServiceClient(server.URL+"/fact-check", time.Second, model.HTTPConfig{})
	env, err := c.Verify(context.Background(), "The capital of Japan is Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "The capital of Japan is Tokyo", env.Context.Claim)
	assert.Equal(t, 0.95, env.Context.Confidence)
}

func TestServiceClient_CheckFoldsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Missing claim in request"}`))
	}))
	defer server.Close()

	c := NewServiceClient(server.URL, time.Second, model.HTTPConfig{})

	_, err := c.Verify(context.Background(), "x")
	require.Error(t, err)

	env := c.Check(context.Background(), "The capital of Japan is Tokyo")
	assert.Equal(t, "1.0", env.Version)
	assert.Equal(t, "fact_check", env.Context.Type)
	assert.Equal(t, "The capital of Japan is Tokyo", env.Context.Claim)
	assert.Contains(t, env.Context.CorrectAnswer, "Error verifying claim: ")
	assert.Equal(t, 0.0, env.Context.Confidence)
}

func TestServiceClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	env := NewServiceClient(url, time.Second, model.HTTPConfig{}).Check(context.Background(), "The capital of Japan is Tokyo")
	assert.Contains(t, env.Context.CorrectAnswer, "Error verifying claim: ")
	assert.Zero(t, env.Context.Confidence)
}
