package evolution

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icpa "github.com/Davibfr13/ICPA"
)

func testJob() *icpa.DeliveryJob {
	return &icpa.DeliveryJob{
		JobId:     "job-1",
		Recipient: "5511999999999",
		MediaKind: icpa.MediaImage,
		Caption:   "hello",
	}
}

func TestSendDeliversPayload(t *testing.T) {
	var apiKey string
	var got struct {
		Number    string `json:"number"`
		MediaType string `json:"mediatype"`
		Media     string `json:"media"`
		Caption   string `json:"caption"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := NewEvolutionTransport(server.URL, "secret")

	err := transport.Send(context.Background(), testJob(), []byte("payload"))

	assert.NoError(t, err)
	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, "5511999999999", got.Number)
	assert.Equal(t, "image", got.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("payload")), got.Media)
	assert.Equal(t, "hello", got.Caption)
}

func TestSendReturnsGatewayErrorOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("bad request"))
	}))
	defer server.Close()

	transport := NewEvolutionTransport(server.URL, "secret")

	err := transport.Send(context.Background(), testJob(), []byte("payload"))

	gatewayErr, ok := err.(*icpa.GatewayError)
	require.True(t, ok, "expected a GatewayError, got %v", err)
	assert.Equal(t, 500, gatewayErr.StatusCode)
	assert.Equal(t, "bad request", gatewayErr.Body)
	assert.Equal(t, "HTTP 500: bad request", gatewayErr.Error())
}

func TestSendAttemptsExactlyOnce(t *testing.T) {
	var attempts int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	transport := NewEvolutionTransport(server.URL, "secret")

	err := transport.Send(context.Background(), testJob(), []byte("payload"))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestSendReportsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	transport := NewEvolutionTransport(server.URL, "secret")

	err := transport.Send(context.Background(), testJob(), []byte("payload"))

	require.Error(t, err)
	_, ok := err.(*icpa.GatewayError)
	assert.False(t, ok, "a connection failure is not a gateway rejection")
}

func TestSendHonorsContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	transport := NewEvolutionTransport(server.URL, "secret")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := transport.Send(ctx, testJob(), []byte("payload"))

	require.Error(t, err)
	_, ok := err.(*icpa.GatewayError)
	assert.False(t, ok)
}
