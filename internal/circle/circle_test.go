package circle

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCreateUserToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/w3s/users/token", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "user-1", payload["userId"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"userToken": "session-token"},
		})
	}))
	defer server.Close()

	client := New("test-key", server.URL, newTestLogger())

	token, err := client.CreateUserToken(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "session-token", token)
}

func TestCreateTransfer_SendsUserTokenAndFeeLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/w3s/user/transactions/transfer", r.URL.Path)
		require.Equal(t, "session-token", r.Header.Get("X-User-Token"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotEmpty(t, payload["idempotencyKey"])
		require.Equal(t, "wallet-1", payload["walletId"])
		require.Equal(t, []any{"25.00"}, payload["amounts"])

		fee, ok := payload["fee"].(map[string]any)
		require.True(t, ok)
		config, ok := fee["config"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "MEDIUM", config["feeLevel"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"challengeId": "challenge-1"},
		})
	}))
	defer server.Close()

	client := New("test-key", server.URL, newTestLogger())

	challengeID, err := client.CreateTransfer(context.Background(), "session-token", "wallet-1", "0xabc", "token-id", "25.00")
	require.NoError(t, err)
	require.Equal(t, "challenge-1", challengeID)
}

func TestRequest_SurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"message":"invalid api key"}`))
	}))
	defer server.Close()

	client := New("bad-key", server.URL, newTestLogger())

	_, err := client.CreateUserToken(context.Background(), "user-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}
