package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictProba(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected map[string]float64
	}{
		{"map form", `{"probabilities":{"378":0.7," 420 ":0.3}}`, map[string]float64{"378": 0.7, "420": 0.3}},
		{"array form", `{"labels":["323","506"],"probabilities":[0.4,0.6]}`, map[string]float64{"323": 0.4, "506": 0.6}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/predict_proba", r.URL.Path)
				var req predictRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "he stole my wallet", req.Text)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := NewClient(Config{BaseURL: srv.URL + "/"})
			require.NoError(t, err)
			probs, err := client.PredictProba(context.Background(), "he stole my wallet")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, probs)
		})
	}
}

func TestPredictProbaFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadGateway, `oops`},
		{"bad json", http.StatusOK, `{"probabilities":`},
		{"missing probabilities", http.StatusOK, `{}`},
		{"length mismatch", http.StatusOK, `{"labels":["378"],"probabilities":[0.5,0.5]}`},
		{"scalar", http.StatusOK, `{"probabilities":0.5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := NewClient(Config{BaseURL: srv.URL})
			require.NoError(t, err)
			_, err = client.PredictProba(context.Background(), "text")
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestPredictProbaTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = client.PredictProba(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrMissingURL)
}

func TestOfflineClassifier(t *testing.T) {
	var cls Classifier = Offline{}
	_, err := cls.PredictProba(context.Background(), "anything at all")
	assert.ErrorIs(t, err, ErrUnavailable)
}
