package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

func testClient(detectURL, recommendURL string) *Client {
	log := logger.New(logger.LevelOff, nil)
	// Unlimited limiter so tests don't sleep.
	return NewClient(detectURL, recommendURL, log, WithDetectLimit(rate.NewLimiter(rate.Inf, 1)))
}

func TestDetectSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "data:image/jpeg;base64,abc", req["imageData"])

		json.NewEncoder(w).Encode(domain.DetectionResult{
			Success:             true,
			DetectedIngredients: []string{"tomato", "onion"},
			RawDetections: []domain.RawDetection{
				{Class: "tomato", Confidence: 91.2},
				{Class: "onion", Confidence: 64.0},
			},
			BoundingBoxes: []domain.BoundingBox{
				{X: 100, Y: 100, Width: 40, Height: 20, Class: "tomato", Confidence: 91.2},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	result, err := client.Detect(context.Background(), "data:image/jpeg;base64,abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "onion"}, result.DetectedIngredients)
	assert.Len(t, result.BoundingBoxes, 1)
}

func TestDetectEnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "model unavailable"})
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.Detect(context.Background(), "data:image/jpeg;base64,abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestDetectEmptyImage(t *testing.T) {
	client := testClient("http://unreachable.invalid", "http://unreachable.invalid")
	_, err := client.Detect(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoImage)
}

func TestRecommendEmptyBasketShortCircuits(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	recipes, err := client.Recommend(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.False(t, called, "empty basket must not hit the network")
}

func TestRecommendFiltersZeroMatch(t *testing.T) {
	pct := func(n int) *int { return &n }
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"tomato"}, req["ingredients"])

		json.NewEncoder(w).Encode(recommendResponse{
			Success: true,
			Recipes: []domain.Recipe{
				{Name: "Tomato Soup", MatchPercent: pct(50)},
				{Name: "Chocolate Cake", MatchPercent: pct(0)},
				{Name: "Bruschetta", MatchPercent: pct(25)},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	recipes, err := client.Recommend(context.Background(), []string{"tomato"})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Tomato Soup", recipes[0].Name)
	assert.Equal(t, "Bruschetta", recipes[1].Name)
}

func TestRecommendTransportFailurePreservesError(t *testing.T) {
	client := testClient("http://unreachable.invalid", "http://unreachable.invalid")
	_, err := client.Recommend(context.Background(), []string{"tomato"})
	require.Error(t, err)
}

func TestServingsDecoding(t *testing.T) {
	var r domain.Recipe
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","servings":4}`), &r))
	assert.Equal(t, "4", r.Servings.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","servings":"4-6 people"}`), &r))
	assert.Equal(t, "4-6 people", r.Servings.String())
}
