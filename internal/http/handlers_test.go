package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/smashqueue/internal/auth"
	"github.com/mauv0809/smashqueue/internal/config"
	"github.com/mauv0809/smashqueue/internal/database"
	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/notifier"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/processor"
	"github.com/mauv0809/smashqueue/internal/pubsub"
	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/mauv0809/smashqueue/internal/stats"
)

const testJWTSecret = "test-jwt-secret"

// setupTestServer initializes a new server with an in-memory database and
// mock notifier/pubsub clients.
func setupTestServer(t *testing.T) (*Server, *notifier.Mock, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret: testJWTSecret,
		Queue: config.QueueConfig{
			CallSize:         4,
			AvgMatchDuration: 15 * time.Minute,
			CalledTTL:        10 * time.Minute,
		},
	}

	playerStore := players.New(db)
	aggregator := stats.New(db)
	queueStore := queue.New(db, queue.DefaultEstimator(cfg.Queue.AvgMatchDuration))
	matchCtrl := match.New(db, queueStore, aggregator)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	notifierMock := notifier.NewMock()
	pubsubMock := pubsub.NewMock("TEST")
	proc := processor.New(queueStore, metricsSvc, pubsubMock, cfg.Queue.CalledTTL)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	server := NewServer(playerStore, queueStore, matchCtrl, aggregator, metricsSvc, metricsHandler, cfg, notifierMock, proc, verifier, pubsubMock)

	teardown := func() {
		dbTeardown()
		db.Close()
	}
	return server, notifierMock, pubsubMock, teardown
}

// registerPlayer creates a player and returns it together with a valid token
// for the given role.
func registerPlayer(t *testing.T, s *Server, username string, role players.Role) (*players.Player, string) {
	t.Helper()

	p, err := s.Players.Create(username, "", "")
	require.NoError(t, err)

	token, err := s.Verifier.Mint(auth.Identity{PlayerID: p.ID, Username: p.Username, Role: role}, time.Hour)
	require.NoError(t, err)
	return p, token
}

func doRequest(t *testing.T, s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

// decodeEnvelope parses the response envelope, asserting the success flag.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, wantSuccess bool) map[string]any {
	t.Helper()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, wantSuccess, resp["success"])
	return resp
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	rr := doRequest(t, server, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestMissingTokenRejected(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	rr := doRequest(t, server, "GET", "/queue", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	resp := decodeEnvelope(t, rr, false)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "unauthorized", errObj["code"])
}

func TestInvalidTokenRejected(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	rr := doRequest(t, server, "GET", "/queue", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestQueueJoinStatusLeaveFlow(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, token := registerPlayer(t, server, "anna", players.RolePlayer)

	rr := doRequest(t, server, "POST", "/queue/join", token, nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	entry := resp["data"].(map[string]any)
	assert.Equal(t, float64(1), entry["position"])

	// Joining twice is a conflict.
	rr = doRequest(t, server, "POST", "/queue/join", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	decodeEnvelope(t, rr, false)

	rr = doRequest(t, server, "GET", "/queue", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	info := resp["data"].(map[string]any)
	assert.Equal(t, float64(1), info["total_in_queue"])
	assert.Equal(t, float64(1), info["your_position"])
	assert.Equal(t, "Next up!", info["estimated_wait"])

	rr = doRequest(t, server, "POST", "/queue/leave", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "POST", "/queue/leave", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestQueueCallRequiresOrganizer(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, playerToken := registerPlayer(t, server, "anna", players.RolePlayer)

	rr := doRequest(t, server, "POST", "/queue/call", playerToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	resp := decodeEnvelope(t, rr, false)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "forbidden", errObj["code"])
}

func TestQueueCallWithTooFewWaiting(t *testing.T) {
	server, notifierMock, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "bo", players.RoleOrganizer)

	rr := doRequest(t, server, "POST", "/queue/call", orgToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Empty(t, notifierMock.CallUpCalls)
}

func TestQueueCallNotifiesInFIFOOrder(t *testing.T) {
	server, notifierMock, pubsubMock, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)

	var ids []int64
	for _, username := range []string{"a", "b", "c", "d"} {
		p, token := registerPlayer(t, server, username, players.RolePlayer)
		ids = append(ids, p.ID)
		rr := doRequest(t, server, "POST", "/queue/join", token, nil)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doRequest(t, server, "POST", "/queue/call", orgToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	called := resp["data"].([]any)
	require.Len(t, called, 4)
	for i, raw := range called {
		entry := raw.(map[string]any)
		assert.Equal(t, float64(ids[i]), entry["player_id"])
		assert.Equal(t, "called", entry["status"])
	}

	require.Len(t, notifierMock.CallUpCalls, 1)
	assert.Len(t, notifierMock.CallUpCalls[0].Called, 4)
	require.Len(t, pubsubMock.SendMessageCalls, 1)
	assert.Equal(t, "queue-called", pubsubMock.SendMessageCalls[0].Topic)
}

func TestMatchLifecycleOverHTTP(t *testing.T) {
	server, notifierMock, pubsubMock, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)

	var ids []int64
	for _, username := range []string{"a", "b", "c", "d"} {
		p, _ := registerPlayer(t, server, username, players.RolePlayer)
		ids = append(ids, p.ID)
	}

	rr := doRequest(t, server, "POST", "/matches", orgToken, map[string]any{
		"court": "Court 1",
		"team1": []int64{ids[0], ids[1]},
		"team2": []int64{ids[2], ids[3]},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	created := resp["data"].(map[string]any)
	matchID := created["id"].(string)
	assert.Equal(t, "pending", created["result"])

	rr = doRequest(t, server, "GET", "/matches/active", orgToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	assert.Len(t, resp["data"].([]any), 1)

	rr = doRequest(t, server, "PUT", "/matches/result", orgToken, map[string]any{
		"match_id": matchID,
		"scores": []map[string]int{
			{"team1_score": 21, "team2_score": 15},
			{"team1_score": 18, "team2_score": 21},
			{"team1_score": 21, "team2_score": 19},
		},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	completed := resp["data"].(map[string]any)
	assert.Equal(t, "team1", completed["result"])

	// Submitting a second result is rejected.
	rr = doRequest(t, server, "PUT", "/matches/result", orgToken, map[string]any{
		"match_id": matchID,
		"scores":   []map[string]int{{"team1_score": 10, "team2_score": 21}},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	require.Len(t, notifierMock.ResultCalls, 1)
	assert.Len(t, pubsubMock.SendMessageCalls, 2) // created + completed

	rr = doRequest(t, server, "GET", "/matches/active", orgToken, nil)
	resp = decodeEnvelope(t, rr, true)
	assert.Empty(t, resp["data"].([]any))

	rr = doRequest(t, server, "GET", "/admin/matches/completed", orgToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	assert.Len(t, resp["data"].([]any), 1)
}

func TestMatchCreateValidation(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)
	a, _ := registerPlayer(t, server, "a", players.RolePlayer)
	b, _ := registerPlayer(t, server, "b", players.RolePlayer)

	rr := doRequest(t, server, "POST", "/matches", orgToken, map[string]any{
		"court": "Court 1",
		"team1": []int64{a.ID, b.ID},
		"team2": []int64{b.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr, false)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, "validation", errObj["code"])

	rr = doRequest(t, server, "POST", "/matches", orgToken, map[string]any{
		"team1": []int64{a.ID},
		"team2": []int64{b.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMatchResultUnknownMatch(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)

	rr := doRequest(t, server, "PUT", "/matches/result", orgToken, map[string]any{
		"match_id": "no-such-match",
		"scores":   []map[string]int{{"team1_score": 21, "team2_score": 10}},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProfileRoundtrip(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, token := registerPlayer(t, server, "anna", players.RolePlayer)

	rr := doRequest(t, server, "GET", "/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	view := resp["data"].(map[string]any)
	player := view["player"].(map[string]any)
	assert.Equal(t, "anna", player["username"])
	statsObj := view["stats"].(map[string]any)
	assert.Equal(t, float64(0), statsObj["total_matches"])

	rr = doRequest(t, server, "PUT", "/profile", token, map[string]any{
		"name":  "Anna Larsen",
		"bio":   "Backhand specialist",
		"phone": "12345678",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	updated := resp["data"].(map[string]any)
	assert.Equal(t, "Anna Larsen", updated["name"])
	assert.Equal(t, "Backhand specialist", updated["bio"])
}

func TestViewingOthersRequiresCapability(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	anna, annaToken := registerPlayer(t, server, "anna", players.RolePlayer)
	bo, boToken := registerPlayer(t, server, "bo", players.RolePlayer)
	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)

	// A player may view their own data through the id-based routes.
	rr := doRequest(t, server, "GET", fmt.Sprintf("/users/profile?id=%d", anna.ID), annaToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// But not someone else's.
	rr = doRequest(t, server, "GET", fmt.Sprintf("/users/profile?id=%d", bo.ID), annaToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, server, "GET", fmt.Sprintf("/users/matches?id=%d", anna.ID), boToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Organizers can view anyone.
	rr = doRequest(t, server, "GET", fmt.Sprintf("/users/profile?id=%d", bo.ID), orgToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", "/users/profile?id=abc", orgToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminUserRoutes(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, playerToken := registerPlayer(t, server, "anna", players.RolePlayer)
	target, _ := registerPlayer(t, server, "bo", players.RolePlayer)
	_, adminToken := registerPlayer(t, server, "admin", players.RoleAdmin)

	rr := doRequest(t, server, "GET", "/admin/users", playerToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, server, "GET", "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	assert.Len(t, resp["data"].([]any), 3)

	rr = doRequest(t, server, "GET", "/admin/users?filter=bo", adminToken, nil)
	resp = decodeEnvelope(t, rr, true)
	assert.Len(t, resp["data"].([]any), 1)

	rr = doRequest(t, server, "PUT", fmt.Sprintf("/admin/users/%d", target.ID), adminToken, map[string]any{
		"hand_preference": "left",
		"skill_tier":      "P+",
		"is_active":       false,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	updated := resp["data"].(map[string]any)
	assert.Equal(t, "left", updated["hand_preference"])
	assert.Equal(t, "P+", updated["skill_tier"])
	assert.Equal(t, false, updated["is_active"])

	rr = doRequest(t, server, "PUT", fmt.Sprintf("/admin/users/%d", target.ID), adminToken, map[string]any{
		"skill_tier": "Z",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, server, "PUT", "/admin/users/9999", adminToken, map[string]any{
		"skill_tier": "A",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboardHandler(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)
	a, _ := registerPlayer(t, server, "a", players.RolePlayer)
	b, _ := registerPlayer(t, server, "b", players.RolePlayer)

	rr := doRequest(t, server, "POST", "/matches", orgToken, map[string]any{
		"court": "Court 1",
		"team1": []int64{a.ID},
		"team2": []int64{b.ID},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	matchID := resp["data"].(map[string]any)["id"].(string)

	rr = doRequest(t, server, "PUT", "/matches/result", orgToken, map[string]any{
		"match_id": matchID,
		"scores":   []map[string]int{{"team1_score": 21, "team2_score": 10}},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", "/leaderboard", orgToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	board := resp["data"].([]any)
	require.Len(t, board, 2)
	top := board[0].(map[string]any)
	assert.Equal(t, float64(a.ID), top["player_id"])
	assert.Equal(t, "a", top["player_name"])
}

func TestSweepHandler(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)
	_, adminToken := registerPlayer(t, server, "admin", players.RoleAdmin)

	// Sweeping is admin-only.
	rr := doRequest(t, server, "POST", "/sweep", orgToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doRequest(t, server, "POST", "/sweep", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(0), data["expired"])
}

func TestUserMatchesHandler(t *testing.T) {
	server, _, _, teardown := setupTestServer(t)
	defer teardown()

	_, orgToken := registerPlayer(t, server, "organizer", players.RoleOrganizer)
	a, aToken := registerPlayer(t, server, "a", players.RolePlayer)
	b, _ := registerPlayer(t, server, "b", players.RolePlayer)

	rr := doRequest(t, server, "POST", "/matches", orgToken, map[string]any{
		"court": "Court 1",
		"team1": []int64{a.ID},
		"team2": []int64{b.ID},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decodeEnvelope(t, rr, true)
	matchID := resp["data"].(map[string]any)["id"].(string)

	rr = doRequest(t, server, "PUT", "/matches/result", orgToken, map[string]any{
		"match_id": matchID,
		"scores":   []map[string]int{{"team1_score": 21, "team2_score": 10}},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, server, "GET", fmt.Sprintf("/users/matches?id=%d", a.ID), aToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeEnvelope(t, rr, true)
	history := resp["data"].([]any)
	require.Len(t, history, 1)
	item := history[0].(map[string]any)
	assert.Equal(t, true, item["won"])
}
