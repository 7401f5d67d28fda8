package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/smashqueue/internal/auth"
	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/pubsub"
	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/mauv0809/smashqueue/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) QueueStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r)

		var info *queue.Info
		err := readWithRetry(func() error {
			var err error
			info, err = s.Queue.Status(identity.PlayerID)
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, info)
	}
}

func (s *Server) QueueJoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r)

		entry, err := s.Queue.Join(identity.PlayerID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.Metrics.IncQueueJoins()
		respondData(w, http.StatusCreated, entry)
	}
}

func (s *Server) QueueLeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r)

		if err := s.Queue.Leave(identity.PlayerID); err != nil {
			respondDomainError(w, err)
			return
		}
		s.Metrics.IncQueueLeaves()
		respondData(w, http.StatusOK, map[string]string{"status": "left"})
	}
}

func (s *Server) QueueCallHandler() http.HandlerFunc {
	type request struct {
		Count int `json:"count"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		req := request{Count: s.Cfg.Queue.CallSize}
		if r.ContentLength > 0 {
			if err := decodeBody(r, &req); err != nil {
				respondError(w, http.StatusBadRequest, "validation", "invalid request body")
				return
			}
		}
		if req.Count < 1 {
			respondError(w, http.StatusBadRequest, "validation", "count must be at least 1")
			return
		}

		entries, err := s.Queue.CallNext(req.Count)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.Metrics.IncQueueCallUps()

		playerIDs := make([]int64, len(entries))
		for i, e := range entries {
			playerIDs[i] = e.PlayerID
		}
		called, err := s.Players.GetMany(playerIDs)
		if err != nil {
			log.Error("Failed to load called players", "error", err)
		}

		if err := s.pubsub.SendMessage(pubsub.EventQueueCalled, entries); err != nil {
			log.Error("Failed to publish call-up event", "error", err)
		}
		if err := s.Notifier.SendCallUpNotification(entries, called, isDryRun); err != nil {
			log.Error("Failed to send call-up notification", "error", err)
		}

		respondData(w, http.StatusOK, entries)
	}
}

func (s *Server) MatchCreateHandler() http.HandlerFunc {
	type request struct {
		Court string  `json:"court"`
		Team1 []int64 `json:"team1"`
		Team2 []int64 `json:"team2"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "validation", "invalid request body")
			return
		}
		if req.Court == "" {
			respondError(w, http.StatusBadRequest, "validation", "court is required")
			return
		}

		m, err := s.Matches.Create(req.Court, req.Team1, req.Team2)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.Metrics.IncMatchesCreated()

		if err := s.pubsub.SendMessage(pubsub.EventMatchCreated, m); err != nil {
			log.Error("Failed to publish match created event", "error", err, "matchID", m.ID)
		}

		respondData(w, http.StatusCreated, m)
	}
}

func (s *Server) MatchResultHandler() http.HandlerFunc {
	type request struct {
		MatchID string            `json:"match_id"`
		Scores  []match.GameScore `json:"scores"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var req request
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "validation", "invalid request body")
			return
		}
		if req.MatchID == "" {
			respondError(w, http.StatusBadRequest, "validation", "match_id is required")
			return
		}

		m, err := s.Matches.RecordResult(req.MatchID, req.Scores)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.Metrics.IncMatchesCompleted()

		if err := s.pubsub.SendMessage(pubsub.EventMatchCompleted, m); err != nil {
			log.Error("Failed to publish match completed event", "error", err, "matchID", m.ID)
		}
		if err := s.Notifier.SendResultNotification(m, s.playerNames(m.Team1), s.playerNames(m.Team2), isDryRun); err != nil {
			log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
		}

		respondData(w, http.StatusOK, m)
	}
}

// playerNames resolves ids to display names for notifications. Lookup
// failures degrade to numeric ids rather than failing the request.
func (s *Server) playerNames(ids []int64) []string {
	found, err := s.Players.GetMany(ids)
	if err != nil {
		log.Error("Failed to load players for notification", "error", err)
	}
	byID := make(map[int64]string, len(found))
	for _, p := range found {
		byID[p.ID] = p.Name
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			names[i] = name
		} else {
			names[i] = fmt.Sprintf("player %d", id)
		}
	}
	return names
}

func (s *Server) ActiveMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var matches []match.Match
		err := readWithRetry(func() error {
			var err error
			matches, err = s.Matches.ListActive()
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, matches)
	}
}

func (s *Server) CompletedMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQueryParam(r, "limit", 20)
		offset := intQueryParam(r, "offset", 0)

		var matches []match.Match
		err := readWithRetry(func() error {
			var err error
			matches, err = s.Matches.ListCompleted(limit, offset)
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, matches)
	}
}

// profileView is a player joined with their aggregate stats.
type profileView struct {
	Player *players.Player    `json:"player"`
	Stats  *stats.PlayerStats `json:"stats"`
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r)
		s.respondProfile(w, identity.PlayerID)
	}
}

func (s *Server) respondProfile(w http.ResponseWriter, playerID int64) {
	var view profileView
	err := readWithRetry(func() error {
		p, err := s.Players.Get(playerID)
		if err != nil {
			return err
		}
		st, err := s.Stats.Get(playerID)
		if err != nil {
			return err
		}
		view = profileView{Player: p, Stats: st}
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	type request struct {
		Name  string `json:"name"`
		Bio   string `json:"bio"`
		Phone string `json:"phone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityFromContext(r)

		var req request
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "validation", "invalid request body")
			return
		}

		p, err := s.Players.UpdateProfile(identity.PlayerID, req.Name, req.Bio, req.Phone)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Profile updated", "player_id", identity.PlayerID)
		respondData(w, http.StatusOK, p)
	}
}

// requireTargetPlayer reads the id query parameter and enforces that a caller
// may only look at someone else's data with the view-any capability.
func (s *Server) requireTargetPlayer(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity := identityFromContext(r)
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		respondError(w, http.StatusBadRequest, "validation", "id is required")
		return 0, false
	}
	playerID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation", "id must be an integer")
		return 0, false
	}
	if playerID != identity.PlayerID && !auth.Allowed(identity.Role, auth.CapViewAnyProfile) {
		respondError(w, http.StatusForbidden, "forbidden", "insufficient permissions")
		return 0, false
	}
	return playerID, true
}

func (s *Server) UserProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := s.requireTargetPlayer(w, r)
		if !ok {
			return
		}
		s.respondProfile(w, playerID)
	}
}

func (s *Server) UserMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := s.requireTargetPlayer(w, r)
		if !ok {
			return
		}
		limit := intQueryParam(r, "limit", 20)

		var history []match.HistoryItem
		err := readWithRetry(func() error {
			var err error
			history, err = s.Matches.History(playerID, limit)
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, history)
	}
}

func (s *Server) AdminListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		limit := intQueryParam(r, "limit", 50)
		offset := intQueryParam(r, "offset", 0)

		var list []players.ListItem
		err := readWithRetry(func() error {
			var err error
			list, err = s.Players.List(filter, limit, offset)
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, list)
	}
}

func (s *Server) AdminUpdateUserHandler() http.HandlerFunc {
	type request struct {
		HandPreference players.HandPreference `json:"hand_preference"`
		SkillTier      players.SkillTier      `json:"skill_tier"`
		IsActive       *bool                  `json:"is_active"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation", "id must be an integer")
			return
		}

		var req request
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "validation", "invalid request body")
			return
		}

		if req.HandPreference != "" || req.SkillTier != "" {
			// Fields left out of the request keep their current value.
			current, err := s.Players.Get(playerID)
			if err != nil {
				respondDomainError(w, err)
				return
			}
			if req.HandPreference == "" {
				req.HandPreference = current.HandPreference
			}
			if req.SkillTier == "" {
				req.SkillTier = current.SkillTier
			}
			if err := s.Players.UpdateAdmin(playerID, req.HandPreference, req.SkillTier); err != nil {
				respondDomainError(w, err)
				return
			}
		}
		if req.IsActive != nil {
			if err := s.Players.SetActive(playerID, *req.IsActive); err != nil {
				respondDomainError(w, err)
				return
			}
		}

		p, err := s.Players.Get(playerID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Admin updated player", "player_id", playerID)
		respondData(w, http.StatusOK, p)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQueryParam(r, "limit", 10)

		var board []stats.LeaderboardEntry
		err := readWithRetry(func() error {
			var err error
			board, err = s.Stats.Leaderboard(limit)
			return err
		})
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondData(w, http.StatusOK, board)
	}
}

func (s *Server) SweepHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		expired := s.Processor.Sweep(isDryRun)
		respondData(w, http.StatusOK, map[string]int{"expired": expired})
	}
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Warn("Invalid query parameter, using fallback", "param", name, "value", raw, "fallback", fallback)
		return fallback
	}
	return parsed
}
