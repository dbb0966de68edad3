package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vovakirdan/neonsnake/internal/storage"
)

const maxLimit = 100

// ScoreJSON is the wire form of a score record.
type ScoreJSON struct {
	ID         string    `json:"id"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	DurationMS int64     `json:"durationMs"`
	Mode       string    `json:"mode"`
	CreatedAt  time.Time `json:"createdAt"`
}

// StatsJSON is the wire form of the aggregate statistics.
type StatsJSON struct {
	TotalGames      int         `json:"totalGames"`
	TotalScore      int         `json:"totalScore"`
	TotalPlayTimeMS int64       `json:"totalPlayTimeMs"`
	HighScore       int         `json:"highScore"`
	HighestLevel    int         `json:"highestLevel"`
	AverageScore    int         `json:"averageScore"`
	RecentScores    []ScoreJSON `json:"recentScores"`
}

func toScoreJSON(r storage.ScoreRecord) ScoreJSON {
	return ScoreJSON{
		ID:         r.ID,
		Score:      r.Score,
		Level:      r.Level,
		DurationMS: r.Duration.Milliseconds(),
		Mode:       r.Mode,
		CreatedAt:  r.CreatedAt,
	}
}

func toScoresJSON(records []storage.ScoreRecord) []ScoreJSON {
	out := make([]ScoreJSON, 0, len(records))
	for _, r := range records {
		out = append(out, toScoreJSON(r))
	}
	return out
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scores.Statistics(h.maxRecent)
	if err != nil {
		h.logger.Error("statistics query failed", "error", err)
		writeError(w, "statistics unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, StatsJSON{
		TotalGames:      stats.TotalGames,
		TotalScore:      stats.TotalScore,
		TotalPlayTimeMS: stats.TotalPlayTime.Milliseconds(),
		HighScore:       stats.HighScore,
		HighestLevel:    stats.HighestLevel,
		AverageScore:    stats.AverageScore,
		RecentScores:    toScoresJSON(stats.RecentScores),
	})
}

// handleScores serves ?order=top|recent&limit=N.
func (h *handlers) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	var (
		records []storage.ScoreRecord
		err     error
	)
	switch order := r.URL.Query().Get("order"); order {
	case "", "top":
		records, err = h.scores.TopScores(limit)
	case "recent":
		records, err = h.scores.RecentScores(limit)
	default:
		writeError(w, "order must be top or recent", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("score query failed", "error", err)
		writeError(w, "scores unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, toScoresJSON(records))
}

func (h *handlers) handleHighScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.scores.HighScore()
	if err != nil {
		h.logger.Error("high score query failed", "error", err)
		writeError(w, "high score unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int{"highScore": score})
}

func (h *handlers) handleLive(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, "live feed disabled", http.StatusNotFound)
		return
	}
	state, ok := h.hub.Latest()
	if !ok {
		writeError(w, "no game in progress", http.StatusNotFound)
		return
	}
	writeJSON(w, state)
}

func (h *handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, "live feed disabled", http.StatusNotFound)
		return
	}
	h.hub.HandleWebSocket(w, r)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
