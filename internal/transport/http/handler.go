// Package http exposes the quiz service over a JSON REST surface plus a
// websocket leaderboard stream.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"popquiz-service/internal/app"
	"popquiz-service/internal/domain"
	"github.com/gorilla/mux"
)

// maxSubmitBody caps the submit request body at 1 MiB.
const maxSubmitBody = 1 << 20

// Handler serves the REST endpoints.
type Handler struct {
	service       *app.QuizService
	revealAnswers bool
}

// NewHandler creates a handler. When revealAnswers is set, GET /api/quiz
// includes each question's correct index, which lets clients render local
// feedback at the cost of making leaderboard scores unverifiable.
func NewHandler(service *app.QuizService, revealAnswers bool) *Handler {
	return &Handler{service: service, revealAnswers: revealAnswers}
}

// Register wires the API routes into the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/quiz", h.GetQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/submit", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/ws/leaderboard", h.StreamLeaderboard)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
}

type questionResponse struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   *int     `json:"answer,omitempty"`
}

type quizResponse struct {
	Questions []questionResponse `json:"questions"`
	Total     int                `json:"total"`
}

type submitRequest struct {
	PlayerName string          `json:"playerName"`
	Answers    []domain.Answer `json:"answers"`
	TotalTime  *float64        `json:"totalTime"`
}

type submitResponse struct {
	Score       int                       `json:"score"`
	Total       int                       `json:"total"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetQuiz returns a random question selection. limit defaults server-side
// and is clamped to the bank size.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	questions, total, err := h.service.Questions(r.Context(), limit)
	if err != nil {
		slog.Error("quiz selection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load questions, please try again")
		return
	}

	out := make([]questionResponse, len(questions))
	for i, q := range questions {
		out[i] = questionResponse{ID: q.ID, Question: q.Text, Choices: q.Choices}
		if h.revealAnswers {
			answer := q.Answer
			out[i].Answer = &answer
		}
	}
	slog.Info("quiz served", "questions", len(out), "bank_size", total)
	writeJSON(w, http.StatusOK, quizResponse{Questions: out, Total: total})
}

// GetLeaderboard returns the ranked top entries.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		slog.Error("leaderboard read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard, please try again")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

// Submit scores an attempt and merges it into the leaderboard.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("submit body rejected", "error", err, "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), req.PlayerName, req.Answers, req.TotalTime)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			slog.Warn("submit rejected", "error", err, "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save your result, please try again")
		return
	}

	slog.Info("submission accepted", "score", result.Score, "total", result.Total)
	writeJSON(w, http.StatusOK, submitResponse{
		Score:       result.Score,
		Total:       result.Total,
		Leaderboard: result.Leaderboard,
	})
}

// NotFound is the JSON 404 for unmapped routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
