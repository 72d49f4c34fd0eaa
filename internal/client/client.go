// Package client is a small HTTP client for the quiz API, used by the play
// command and available to other Go callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"popquiz-service/internal/domain"
)

// Client talks to a running quiz server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Quiz is a fetched question selection. RevealsAnswers is true when the
// server included correct-answer indexes, enabling local feedback.
type Quiz struct {
	Questions      []domain.Question
	Total          int
	RevealsAnswers bool
}

// Result is the server's response to an accepted submission.
type Result struct {
	Score       int                       `json:"score"`
	Total       int                       `json:"total"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// FetchQuiz requests a question selection. Questions without a revealed
// answer carry -1 in the Answer field.
func (c *Client) FetchQuiz(ctx context.Context, limit int) (Quiz, error) {
	url := fmt.Sprintf("%s/api/quiz?limit=%d", c.baseURL, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quiz{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Quiz{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Quiz{}, apiError(resp)
	}

	var body struct {
		Questions []struct {
			ID       int      `json:"id"`
			Question string   `json:"question"`
			Choices  []string `json:"choices"`
			Answer   *int     `json:"answer"`
		} `json:"questions"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}

	quiz := Quiz{Total: body.Total, RevealsAnswers: len(body.Questions) > 0}
	for _, q := range body.Questions {
		answer := -1
		if q.Answer != nil {
			answer = *q.Answer
		} else {
			quiz.RevealsAnswers = false
		}
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:      q.ID,
			Text:    q.Question,
			Choices: q.Choices,
			Answer:  answer,
		})
	}
	return quiz, nil
}

// Submit sends a completed attempt for scoring.
func (c *Client) Submit(ctx context.Context, playerName string, answers []domain.Answer, totalTime *float64) (Result, error) {
	payload, err := json.Marshal(map[string]any{
		"playerName": playerName,
		"answers":    answers,
		"totalTime":  totalTime,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, apiError(resp)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

// Leaderboard fetches the ranked top entries.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/leaderboard", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var body struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return body.Leaderboard, nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
