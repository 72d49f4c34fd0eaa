package domain

import (
	"fmt"
	"time"
)

// Question models a single multiple-choice question. Answer is the index of
// the correct entry in Choices.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Choices []string `json:"choices"`
	Answer  int      `json:"answer"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if len(q.Choices) < 2 {
		return fmt.Errorf("question %d: needs at least 2 choices, has %d", q.ID, len(q.Choices))
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("question %d: answer index %d out of range", q.ID, q.Answer)
	}
	return nil
}

// Bank is a validated, id-unique, ordered question collection. It is
// immutable after construction; reads need no locking.
type Bank struct {
	questions []Question
	byID      map[int]Question
}

// NewBank validates every question and rejects duplicate ids.
func NewBank(questions []Question) (Bank, error) {
	byID := make(map[int]Question, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return Bank{}, err
		}
		if _, ok := byID[q.ID]; ok {
			return Bank{}, fmt.Errorf("duplicate question id %d in bank", q.ID)
		}
		byID[q.ID] = q
	}
	return Bank{questions: questions, byID: byID}, nil
}

// Questions returns the bank contents in load order.
func (b Bank) Questions() []Question {
	return b.questions
}

// Get looks a question up by id.
func (b Bank) Get(id int) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Size reports how many questions the bank holds.
func (b Bank) Size() int {
	return len(b.questions)
}

// Answer is one submitted (question, selected choice) pair.
type Answer struct {
	QuestionID  int `json:"questionId"`
	ChoiceIndex int `json:"choiceIndex"`
}

// LeaderboardEntry is a player's best persisted attempt. TotalTime is nil
// for untimed attempts.
type LeaderboardEntry struct {
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TotalTime      *float64  `json:"totalTime"`
	CompletedAt    time.Time `json:"completedAt"`
}
