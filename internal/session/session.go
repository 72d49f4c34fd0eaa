// Package session implements the client-side quiz lifecycle: question
// selection, navigation, answer capture, and elapsed-time tracking. It owns
// no I/O, so a terminal or web client can drive it directly.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"popquiz-service/internal/domain"
)

// DefaultCount is the question count used when Start is given a
// non-positive count.
const DefaultCount = 10

// State tracks where the session is in its lifecycle.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

// AdvanceResult reports what Advance did.
type AdvanceResult int

const (
	// AdvanceBlocked means the current question has no answer yet.
	AdvanceBlocked AdvanceResult = iota
	// Advanced means the cursor moved to the next question.
	Advanced
	// ReadyToSubmit means the last question was answered; the session stays
	// in progress until Complete is called after a successful submission.
	ReadyToSubmit
)

// Feedback is the derived correctness view for an answered position. It is
// computed from the recorded answer on every call, never cached.
type Feedback struct {
	Correct     bool
	AnswerIndex int
}

var (
	// ErrNotStarted is returned by operations that need a started session.
	ErrNotStarted = errors.New("session not started")
	// ErrEmptyBank is returned when Start is called with no questions.
	ErrEmptyBank = errors.New("no questions available")
)

// Session is one player's quiz attempt. It is not safe for concurrent use;
// the intended driver is a single UI loop.
type Session struct {
	bank      []domain.Question
	questions []domain.Question
	answers   []int
	current   int
	count     int
	startedAt time.Time
	state     State
	now       func() time.Time
	rnd       *rand.Rand
}

// New creates a session over the given bank.
func New(bank []domain.Question) *Session {
	return NewWithClock(bank, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithClock allows deterministic timestamps and shuffles in tests.
func NewWithClock(bank []domain.Question, now func() time.Time, rnd *rand.Rand) *Session {
	return &Session{bank: bank, now: now, rnd: rnd}
}

// Start selects count questions via a uniform permutation of the bank,
// clamped to [1, len(bank)] (DefaultCount when count <= 0), and resets all
// navigation and answer state.
func (s *Session) Start(count int) error {
	if len(s.bank) == 0 {
		return ErrEmptyBank
	}
	if count <= 0 {
		count = DefaultCount
	}
	if count > len(s.bank) {
		count = len(s.bank)
	}

	perm := s.rnd.Perm(len(s.bank))
	s.questions = make([]domain.Question, count)
	for i := 0; i < count; i++ {
		s.questions[i] = s.bank[perm[i]]
	}
	s.answers = make([]int, count)
	for i := range s.answers {
		s.answers[i] = -1
	}
	s.current = 0
	s.count = count
	s.startedAt = s.now()
	s.state = InProgress
	return nil
}

// Reset discards the attempt and starts over with a fresh shuffle of the
// same bank and count, so a retry is never a replay of the same order.
func (s *Session) Reset() error {
	if s.state == NotStarted {
		return ErrNotStarted
	}
	return s.Start(s.count)
}

// State reports the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Len is the number of questions in the running attempt.
func (s *Session) Len() int {
	return len(s.questions)
}

// Pos is the current question index.
func (s *Session) Pos() int {
	return s.current
}

// Current returns the question under the cursor.
func (s *Session) Current() (domain.Question, error) {
	if s.state == NotStarted {
		return domain.Question{}, ErrNotStarted
	}
	return s.questions[s.current], nil
}

// Question returns the question at an arbitrary position.
func (s *Session) Question(position int) (domain.Question, error) {
	if s.state == NotStarted {
		return domain.Question{}, ErrNotStarted
	}
	if position < 0 || position >= len(s.questions) {
		return domain.Question{}, fmt.Errorf("position %d out of range", position)
	}
	return s.questions[position], nil
}

// Select records the answer for a visited position. Re-selecting overwrites
// the previous answer; the derived feedback changes with it. Positions past
// the cursor cannot be answered.
func (s *Session) Select(position, choice int) error {
	if s.state == NotStarted {
		return ErrNotStarted
	}
	if position < 0 || position > s.current {
		return fmt.Errorf("position %d not yet visited", position)
	}
	if choice < 0 || choice >= len(s.questions[position].Choices) {
		return fmt.Errorf("choice %d out of range for question %d", choice, s.questions[position].ID)
	}
	s.answers[position] = choice
	return nil
}

// Selection returns the recorded choice index for a position.
func (s *Session) Selection(position int) (int, bool) {
	if !s.Answered(position) {
		return 0, false
	}
	return s.answers[position], true
}

// Answered reports whether the position has a recorded answer.
func (s *Session) Answered(position int) bool {
	return position >= 0 && position < len(s.answers) && s.answers[position] >= 0
}

// Feedback derives correctness for an answered position from the recorded
// answer and the question's correct index.
func (s *Session) Feedback(position int) (Feedback, bool) {
	if !s.Answered(position) {
		return Feedback{}, false
	}
	q := s.questions[position]
	return Feedback{
		Correct:     s.answers[position] == q.Answer,
		AnswerIndex: q.Answer,
	}, true
}

// CanAdvance reports whether the current question has been answered.
func (s *Session) CanAdvance() bool {
	return s.state == InProgress && s.Answered(s.current)
}

// Advance moves to the next question. It is blocked while the current
// question is unanswered; on the last question it signals readiness to
// submit instead of moving.
func (s *Session) Advance() AdvanceResult {
	if !s.CanAdvance() {
		return AdvanceBlocked
	}
	if s.current == len(s.questions)-1 {
		return ReadyToSubmit
	}
	s.current++
	return Advanced
}

// Retreat moves back one question, keeping the answer and feedback of the
// position left behind. It is a no-op at position zero.
func (s *Session) Retreat() bool {
	if s.state != InProgress || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Elapsed is the time since Start, or zero before the session starts.
func (s *Session) Elapsed() time.Duration {
	if s.state == NotStarted {
		return 0
	}
	return s.now().Sub(s.startedAt)
}

// Unanswered lists the positions that still lack an answer.
func (s *Session) Unanswered() []int {
	var missing []int
	for i, a := range s.answers {
		if a < 0 {
			missing = append(missing, i)
		}
	}
	return missing
}

// Payload builds the submission body for the attempt. It fails locally when
// any position is unanswered so an incomplete attempt never reaches the
// server.
func (s *Session) Payload() ([]domain.Answer, error) {
	if s.state == NotStarted {
		return nil, ErrNotStarted
	}
	if missing := s.Unanswered(); len(missing) > 0 {
		return nil, fmt.Errorf("%d questions unanswered", len(missing))
	}
	answers := make([]domain.Answer, len(s.questions))
	for i, q := range s.questions {
		answers[i] = domain.Answer{QuestionID: q.ID, ChoiceIndex: s.answers[i]}
	}
	return answers, nil
}

// Complete marks the attempt finished. Callers invoke it only after the
// server acknowledged the submission; a failed submission leaves the
// session in progress so the identical payload can be resent.
func (s *Session) Complete() {
	if s.state == InProgress {
		s.state = Completed
	}
}
