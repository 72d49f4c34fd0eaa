package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"popquiz-service/internal/domain"
)

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// LeaderboardStore abstracts how the leaderboard is persisted (file, Redis).
// Upsert must apply the merge and ranking rules atomically relative to other
// calls so concurrent submissions cannot lose updates.
type LeaderboardStore interface {
	List(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Upsert(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error)
}

// SubmitResult is the outcome of a scored submission.
type SubmitResult struct {
	Score       int
	Total       int
	Leaderboard []domain.LeaderboardEntry
}

// QuizService contains the quiz use cases: serving question selections,
// scoring submissions, and exposing the ranked leaderboard.
type QuizService struct {
	bank         BankRepository
	store        LeaderboardStore
	defaultCount int
	now          func() time.Time

	mu          sync.Mutex
	rnd         *rand.Rand
	subscribers map[chan []domain.LeaderboardEntry]struct{}
}

func NewQuizService(bank BankRepository, store LeaderboardStore, defaultCount int) *QuizService {
	return newQuizService(bank, store, defaultCount, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuizServiceWithClock is test-only for deterministic timestamps and
// question selections.
func NewQuizServiceWithClock(bank BankRepository, store LeaderboardStore, defaultCount int, now func() time.Time, rnd *rand.Rand) *QuizService {
	return newQuizService(bank, store, defaultCount, now, rnd)
}

func newQuizService(bank BankRepository, store LeaderboardStore, defaultCount int, now func() time.Time, rnd *rand.Rand) *QuizService {
	if defaultCount <= 0 {
		defaultCount = 10
	}
	return &QuizService{
		bank:         bank,
		store:        store,
		defaultCount: defaultCount,
		now:          now,
		rnd:          rnd,
		subscribers:  make(map[chan []domain.LeaderboardEntry]struct{}),
	}
}

// Questions returns a uniform random selection of limit questions without
// replacement, plus the bank size. limit is clamped to [1, bankSize]; a
// non-positive limit falls back to the configured default.
func (s *QuizService) Questions(ctx context.Context, limit int) ([]domain.Question, int, error) {
	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return nil, 0, err
	}
	if bank.Size() == 0 {
		return nil, 0, domain.ErrBankEmpty
	}

	if limit <= 0 {
		limit = s.defaultCount
	}
	if limit > bank.Size() {
		limit = bank.Size()
	}

	s.mu.Lock()
	perm := s.rnd.Perm(bank.Size())
	s.mu.Unlock()

	all := bank.Questions()
	selected := make([]domain.Question, limit)
	for i := 0; i < limit; i++ {
		selected[i] = all[perm[i]]
	}
	return selected, bank.Size(), nil
}

// Submit validates, scores, and persists an attempt, then returns the score
// and the updated top leaderboard. Validation failures leave the stored
// leaderboard untouched.
func (s *QuizService) Submit(ctx context.Context, playerName string, answers []domain.Answer, totalTime *float64) (SubmitResult, error) {
	name, err := domain.NormalizeName(playerName)
	if err != nil {
		return SubmitResult{}, err
	}
	if totalTime != nil && *totalTime < 0 {
		return SubmitResult{}, domain.ErrNegativeTime
	}

	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return SubmitResult{}, err
	}
	score, total, err := domain.Score(bank, answers)
	if err != nil {
		return SubmitResult{}, err
	}

	entry := domain.LeaderboardEntry{
		Name:           name,
		Score:          score,
		TotalQuestions: total,
		TotalTime:      totalTime,
		CompletedAt:    s.now(),
	}
	leaderboard, err := s.store.Upsert(ctx, entry)
	if err != nil {
		return SubmitResult{}, err
	}

	s.broadcast(leaderboard)
	return SubmitResult{Score: score, Total: total, Leaderboard: leaderboard}, nil
}

// Leaderboard returns the ranked top entries. Ranking is reapplied on read
// so display order never depends on stored order.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Rank(entries), nil
}

// Subscribe returns a channel that receives the current leaderboard and
// every subsequent update. The caller must invoke the returned cancel
// function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error) {
	ch := make(chan []domain.LeaderboardEntry, 8)

	// Snapshot, registration, and the initial send happen under one mutex
	// hold so a concurrent broadcast can neither slip between them nor end
	// up queued behind an older snapshot. The channel is buffered, so the
	// send cannot block.
	s.mu.Lock()
	initial, err := s.Leaderboard(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	s.subscribers[ch] = struct{}{}
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *QuizService) broadcast(leaderboard []domain.LeaderboardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- leaderboard:
		default:
			// Drop the stale snapshot so a slow consumer never blocks submits.
			select {
			case <-ch:
			default:
			}
			ch <- leaderboard
		}
	}
}
