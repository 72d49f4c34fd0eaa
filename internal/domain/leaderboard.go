package domain

import (
	"sort"
	"strings"
)

// MaxLeaderboardSize bounds the persisted leaderboard; ranking truncates to
// this many entries on every write and every read-for-display.
const MaxLeaderboardSize = 25

// MaxNameLength is the rune limit applied to player names after whitespace
// normalization.
const MaxNameLength = 32

// NormalizeName collapses internal whitespace, trims the ends, and truncates
// to MaxNameLength runes. An empty result fails validation.
func NormalizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", ErrEmptyName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		// Truncation can land just past a word boundary; trim so the stored
		// name never ends in a space.
		name = strings.TrimRight(string(runes[:MaxNameLength]), " ")
	}
	return name, nil
}

// Score validates a submission against the bank and counts correct answers.
// The whole submission is rejected if it is empty, references an unknown
// question, or answers the same question twice; there is no partial scoring.
// total is the number of submitted answers, which supports variable-length
// quizzes independent of bank size.
func Score(bank Bank, answers []Answer) (score, total int, err error) {
	if len(answers) == 0 {
		return 0, 0, ErrNoAnswers
	}
	seen := make(map[int]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			return 0, 0, DuplicateQuestionError(a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}
		q, ok := bank.Get(a.QuestionID)
		if !ok {
			return 0, 0, UnknownQuestionError(a.QuestionID)
		}
		if a.ChoiceIndex == q.Answer {
			score++
		}
	}
	return score, len(answers), nil
}

// Merge folds a new attempt into the leaderboard under the replace-if-better
// rule: a missing name is appended; an existing entry is replaced only by a
// strictly higher score, or by an equal score with both times present and
// the new one strictly lower. Anything else is discarded, so a tie with a
// nil time never replaces and resubmitting an identical attempt is a no-op.
func Merge(entries []LeaderboardEntry, entry LeaderboardEntry) []LeaderboardEntry {
	for i, current := range entries {
		if current.Name != entry.Name {
			continue
		}
		if betterThan(entry, current) {
			merged := make([]LeaderboardEntry, len(entries))
			copy(merged, entries)
			merged[i] = entry
			return merged
		}
		return entries
	}
	return append(append([]LeaderboardEntry(nil), entries...), entry)
}

func betterThan(candidate, current LeaderboardEntry) bool {
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	if candidate.TotalTime == nil || current.TotalTime == nil {
		return false
	}
	return *candidate.TotalTime < *current.TotalTime
}

// Rank orders entries by score descending, then total time ascending (an
// absent time sorts after any recorded time), then completion time
// ascending, and truncates to MaxLeaderboardSize.
func Rank(entries []LeaderboardEntry) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		ti, tj := ranked[i].TotalTime, ranked[j].TotalTime
		switch {
		case ti != nil && tj != nil && *ti != *tj:
			return *ti < *tj
		case ti != nil && tj == nil:
			return true
		case ti == nil && tj != nil:
			return false
		}
		return ranked[i].CompletedAt.Before(ranked[j].CompletedAt)
	})
	if len(ranked) > MaxLeaderboardSize {
		ranked = ranked[:MaxLeaderboardSize]
	}
	return ranked
}
