package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Ada   Lovelace\t ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if name != "Ada Lovelace" {
		t.Fatalf("expected collapsed name, got %q", name)
	}

	long, err := NormalizeName("abcdefghijklmnopqrstuvwxyz0123456789")
	if err != nil {
		t.Fatalf("normalize long: %v", err)
	}
	if len([]rune(long)) != MaxNameLength {
		t.Fatalf("expected truncation to %d runes, got %d", MaxNameLength, len([]rune(long)))
	}

	if _, err := NormalizeName("   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestNormalizeNameTruncationDropsTrailingSpace(t *testing.T) {
	// 31 letters, then a space at rune 32 with another word beyond it.
	raw := strings.Repeat("a", 31) + " world"
	name, err := NormalizeName(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if strings.HasSuffix(name, " ") {
		t.Fatalf("expected no trailing space, got %q", name)
	}
	if name != strings.Repeat("a", 31) {
		t.Fatalf("unexpected truncated name %q", name)
	}
}

func TestScore(t *testing.T) {
	bank := testBank(t)

	score, total, err := Score(bank, []Answer{
		{QuestionID: 1, ChoiceIndex: 1}, // correct
		{QuestionID: 2, ChoiceIndex: 0}, // wrong
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != 1 || total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", score, total)
	}
}

func TestScoreRejectsDuplicates(t *testing.T) {
	bank := testBank(t)

	_, _, err := Score(bank, []Answer{
		{QuestionID: 1, ChoiceIndex: 1},
		{QuestionID: 1, ChoiceIndex: 0},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for duplicate question, got %v", err)
	}
}

func TestScoreRejectsUnknownQuestion(t *testing.T) {
	bank := testBank(t)

	_, _, err := Score(bank, []Answer{{QuestionID: 99, ChoiceIndex: 0}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown question, got %v", err)
	}

	if _, _, err := Score(bank, nil); !errors.Is(err, ErrNoAnswers) {
		t.Fatalf("expected ErrNoAnswers, got %v", err)
	}
}

func TestMergeReplacesFasterSameScore(t *testing.T) {
	existing := []LeaderboardEntry{entry("A", 3, ptr(40))}

	merged := Merge(existing, entry("A", 3, ptr(35)))
	if len(merged) != 1 || *merged[0].TotalTime != 35 {
		t.Fatalf("expected faster attempt to replace, got %+v", merged)
	}

	merged = Merge(merged, entry("A", 2, ptr(10)))
	if *merged[0].TotalTime != 35 || merged[0].Score != 3 {
		t.Fatalf("expected lower score to be discarded, got %+v", merged)
	}
}

func TestMergeNilTimeNeverReplacesOnTie(t *testing.T) {
	existing := []LeaderboardEntry{entry("A", 3, ptr(40))}

	merged := Merge(existing, entry("A", 3, nil))
	if merged[0].TotalTime == nil {
		t.Fatalf("expected nil-time tie to be discarded, got %+v", merged)
	}

	untimed := []LeaderboardEntry{entry("B", 3, nil)}
	merged = Merge(untimed, entry("B", 3, ptr(5)))
	if merged[0].TotalTime != nil {
		t.Fatalf("expected tie against untimed entry to be discarded, got %+v", merged)
	}
}

func TestMergeIdempotent(t *testing.T) {
	var entries []LeaderboardEntry
	attempt := entry("A", 4, ptr(30))

	entries = Merge(entries, attempt)
	entries = Merge(entries, attempt)
	if len(entries) != 1 {
		t.Fatalf("expected a single entry after resubmission, got %d", len(entries))
	}
	if entries[0].Score != 4 || *entries[0].TotalTime != 30 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestRankOrdering(t *testing.T) {
	entries := []LeaderboardEntry{
		entry("slow", 5, ptr(30)),
		entry("fast", 5, ptr(20)),
		entry("low", 3, ptr(5)),
	}

	ranked := Rank(entries)
	if ranked[0].Name != "fast" || ranked[1].Name != "slow" || ranked[2].Name != "low" {
		t.Fatalf("unexpected order: %+v", ranked)
	}
}

func TestRankNilTimeSortsLastWithinScore(t *testing.T) {
	entries := []LeaderboardEntry{
		entry("untimed", 5, nil),
		entry("timed", 5, ptr(99)),
	}

	ranked := Rank(entries)
	if ranked[0].Name != "timed" {
		t.Fatalf("expected timed entry first, got %+v", ranked)
	}
}

func TestRankTiesBreakOnCompletionTime(t *testing.T) {
	early := entry("early", 5, ptr(20))
	early.CompletedAt = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	late := entry("late", 5, ptr(20))
	late.CompletedAt = time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)

	ranked := Rank([]LeaderboardEntry{late, early})
	if ranked[0].Name != "early" {
		t.Fatalf("expected earlier completion to rank higher, got %+v", ranked)
	}
}

func TestRankTruncates(t *testing.T) {
	var entries []LeaderboardEntry
	for i := 0; i < MaxLeaderboardSize+10; i++ {
		entries = append(entries, entry(fmt.Sprintf("p%d", i), i, ptr(float64(i))))
	}

	ranked := Rank(entries)
	if len(ranked) != MaxLeaderboardSize {
		t.Fatalf("expected %d entries, got %d", MaxLeaderboardSize, len(ranked))
	}
	if ranked[0].Score != MaxLeaderboardSize+9 {
		t.Fatalf("expected highest score first, got %d", ranked[0].Score)
	}
}

func testBank(t *testing.T) Bank {
	t.Helper()
	bank, err := NewBank([]Question{
		{ID: 1, Text: "pick b", Choices: []string{"a", "b", "c"}, Answer: 1},
		{ID: 2, Text: "pick c", Choices: []string{"a", "b", "c"}, Answer: 2},
	})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return bank
}

func entry(name string, score int, totalTime *float64) LeaderboardEntry {
	return LeaderboardEntry{
		Name:           name,
		Score:          score,
		TotalQuestions: 10,
		TotalTime:      totalTime,
		CompletedAt:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func ptr(v float64) *float64 {
	return &v
}
