package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBankLoaderReadsQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	raw := `[
  {"id": 1, "question": "What is 2 + 2?", "choices": ["3", "4", "5"], "answer": 1},
  {"id": 2, "question": "Pick the vowel", "choices": ["b", "e"], "answer": 1}
]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	bank, err := NewBankLoader(path).LoadBank(context.Background())
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if bank.Size() != 2 {
		t.Fatalf("expected 2 questions, got %d", bank.Size())
	}
	q, ok := bank.Get(1)
	if !ok || q.Answer != 1 || len(q.Choices) != 3 {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestBankLoaderRejectsInvalidBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	raw := `[{"id": 1, "question": "broken", "choices": ["only"], "answer": 0}]`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := NewBankLoader(path).LoadBank(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}

	if _, err := NewBankLoader(filepath.Join(t.TempDir(), "missing.json")).LoadBank(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
