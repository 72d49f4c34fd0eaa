// Package file holds the filesystem-backed infrastructure: the JSON
// question bank loader and the JSON leaderboard store.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"popquiz-service/internal/domain"
)

// BankLoader reads a question bank from a JSON array on disk.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	return domain.NewBank(questions)
}
