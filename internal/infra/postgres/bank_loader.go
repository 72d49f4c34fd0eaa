package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"popquiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads a named question bank stored as JSONB in Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
	name string
}

func NewBankLoader(pool *pgxpool.Pool, name string) *BankLoader {
	if name == "" {
		name = "default"
	}
	return &BankLoader{pool: pool, name: name}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE name=$1`, l.name).Scan(&raw)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %q: %w", l.name, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank %q: %w", l.name, err)
	}
	return domain.NewBank(questions)
}
