package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"compass/internal/engine"
)

type Repository interface {
	GetActiveRules(ctx context.Context) ([]engine.Rule, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetActiveRules(ctx context.Context) ([]engine.Rule, error) {
	query := `
		SELECT id, name, event_type, status, priority, conditions, effects, created_at, updated_at
		FROM profile_rules
		WHERE status = 'ACTIVE'
		ORDER BY priority DESC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []engine.Rule
	for rows.Next() {
		var stored StoredRule
		var conditionsJSON, effectsJSON []byte
		if err := rows.Scan(
			&stored.ID,
			&stored.Name,
			&stored.EventType,
			&stored.Status,
			&stored.Priority,
			&conditionsJSON,
			&effectsJSON,
			&stored.CreatedAt,
			&stored.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		// Rules with unreadable definitions are skipped rather than
		// failing the whole load.
		if err := json.Unmarshal(conditionsJSON, &stored.Conditions); err != nil {
			continue
		}
		if err := json.Unmarshal(effectsJSON, &stored.Effects); err != nil {
			continue
		}

		rules = append(rules, stored.ToEngineRule())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return rules, nil
}
