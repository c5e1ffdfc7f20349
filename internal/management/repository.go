package management

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	pkgerrors "compass/pkg/errors"
)

type Repository interface {
	CreateProfileRule(ctx context.Context, rule *ProfileRule) error
	ListProfileRules(ctx context.Context) ([]ProfileRule, error)
	GetProfileRule(ctx context.Context, id string) (*ProfileRule, error)
	UpdateProfileRule(ctx context.Context, rule *ProfileRule) error
	DeleteProfileRule(ctx context.Context, id string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateProfileRule(ctx context.Context, rule *ProfileRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	conditionsJSON, effectsJSON, err := marshalRuleDefinition(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profile_rules (id, name, event_type, status, priority, conditions, effects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID, rule.Name, rule.EventType, rule.Status,
		rule.Priority, conditionsJSON, effectsJSON, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return pkgerrors.ErrConflict.WithCause(err).WithDetail("message", fmt.Sprintf("rule with name '%s' already exists", rule.Name))
			}
		}
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint") {
			return pkgerrors.ErrConflict.WithCause(err).WithDetail("message", fmt.Sprintf("rule with name '%s' already exists", rule.Name))
		}
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetProfileRule(ctx context.Context, id string) (*ProfileRule, error) {
	query := `
		SELECT id, name, event_type, status, priority, conditions, effects, created_at, updated_at
		FROM profile_rules
		WHERE id = $1
	`

	row := r.db.QueryRowContext(ctx, query, id)

	rule, err := scanProfileRule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}

	return rule, nil
}

func (r *PostgresRepository) ListProfileRules(ctx context.Context) ([]ProfileRule, error) {
	query := `
		SELECT id, name, event_type, status, priority, conditions, effects, created_at, updated_at
		FROM profile_rules
		ORDER BY priority DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []ProfileRule
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		rule, err := scanProfileRule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	return rules, nil
}

func (r *PostgresRepository) UpdateProfileRule(ctx context.Context, rule *ProfileRule) error {
	rule.UpdatedAt = time.Now()

	conditionsJSON, effectsJSON, err := marshalRuleDefinition(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE profile_rules
		SET name = $1, event_type = $2, status = $3, priority = $4, conditions = $5, effects = $6, updated_at = $7
		WHERE id = $8
	`

	res, err := r.db.ExecContext(ctx, query,
		rule.Name, rule.EventType, rule.Status,
		rule.Priority, conditionsJSON, effectsJSON, rule.UpdatedAt, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("rule not found")
	}

	return nil
}

func (r *PostgresRepository) DeleteProfileRule(ctx context.Context, id string) error {
	query := `DELETE FROM profile_rules WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("rule not found")
	}

	return nil
}

func marshalRuleDefinition(rule *ProfileRule) ([]byte, []byte, error) {
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal conditions: %w", err)
	}
	effectsJSON, err := json.Marshal(rule.Effects)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal effects: %w", err)
	}
	return conditionsJSON, effectsJSON, nil
}

func scanProfileRule(scan func(dest ...interface{}) error) (*ProfileRule, error) {
	var rule ProfileRule
	var conditionsJSON, effectsJSON []byte

	if err := scan(
		&rule.ID, &rule.Name, &rule.EventType, &rule.Status,
		&rule.Priority, &conditionsJSON, &effectsJSON, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(conditionsJSON) > 0 {
		if err := json.Unmarshal(conditionsJSON, &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
		}
	}
	if len(effectsJSON) > 0 {
		if err := json.Unmarshal(effectsJSON, &rule.Effects); err != nil {
			return nil, fmt.Errorf("failed to unmarshal effects: %w", err)
		}
	}

	return &rule, nil
}
