package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"compass/internal/profile"
)

// Evaluator compiles and runs product audience expressions against
// customer profiles.
type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("customer_id", cel.StringType),
		cel.Variable("scores", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("static", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("behavioral", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

func (e *Evaluator) ValidateExpression(expression string) error {
	_, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}
	return nil
}

// ValidateAudienceExpression additionally requires a bool result type.
func (e *Evaluator) ValidateAudienceExpression(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("audience expression must return bool, got %v", ast.OutputType())
	}

	return nil
}

// EvaluateAudience reports whether the profile is inside the audience
// described by the expression.
func (e *Evaluator) EvaluateAudience(ctx context.Context, expression string, p *profile.Profile) (bool, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return false, fmt.Errorf("audience expression must return bool, got %v", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("failed to create CEL program: %w", err)
	}

	result, _, err := program.ContextEval(ctx, e.profileVars(p))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}

func (e *Evaluator) profileVars(p *profile.Profile) map[string]interface{} {
	scores := p.Scores
	if scores == nil {
		scores = map[string]float64{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	static := p.StaticData
	if static == nil {
		static = map[string]interface{}{}
	}
	behavioral := p.Behavioral
	if behavioral == nil {
		behavioral = map[string]interface{}{}
	}

	return map[string]interface{}{
		"customer_id": p.CustomerID,
		"scores":      scores,
		"tags":        tags,
		"static":      static,
		"behavioral":  behavioral,
	}
}

func (e *Evaluator) CompileExpression(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return program, nil
}
