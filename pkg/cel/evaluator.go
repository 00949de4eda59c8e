package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Evaluator compiles and runs alert rule predicates against the fields of
// an opportunity record. The variable set is fixed so rule authors get
// compile-time feedback on typos.
type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("channel", cel.StringType),
		cel.Variable("program", cel.StringType),
		cel.Variable("opportunity_type", cel.StringType),
		cel.Variable("confidence", cel.DoubleType),
		cel.Variable("quantity", cel.DoubleType),
		cel.Variable("price_per_mile", cel.DoubleType),
		cel.Variable("risk_level", cel.StringType),
		cel.Variable("recommendation", cel.StringType),
		cel.Variable("summary", cel.StringType),
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

func (e *Evaluator) ValidateFilterExpression(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("filter expression must return bool, got %v", ast.OutputType())
	}

	return nil
}

func (e *Evaluator) EvaluateFilter(ctx context.Context, expression string, vars map[string]interface{}) (bool, error) {
	program, err := e.CompileExpression(expression)
	if err != nil {
		return false, err
	}

	result, _, err := program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
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
