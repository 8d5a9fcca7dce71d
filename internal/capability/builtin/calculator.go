package builtin

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"github.com/google/cel-go/cel"
)

var (
	arithmeticOnly = regexp.MustCompile(`^[0-9.+\-*/() ]+$`)
	numberLiteral  = regexp.MustCompile(`\d*\.?\d+`)
	spokenTimes    = regexp.MustCompile(`(\d)\s*[xX]\s*(\d)`)
)

// Calculator evaluates arithmetic with CEL. Every literal is promoted to a
// double so 7/2 is 3.5.
type Calculator struct {
	env *cel.Env
}

func NewCalculator() (*Calculator, error) {
	env, err := cel.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("calculator env: %w", err)
	}
	return &Calculator{env: env}, nil
}

func sanitizeExpression(expr string) string {
	s := strings.NewReplacer("×", "*", "÷", "/", "−", "-").Replace(expr)
	s = spokenTimes.ReplaceAllString(s, "$1*$2")
	return strings.TrimSpace(s)
}

func toDoubles(expr string) string {
	return numberLiteral.ReplaceAllStringFunc(expr, func(lit string) string {
		if strings.Contains(lit, ".") {
			return lit
		}
		return lit + ".0"
	})
}

func (c *Calculator) program(expr string) (cel.Program, error) {
	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	prg, err := c.env.Program(ast, cel.CostLimit(1000))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	return prg, nil
}

func (c *Calculator) Evaluate(expression string) (float64, error) {
	expr := sanitizeExpression(expression)
	if expr == "" || !arithmeticOnly.MatchString(expr) {
		return 0, fmt.Errorf("unsupported expression %q", expression)
	}

	prg, err := c.program(toDoubles(expr))
	if err != nil {
		return 0, err
	}
	out, _, err := prg.Eval(map[string]any{})
	if err != nil {
		return 0, fmt.Errorf("eval: %w", err)
	}
	v, ok := out.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("result is not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result is not finite")
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *Calculator) Handle(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	expression, err := capability.String(p, "expression")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	result, err := c.Evaluate(expression)
	if err != nil {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Could not evaluate expression: %s", expression)
	}

	return entity.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("%s = %s", expression, formatNumber(result)),
		Data:    param.Params{"result": param.Float(result)},
	}, nil
}
