// Package rules evaluates cart policy expressions: line caps, promotion
// eligibility, order gating. Expressions run against a snapshot binding of
// the current cart plus call-site arguments, through one of three pluggable
// engines (expr-lang by default, CEL, or JavaScript behind the js_eval build
// tag).
package rules

import (
	"fmt"
	"time"
)

// RuleContext carries inputs needed when evaluating an expression. Snapshot
// keys are exposed as top-level variables to the expression.
type RuleContext struct {
	Snapshot map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// EvaluateBool runs expr and coerces the result to a policy decision. A
// non-boolean result is an error rather than a silent allow.
func EvaluateBool(e Evaluator, ctx RuleContext, expr string) (bool, error) {
	if e == nil {
		return false, fmt.Errorf("rules: evaluator is required")
	}
	result, err := e.Evaluate(ctx, expr)
	if err != nil {
		return false, err
	}
	decision, ok := result.(bool)
	if !ok {
		return false, wrapEvaluationError(engineName(e), expr, fmt.Errorf("expected boolean result, got %T", result))
	}
	return decision, nil
}

func engineName(e Evaluator) string {
	switch fmt.Sprintf("%T", e) {
	case "*rules.exprEvaluator":
		return "expr"
	case "*rules.celEvaluator":
		return "cel"
	case "*rules.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
