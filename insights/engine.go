package insights

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/foreteller/foreteller/facts"
)

// costLimit bounds the work a single rule evaluation may do.
const costLimit = 1000000

// Engine compiles rules to CEL programs once and evaluates them against
// derived facts. Safe for concurrent use.
type Engine struct {
	env      *cel.Env
	store    RuleStore
	cache    RulesCache
	programs map[string]cel.Program // ruleID -> compiled program
	mu       sync.RWMutex
}

// NewEnv declares the variables rules may reference.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("square", cel.MapType(cel.IntType, cel.IntType)),
		cel.Variable("meta", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("zodiac", cel.StringType),
		cel.Variable("animal", cel.StringType),
		cel.Variable("phase", cel.StringType),
	)
}

// NewEngine creates an engine over store and compiles every active rule in it
func NewEngine(store RuleStore) (*Engine, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	en := &Engine{
		env:      env,
		store:    store,
		cache:    NewInMemoryRulesCache(DefaultCacheConfig()),
		programs: make(map[string]cel.Program),
	}

	if err := en.CompileAllRules(); err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	return en, nil
}

// NewDefaultEngine builds an engine over the embedded rule set.
func NewDefaultEngine() (*Engine, error) {
	rules, err := DefaultRuleSet()
	if err != nil {
		return nil, err
	}
	store, err := NewInMemoryRuleStoreFrom(rules)
	if err != nil {
		return nil, err
	}
	return NewEngine(store)
}

// CompileRule compiles and type-checks a single expression and caches the
// program. Expressions must be boolean.
func (en *Engine) CompileRule(ruleID, expression string) error {
	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("expression must be boolean, got %s", ast.OutputType())
	}

	prog, err := en.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return fmt.Errorf("program creation error: %w", err)
	}

	en.mu.Lock()
	en.programs[ruleID] = prog
	en.mu.Unlock()

	return nil
}

// CompileAllRules compiles all active rules from the store and primes the cache
func (en *Engine) CompileAllRules() error {
	rules, err := en.store.ListActive()
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := en.CompileRule(rule.ID, rule.Expression); err != nil {
			return fmt.Errorf("failed to compile rule %s: %w", rule.ID, err)
		}
	}

	en.cache.Set(rules)
	return nil
}

// AddRule validates and compiles r, then adds it to the store
func (en *Engine) AddRule(r *Rule) error {
	if _, err := en.store.Get(r.ID); err == nil {
		return fmt.Errorf("rule with ID %s already exists", r.ID)
	}

	if err := validateRule(r); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("rule validation failed: %w", err)
	}

	if err := en.store.Add(r); err != nil {
		en.mu.Lock()
		delete(en.programs, r.ID)
		en.mu.Unlock()
		return err
	}

	en.cache.Invalidate()
	return nil
}

// Evaluate evaluates a single rule against the facts
func (en *Engine) Evaluate(ruleID string, d facts.Derived) (*EvaluationResult, error) {
	rule, err := en.store.Get(ruleID)
	if err != nil {
		return nil, err
	}

	res := en.evaluate(rule, Activation(d))
	return res, res.Error
}

// EvaluateAll evaluates every active rule. A failing rule is reported in its
// result and does not stop the others.
func (en *Engine) EvaluateAll(d facts.Derived) ([]*EvaluationResult, error) {
	rules := en.cache.Get()
	if rules == nil {
		var err error
		rules, err = en.store.ListActive()
		if err != nil {
			return nil, err
		}
		en.cache.Set(rules)
	}

	vars := Activation(d)
	results := make([]*EvaluationResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, en.evaluate(rule, vars))
	}
	return results, nil
}

// Hints returns the insight text of every matched rule, in rule order.
// Facts from an unparseable date produce no hints.
func (en *Engine) Hints(d facts.Derived) ([]string, error) {
	if d.Outcomes.Pythagoras == facts.Degraded {
		return nil, nil
	}

	results, err := en.EvaluateAll(d)
	if err != nil {
		return nil, err
	}

	var hints []string
	for _, r := range results {
		if r.Matched {
			hints = append(hints, r.Insight)
		}
	}
	return hints, nil
}

func (en *Engine) evaluate(rule *Rule, vars map[string]any) *EvaluationResult {
	res := &EvaluationResult{
		RuleID:  rule.ID,
		Topic:   rule.Topic,
		Insight: rule.Insight,
	}

	en.mu.RLock()
	prog, exists := en.programs[rule.ID]
	en.mu.RUnlock()

	if !exists {
		res.Error = fmt.Errorf("rule %s is not compiled", rule.ID)
		return res
	}

	out, _, err := prog.Eval(vars)
	if err != nil {
		res.Error = err
		return res
	}

	if matched, ok := out.Value().(bool); ok {
		res.Matched = matched
	}
	return res
}
