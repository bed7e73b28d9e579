package drift

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// Rule is one independently pluggable drift detection rule. Implementations
// must not let oracle failures escape Evaluate; the engine additionally
// recovers panics so one rule cannot take down the others.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, index map[string]*PatientFactIndex) []Alert
}

// Engine runs every registered rule over a patient fact index and merges
// the results into a single, globally ordered alert list.
type Engine struct {
	rules []Rule
	log   zerolog.Logger
}

func NewEngine(log zerolog.Logger, rules ...Rule) *Engine {
	return &Engine{rules: rules, log: log}
}

// Run evaluates all rules. A failing rule contributes zero alerts; the
// remaining rules still run. The merged list is sorted by timestamp
// descending, stable, so ties keep rule-emission order.
func (e *Engine) Run(ctx context.Context, index map[string]*PatientFactIndex) []Alert {
	var alerts []Alert
	for _, rule := range e.rules {
		ruleAlerts, err := e.evaluate(ctx, rule, index)
		if err != nil {
			e.log.Error().Err(err).Str("rule", rule.Name()).Msg("drift rule failed")
			continue
		}
		alerts = append(alerts, ruleAlerts...)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp > alerts[j].Timestamp
	})
	return alerts
}

func (e *Engine) evaluate(ctx context.Context, rule Rule, index map[string]*PatientFactIndex) (alerts []Alert, err error) {
	defer func() {
		if r := recover(); r != nil {
			alerts = nil
			err = fmt.Errorf("rule panic: %v", r)
		}
	}()
	return rule.Evaluate(ctx, index), nil
}
