package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunOptionsDefaults(t *testing.T) {
	opts := NewRunOptions()
	assert.Equal(t, -1, opts.MaxRetries)
	assert.Equal(t, NopObserver{}, opts.Observer)
	assert.Empty(t, opts.RunID)
	assert.Nil(t, opts.Config)
}

func TestRunOptionOverrides(t *testing.T) {
	opts := NewRunOptions()
	for _, opt := range []RunOption{
		WithMaxRetries(5),
		WithConfig(Data{"run": "config"}),
		WithRunID("fixed-id"),
	} {
		opt(opts)
	}

	assert.Equal(t, 5, opts.MaxRetries)
	assert.Equal(t, "fixed-id", opts.RunID)
	v, exists := opts.Config.GetString("run")
	assert.True(t, exists)
	assert.Equal(t, "config", v)
}

func TestCombineObservers(t *testing.T) {
	first := &countingObserver{}
	second := &countingObserver{}
	obs := CombineObservers(first, second)

	obs.OnTaskStart("a", 0)
	obs.OnTaskSuccess("a", 0, []string{"a.out"})
	obs.OnTaskFailure("b", 1, assert.AnError)
	obs.OnTaskSkipped("c", []string{"b"})
	obs.OnUnresolvedParam("d", "opt")
	obs.OnRunSummary(&RunSummary{RunID: "r"})

	for _, o := range []*countingObserver{first, second} {
		assert.Equal(t, 1, o.starts)
		assert.Equal(t, 1, o.successes)
		assert.Equal(t, 1, o.failures)
		assert.Equal(t, 1, o.skips)
		assert.Equal(t, 1, o.unresolved)
		assert.Equal(t, "r", o.summaryID)
	}
}

type countingObserver struct {
	starts     int
	successes  int
	failures   int
	skips      int
	unresolved int
	summaryID  string
}

func (c *countingObserver) OnTaskStart(task string, attempt int) { c.starts++ }

func (c *countingObserver) OnTaskSuccess(task string, attempt int, outputs []string) {
	c.successes++
}

func (c *countingObserver) OnTaskFailure(task string, attempt int, err error) { c.failures++ }

func (c *countingObserver) OnTaskSkipped(task string, missing []string) { c.skips++ }

func (c *countingObserver) OnUnresolvedParam(task, param string) { c.unresolved++ }

func (c *countingObserver) OnRunSummary(summary *RunSummary) { c.summaryID = summary.RunID }
