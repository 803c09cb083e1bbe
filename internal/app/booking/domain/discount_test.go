package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCondition_Holds(t *testing.T) {
	values := OperandValues{
		OperandDuration: 5,
		OperandNbPers:   12,
	}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"greater than holds", Condition{OperandDuration, OpGT, 4}, true},
		{"greater than fails on equal", Condition{OperandDuration, OpGT, 5}, false},
		{"greater or equal holds on equal", Condition{OperandDuration, OpGTE, 5}, true},
		{"less than", Condition{OperandNbPers, OpLT, 20}, true},
		{"less or equal fails above", Condition{OperandNbPers, OpLTE, 10}, false},
		{"equality", Condition{OperandDuration, OpEQ, 5}, true},
		{"missing operand fails", Condition{OperandSeason, OpEQ, 1}, false},
		{"unknown operator fails", Condition{OperandDuration, Operator("~"), 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cond.Holds(values))
		})
	}
}

func TestDiscountRule_AppliesTo(t *testing.T) {
	values := OperandValues{OperandDuration: 5, OperandNbPers: 12}

	t.Run("all conditions must hold", func(t *testing.T) {
		rule := DiscountRule{Conditions: []Condition{
			{OperandDuration, OpGTE, 3},
			{OperandNbPers, OpGT, 15},
		}}
		assert.False(t, rule.AppliesTo(values))

		rule.Conditions[1].Value = 10
		assert.True(t, rule.AppliesTo(values))
	})

	t.Run("no conditions always applies", func(t *testing.T) {
		assert.True(t, DiscountRule{}.AppliesTo(values))
	})
}

func TestListCoverage(t *testing.T) {
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	dl := DiscountList{DateFrom: from, DateTo: to}

	assert.True(t, dl.Covers(from))
	assert.True(t, dl.Covers(to))
	assert.True(t, dl.Covers(from.AddDate(0, 0, 15)))
	assert.False(t, dl.Covers(from.AddDate(0, 0, -1)))
	assert.False(t, dl.Covers(to.AddDate(0, 0, 1)))
}
