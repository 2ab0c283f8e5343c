/*
 * @module service/models/validation_test
 * @description 校验问题状态流转测试
 * @architecture 测试层
 * @documentReference ai_docs/validation_req.md
 * @stateFlow 状态流转表驱动验证
 * @rules 问题状态只能单向推进，终态后不允许任何流转
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs validation.go
 */

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationIssue_StatusTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{IssueStatusOpen, IssueStatusAcknowledged, true},
		{IssueStatusOpen, IssueStatusResolved, true},
		{IssueStatusOpen, IssueStatusWaived, true},
		{IssueStatusAcknowledged, IssueStatusResolved, true},
		{IssueStatusAcknowledged, IssueStatusWaived, true},
		{IssueStatusAcknowledged, IssueStatusOpen, false},
		{IssueStatusResolved, IssueStatusOpen, false},
		{IssueStatusResolved, IssueStatusAcknowledged, false},
		{IssueStatusResolved, IssueStatusWaived, false},
		{IssueStatusWaived, IssueStatusOpen, false},
		{IssueStatusWaived, IssueStatusResolved, false},
		{IssueStatusOpen, IssueStatusOpen, false},
	}

	for _, tc := range cases {
		issue := &ValidationIssue{Status: tc.from}
		assert.Equal(t, tc.allowed, issue.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)

		err := issue.TransitionTo(tc.to, "处置说明")
		if tc.allowed {
			assert.NoError(t, err)
			assert.Equal(t, tc.to, issue.Status)
			assert.Equal(t, "处置说明", issue.Resolution)
		} else {
			assert.Error(t, err)
			assert.Equal(t, tc.from, issue.Status, "非法流转不得改变状态")
		}
	}
}

func TestValidationIssue_UnknownStatus(t *testing.T) {
	issue := &ValidationIssue{Status: "BOGUS"}
	assert.False(t, issue.CanTransitionTo(IssueStatusResolved))
	assert.Error(t, issue.TransitionTo(IssueStatusResolved, ""))
}
