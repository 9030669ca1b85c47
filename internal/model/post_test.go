package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// 允许的流转
	assert.True(t, CanTransition(PostStatusPending, PostStatusApproved))
	assert.True(t, CanTransition(PostStatusPending, PostStatusRejected))
	assert.True(t, CanTransition(PostStatusApproved, PostStatusPosted))
	assert.True(t, CanTransition(PostStatusApproved, PostStatusRejected))
	assert.True(t, CanTransition(PostStatusRejected, PostStatusApproved))

	// posted 是终态
	assert.False(t, CanTransition(PostStatusPosted, PostStatusApproved))
	assert.False(t, CanTransition(PostStatusPosted, PostStatusRejected))
	assert.False(t, CanTransition(PostStatusPosted, PostStatusPending))

	// 不存在的跳跃
	assert.False(t, CanTransition(PostStatusPending, PostStatusPosted))
	assert.False(t, CanTransition(PostStatusRejected, PostStatusPosted))
	assert.False(t, CanTransition("unknown", PostStatusApproved))
}
