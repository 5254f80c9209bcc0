package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolesContext(t *testing.T) {
	t.Run("anonymous context has no roles", func(t *testing.T) {
		assert.Nil(t, RolesFromContext(context.Background()))
	})

	t.Run("roles round trip", func(t *testing.T) {
		ctx := WithRoles(context.Background(), []string{"wholesale", "educator"})
		assert.Equal(t, []string{"wholesale", "educator"}, RolesFromContext(ctx))
	})
}

func TestParseRoles(t *testing.T) {
	assert.Equal(t, []string{"wholesale", "educator", "vip"}, ParseRoles(" wholesale, educator,,", "vip"))
	assert.Nil(t, ParseRoles("", " , "))
	assert.Nil(t, ParseRoles())
}
