package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePricingOrder(t *testing.T) {
	order, err := ParsePricingOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderAfterExternal, order)

	order, err = ParsePricingOrder(" Before ")
	require.NoError(t, err)
	assert.Equal(t, OrderBeforeExternal, order)
	assert.Equal(t, "before", order.String())

	_, err = ParsePricingOrder("sideways")
	assert.ErrorIs(t, err, ErrInvalidPricingOrder)
}

func TestReconcile(t *testing.T) {
	discounted := EffectivePrice{
		RegularPrice: MustMoney("100"),
		FinalPrice:   MustMoney("80"),
		IsDiscounted: true,
	}
	undiscounted := EffectivePrice{
		RegularPrice: MustMoney("100"),
		FinalPrice:   MustMoney("100"),
	}

	t.Run("no competing price keeps the core result", func(t *testing.T) {
		s := Reconcile(discounted, nil, OrderAfterExternal)
		assert.Equal(t, SourceRoleDiscount, s.Source)
		assert.True(t, s.Price.Equals(MustMoney("80")))

		s = Reconcile(undiscounted, nil, OrderAfterExternal)
		assert.Equal(t, SourceRegular, s.Source)
	})

	t.Run("after external: lower price wins", func(t *testing.T) {
		cheaper := MustMoney("75")
		s := Reconcile(discounted, &cheaper, OrderAfterExternal)
		assert.Equal(t, SourceWholesale, s.Source)
		assert.True(t, s.Price.Equals(cheaper))

		dearer := MustMoney("85")
		s = Reconcile(discounted, &dearer, OrderAfterExternal)
		assert.Equal(t, SourceRoleDiscount, s.Source)
		assert.True(t, s.Price.Equals(MustMoney("80")))
	})

	t.Run("after external: tie keeps the external price", func(t *testing.T) {
		same := MustMoney("80")
		s := Reconcile(discounted, &same, OrderAfterExternal)
		assert.Equal(t, SourceWholesale, s.Source)
	})

	t.Run("before external: external result is surfaced", func(t *testing.T) {
		dearer := MustMoney("85")
		s := Reconcile(discounted, &dearer, OrderBeforeExternal)
		assert.Equal(t, SourceWholesale, s.Source)
		assert.True(t, s.Price.Equals(dearer))
	})

	t.Run("negative competing price is ignored", func(t *testing.T) {
		bogus := MustMoney("-1")
		s := Reconcile(discounted, &bogus, OrderBeforeExternal)
		assert.Equal(t, SourceRoleDiscount, s.Source)
	})
}
