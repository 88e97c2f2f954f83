package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/branchmap/pkg/config"
)

func TestCheck(t *testing.T) {
	referenced := map[string]struct{}{"Withdraw": {}, "Deposit": {}}

	t.Run("Orphan Reported Once", func(t *testing.T) {
		got := Check(referenced, []string{"Withdraw", "Deposit", "Refund", "Refund"}, config.Default())
		assert.Equal(t, []string{`activity "Refund" is declared but never called`}, got)
	})

	t.Run("Qualified Names", func(t *testing.T) {
		got := Check(referenced, []string{"activities.Withdraw", "(*Activities).Deposit"}, config.Default())
		assert.Empty(t, got)
	})

	t.Run("Order Independent", func(t *testing.T) {
		a := Check(referenced, []string{"Zeta", "Alpha"}, config.Default())
		b := Check(referenced, []string{"Alpha", "Zeta"}, config.Default())
		assert.Equal(t, a, b)
		assert.Len(t, a, 2)
	})

	t.Run("Suppressed", func(t *testing.T) {
		cfg := config.Default()
		cfg.SuppressValidation = true
		assert.Empty(t, Check(referenced, []string{"Refund"}, cfg))
	})

	t.Run("No Registry", func(t *testing.T) {
		assert.Empty(t, Check(referenced, nil, config.Default()))
	})
}
