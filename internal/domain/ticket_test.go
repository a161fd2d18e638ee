package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hkondo/keibasim/internal/domain"
)

func TestNewTicket_CanonicalizesUnorderedKinds(t *testing.T) {
	quinella := domain.NewTicket(domain.KindQuinella, []int{5, 2}, 8.0, "favorite_win", 0.2)
	assert.Equal(t, []int{2, 5}, quinella.HorseNumbers)
	assert.Equal(t, 1.0, quinella.Weight)
	assert.NotEmpty(t, quinella.ID)
}

func TestNewTicket_PreservesOrderForOrderedKinds(t *testing.T) {
	exacta := domain.NewTicket(domain.KindExacta, []int{5, 2}, 8.0, "favorite_win", 0.2)
	assert.Equal(t, []int{5, 2}, exacta.HorseNumbers)
}

func TestTicket_KeyIsStableUnderInputOrder(t *testing.T) {
	a := domain.NewTicket(domain.KindTrio, []int{3, 1, 2}, 8.0, "s", 0.1)
	b := domain.NewTicket(domain.KindTrio, []int{1, 2, 3}, 8.0, "s", 0.1)
	assert.Equal(t, a.Key(), b.Key())
}

func TestTicket_KeyDiffersByKindOrNumbers(t *testing.T) {
	a := domain.NewTicket(domain.KindWin, []int{1}, 4.0, "s", 0.1)
	b := domain.NewTicket(domain.KindPlace, []int{1}, 4.0, "s", 0.1)
	assert.NotEqual(t, a.Key(), b.Key())

	c := domain.NewTicket(domain.KindWin, []int{2}, 4.0, "s", 0.1)
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestFloorTo100(t *testing.T) {
	cases := []struct {
		in, want decimal.Decimal
	}{
		{decimal.NewFromInt(250), decimal.NewFromInt(200)},
		{decimal.NewFromInt(100), decimal.NewFromInt(100)},
		{decimal.NewFromInt(99), decimal.Zero},
		{decimal.NewFromInt(0), decimal.Zero},
		{decimal.NewFromInt(-50), decimal.Zero},
	}
	for _, c := range cases {
		assert.True(t, domain.FloorTo100(c.in).Equal(c.want), "FloorTo100(%s)", c.in)
	}
}
