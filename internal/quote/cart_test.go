package quote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

func positions(items []quote.LineItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Position
	}

	return out
}

func TestCart_Add(t *testing.T) {
	c := quote.NewCart()

	first := c.Add(quote.LineItem{SKU: "4711.0", Quantity: dec("1"), UnitPrice: dec("10")})
	second := c.Add(quote.LineItem{SKU: "4712", Kind: quote.KindAccessory, Quantity: dec("1"), UnitPrice: dec("5")})

	assert.Equal(t, 10, first.Position)
	assert.Equal(t, "4711", first.SKU)
	assert.Equal(t, quote.KindOther, first.Kind)
	assert.Equal(t, 20, second.Position)
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Remove(10))
	third := c.Add(quote.LineItem{SKU: "4713"})
	assert.Equal(t, 30, third.Position)
}

func TestCart_Update(t *testing.T) {
	type args struct {
		position int
		item     quote.LineItem
	}

	type testCase struct {
		name          string
		args          args
		wantErr       error
		wantPositions []int
	}

	tests := []testCase{
		{
			name:          "InPlace",
			args:          args{position: 20, item: quote.LineItem{SKU: "X", Quantity: dec("3")}},
			wantPositions: []int{10, 20, 30},
		},
		{
			name:          "MoveToFreePosition",
			args:          args{position: 30, item: quote.LineItem{Position: 5, SKU: "X"}},
			wantPositions: []int{5, 10, 20},
		},
		{
			name:    "MoveToTakenPosition",
			args:    args{position: 30, item: quote.LineItem{Position: 10}},
			wantErr: quote.ErrInvalid,
		},
		{
			name:    "UnknownPosition",
			args:    args{position: 40, item: quote.LineItem{}},
			wantErr: quote.ErrItemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := quote.NewCart()
			for range 3 {
				c.Add(quote.LineItem{Quantity: dec("1"), UnitPrice: dec("1")})
			}

			err := c.Update(tt.args.position, tt.args.item)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPositions, positions(c.Items()))
		})
	}
}

func TestCart_RenumberAndDiscount(t *testing.T) {
	c := quote.NewCart()
	for range 3 {
		c.Add(quote.LineItem{Quantity: dec("1"), UnitPrice: dec("100")})
	}

	require.NoError(t, c.Update(20, quote.LineItem{Position: 55, Quantity: dec("1"), UnitPrice: dec("100")}))
	require.NoError(t, c.Remove(10))
	c.Renumber()
	assert.Equal(t, []int{10, 20}, positions(c.Items()))

	c.ApplyDiscount(dec("25"))
	for _, it := range c.Items() {
		assertDecimal(t, "25", it.DiscountPercent)
	}

	assertDecimal(t, "150", c.Totals(quote.Params{}).Net)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCart_SnapshotIsIndependent(t *testing.T) {
	c := quote.NewCart()
	c.Add(quote.LineItem{SKU: "A", Quantity: dec("1"), UnitPrice: dec("10")})

	snap := c.Snapshot()
	snap[0].SKU = "changed"
	c.ApplyDiscount(dec("50"))

	assert.Equal(t, "A", c.Items()[0].SKU)
	assert.True(t, snap[0].DiscountPercent.IsZero())
}
