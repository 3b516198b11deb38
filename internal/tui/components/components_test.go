package components

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSlider_ClampsOnCreate(t *testing.T) {
	s := NewParameterSlider("Rate", 25, 0, 20, 0.25)
	assert.Equal(t, 20.0, s.Value)
	assert.Equal(t, 1.0, s.Percentage())
}

func TestParameterSlider_StepsSnapToGrid(t *testing.T) {
	s := NewParameterSlider("Rate", 0, 0, 1, 0.1)
	for i := 0; i < 3; i++ {
		require.True(t, s.Increment())
	}
	assert.InDelta(t, 0.3, s.Value, 1e-12)

	s.SetValue(1)
	assert.False(t, s.Increment(), "already at max")
	assert.True(t, s.Decrement())
	assert.InDelta(t, 0.9, s.Value, 1e-12)
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider("Purchase price", 50000, 0, 100000, 1000).
		WithPrefix("$").
		WithFormat("%.0f").
		WithDescription("GST inclusive").
		WithWidth(11)

	assert.Equal(t, "$50000", s.DisplayValue(s.Value))
	out := s.Render()
	assert.Contains(t, out, "Purchase price")
	assert.Contains(t, out, "$50000")
	assert.Contains(t, out, "$0 - $100000")
	assert.Contains(t, out, "GST inclusive")

	s.SetFocused(true)
	assert.Contains(t, s.RenderCompact(), "> ")
}

func TestMetricCard_WithDelta(t *testing.T) {
	cost := NewMoneyCard("Monthly", decimal.NewFromInt(900)).WithDelta(decimal.NewFromInt(-50), true)
	require.NotNil(t, cost.Trend)
	assert.False(t, cost.Trend.Up)
	assert.True(t, cost.Trend.Favourable, "a lower cost is good news")
	assert.Equal(t, "-$50.00", cost.Trend.Change)

	savings := NewMoneyCard("Savings", decimal.NewFromInt(3000)).WithDelta(decimal.NewFromInt(120), false)
	require.NotNil(t, savings.Trend)
	assert.True(t, savings.Trend.Up)
	assert.True(t, savings.Trend.Favourable)
	assert.Equal(t, "+$120.00", savings.Trend.Change)

	flat := NewMoneyCard("Flat", decimal.Zero).WithDelta(decimal.Zero, true)
	assert.Nil(t, flat.Trend)
}

func TestMetricCard_Render(t *testing.T) {
	card := NewMoneyCard("Residual value", decimal.NewFromInt(400)).WithDescription("end of term")
	out := card.Render()
	assert.Contains(t, out, "Residual value")
	assert.Contains(t, out, "$400.00")
	assert.Contains(t, out, "end of term")

	assert.Contains(t, card.RenderCompact(), "Residual value: $400.00")
}

func TestMetricGrid(t *testing.T) {
	assert.Equal(t, "", MetricGrid(nil, 2))

	grid := MetricGrid([]*MetricCard{
		NewMetricCard("A", "1"),
		NewMetricCard("B", "2"),
		NewMetricCard("C", "3"),
	}, 2)
	assert.Contains(t, grid, "A")
	assert.Contains(t, grid, "C")
}
