package odds

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-cmar/hedgebets/internal/models"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
		wantErr  bool
	}{
		{"standard juice", -110, 1.9091, false},
		{"even money", 100, 2.0, false},
		{"underdog", 150, 2.5, false},
		{"heavy favorite", -200, 1.5, false},
		{"zero invalid", 0, 0, true},
		{"inside dead zone", 50, 0, true},
		{"negative dead zone", -99, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestDecimalToAmerican_RoundTrips(t *testing.T) {
	for _, american := range []int{-500, -200, -110, 100, 120, 250, 1000} {
		dec, err := AmericanToDecimal(american)
		require.NoError(t, err)

		back, err := DecimalToAmerican(dec)
		require.NoError(t, err)
		assert.Equal(t, american, back, "round trip for %+d", american)
	}
}

func TestDecimalToAmerican_Invalid(t *testing.T) {
	for _, dec := range []float64{0, 0.5, 1.0} {
		_, err := DecimalToAmerican(dec)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestImpliedProbability(t *testing.T) {
	p, err := ImpliedProbability(2.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = ImpliedProbability(1.9091)
	require.NoError(t, err)
	assert.InDelta(t, 0.5238, p, 0.0001)

	_, err = ImpliedProbability(1.0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRemoveVig(t *testing.T) {
	// Symmetric -110/-110 line carries ~4.5% overround; fair probabilities
	// are an even split.
	dec, err := AmericanToDecimal(-110)
	require.NoError(t, err)

	pOver, pUnder, err := RemoveVig(dec, dec)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pOver, 1e-9)
	assert.InDelta(t, 0.5, pUnder, 1e-9)
	assert.InDelta(t, 1.0, pOver+pUnder, 1e-9)

	over, err := AmericanToDecimal(-130)
	require.NoError(t, err)
	under, err := AmericanToDecimal(110)
	require.NoError(t, err)

	pOver, pUnder, err = RemoveVig(over, under)
	require.NoError(t, err)
	assert.Greater(t, pOver, pUnder)
	assert.InDelta(t, 1.0, pOver+pUnder, 1e-9)
}

func TestPayoutMultiplier(t *testing.T) {
	b, err := PayoutMultiplier(1.9091)
	require.NoError(t, err)
	assert.InDelta(t, 0.9091, b, 0.0001)

	b, err = PayoutMultiplierFromAmerican(StandardAmericanOdds)
	require.NoError(t, err)
	assert.InDelta(t, 10.0/11.0, b, 0.0001)

	_, err = PayoutMultiplierFromAmerican(0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestPotentialReturnAndProfit(t *testing.T) {
	stake := decimal.NewFromFloat(110)
	dec, err := AmericanToDecimal(-110)
	require.NoError(t, err)

	ret := PotentialReturn(stake, dec)
	assert.Equal(t, "210.00", ret.StringFixed(2))

	profit := Profit(stake, dec)
	assert.Equal(t, "100.00", profit.StringFixed(2))

	// Degenerate odds return the stake untouched.
	assert.True(t, PotentialReturn(stake, 1.0).Equal(stake))
}
