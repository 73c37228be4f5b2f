package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	require.Equal(t, Amount(2500), FromFloat(25.00))
	require.Equal(t, Amount(1999), FromFloat(19.99))
	require.Equal(t, Amount(-150), FromFloat(-1.50))
	require.Equal(t, Amount(10), FromFloat(0.1))
}

func TestPercentOf(t *testing.T) {
	require.Equal(t, Amount(1000), Amount(10000).PercentOf(10))
	require.Equal(t, Amount(1800), Amount(9000).PercentOf(20))
	require.Equal(t, Amount(0), Amount(10000).PercentOf(0))
	// Half-cent rounds away from zero: 0.125 of 10.01 = 1.25125 -> 1.25
	require.Equal(t, Amount(33), Amount(1000).PercentOf(3.333))
}

func TestClamp(t *testing.T) {
	require.Equal(t, Amount(0), Amount(-5).Clamp(0, 100))
	require.Equal(t, Amount(100), Amount(250).Clamp(0, 100))
	require.Equal(t, Amount(50), Amount(50).Clamp(0, 100))
}

func TestString(t *testing.T) {
	require.Equal(t, "1,250.00", Amount(125000).String())
	require.Equal(t, "0.05", Amount(5).String())
	require.Equal(t, "-3.21", Amount(-321).String())
	require.Equal(t, "GBP 12.50", Amount(1250).Format("GBP"))
}
