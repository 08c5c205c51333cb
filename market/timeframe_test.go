package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tf := range []string{"M1", "M5", "M15", "M30", "H1", "H4", "D1", "W1", "MN1"} {
		sec, err := ParseTimeframe(tf)
		require.NoError(t, err, tf)
		name, err := TimeframeString(sec)
		require.NoError(t, err, tf)
		assert.Equal(t, tf, name)
	}
}

func TestTimeframeErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseTimeframe("M7")
	assert.Error(t, err)
	_, err = TimeframeString(0)
	assert.Error(t, err)
	_, err = TimeframeString(61)
	assert.Error(t, err)

	d, err := TimeframeDuration("M5")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)
}
