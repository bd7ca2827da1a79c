package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTargetCompressRoundTrip(t *testing.T) {
	const bits = 0x1d00ffff

	target := Target(bits)
	require.NotNil(t, target)

	got := Compress(target)
	require.Equal(t, uint32(bits), got)
}

func TestWorkIncreasesAsBitsTighten(t *testing.T) {
	loose, err := Work(0x1d00ffff)
	require.NoError(t, err)

	tight, err := Work(0x1c00ffff)
	require.NoError(t, err)

	require.Greater(t, tight, loose)
}

func TestWorkZeroBitsIsZero(t *testing.T) {
	work, err := Work(0)
	require.NoError(t, err)
	require.Zero(t, work)
}
