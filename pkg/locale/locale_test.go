package locale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const localeGen = `# This file lists locales that you wish to have built.
# aa_DJ ISO-8859-1
# en_GB.UTF-8 UTF-8
# en_US.UTF-8 UTF-8
# pl_PL.UTF-8 UTF-8
`

func TestEnableUncommentsMatchingLine(t *testing.T) {
	enabled, found := Enable(localeGen, "en_US.UTF-8")
	require.True(t, found)
	require.Contains(t, enabled, "\nen_US.UTF-8 UTF-8\n")
	require.Contains(t, enabled, "# en_GB.UTF-8 UTF-8")
	require.Contains(t, enabled, "# pl_PL.UTF-8 UTF-8")
}

func TestEnableIsIdempotent(t *testing.T) {
	enabled, found := Enable(localeGen, "pl_PL.UTF-8")
	require.True(t, found)
	again, found := Enable(enabled, "pl_PL.UTF-8")
	require.True(t, found)
	require.Equal(t, enabled, again)
}

func TestEnableUnknownLocale(t *testing.T) {
	_, found := Enable(localeGen, "xx_XX.UTF-8")
	require.False(t, found)
}
