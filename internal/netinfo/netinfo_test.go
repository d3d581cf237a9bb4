package netinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const wirelessTable = `Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE
 face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22
 wlan0: 0000   54.  -56.  -256        0      0      0      0      0        0
`

func TestParseWirelessRSSI(t *testing.T) {
	require.Equal(t, -56, parseWirelessRSSI(wirelessTable, "wlan0"))
}

func TestParseWirelessRSSIMissingInterface(t *testing.T) {
	require.Equal(t, 0, parseWirelessRSSI(wirelessTable, "wlan1"))
	require.Equal(t, 0, parseWirelessRSSI("", "wlan0"))
}

func TestIsWireless(t *testing.T) {
	require.True(t, isWireless("wlan0"))
	require.True(t, isWireless("wlp2s0"))
	require.False(t, isWireless("eth0"))
	require.False(t, isWireless("enp3s0"))
}
