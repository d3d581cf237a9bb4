package screen_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"paneld/internal/screen"
)

func TestNextPreviousRoundTrip(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)

	for steps := 1; steps < screen.Total*2; steps++ {
		start := nav.Active().ID
		for range steps {
			nav.Next(now)
		}
		for range steps {
			nav.Previous(now)
		}
		require.Equal(t, start, nav.Active().ID, "steps=%d", steps)
	}
}

func TestNextFullCycle(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)
	start := nav.Active().ID

	for range screen.Total {
		nav.Next(now)
	}

	require.Equal(t, start, nav.Active().ID)
}

func TestNextSkipsDisabled(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)

	nav.SetEnabled(screen.Network, false)
	nav.SetEnabled(screen.System, false)

	nav.Next(now)
	require.Equal(t, screen.Sensors, nav.Active().ID)

	nav.Previous(now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)
}

func TestAllOthersDisabledIsNoOp(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)

	for i := 1; i < screen.Total; i++ {
		nav.SetEnabled(screen.ID(i), false)
	}

	nav.Next(now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)
	nav.Previous(now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)
}

func TestSwitchToValidation(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)

	nav.SwitchTo(screen.ID(99), now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)

	nav.SwitchTo(screen.ID(-1), now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)

	nav.SetEnabled(screen.Settings, false)
	nav.SwitchTo(screen.Settings, now)
	require.Equal(t, screen.Dashboard, nav.Active().ID)

	nav.SwitchTo(screen.About, now)
	require.Equal(t, screen.About, nav.Active().ID)
	require.Equal(t, screen.Dashboard, nav.Prior())
}

func TestTickRedrawSignal(t *testing.T) {
	now := time.Now()
	nav := screen.NewNavigator(now)

	// Boot leaves the active screen dirty, so the first tick fires.
	require.True(t, nav.Tick(now))
	// Idempotent: no state change, no second signal.
	require.False(t, nav.Tick(now))

	// The periodic refresh fires once the interval has elapsed.
	later := now.Add(1100 * time.Millisecond)
	require.True(t, nav.Tick(later))
	require.False(t, nav.Tick(later))

	// A navigation marks the target dirty immediately.
	nav.SwitchTo(screen.System, later)
	require.True(t, nav.Tick(later))

	// RefreshActive forces a redraw regardless of elapsed time.
	nav.RefreshActive()
	require.True(t, nav.Tick(later))
}
