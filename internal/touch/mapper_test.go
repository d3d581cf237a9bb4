package touch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"paneld/internal/touch"
)

// fakeChannel is a raw reading that tests flip between touched and idle.
type fakeChannel struct {
	raw int
}

func (f *fakeChannel) Read() (int, error) {
	return f.raw, nil
}

const idle = 100

func newTestMapper() (*touch.Mapper, *fakeChannel, *fakeChannel) {
	mapper := touch.NewMapper()
	left := &fakeChannel{raw: idle}
	right := &fakeChannel{raw: idle}
	mapper.Configure(0, 0, 0, 100, 168, left, "nav_left")
	mapper.Configure(1, 200, 0, 100, 168, right, "nav_right")

	return mapper, left, right
}

func TestSinglePressPerTouch(t *testing.T) {
	mapper, left, _ := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	// Second poll past the debounce window, still touched.
	mapper.Poll(now.Add(60 * time.Millisecond))

	event := mapper.PopEvent()
	require.Equal(t, touch.Press, event.Kind)
	require.Equal(t, "nav_left", event.ZoneName)

	// Exactly one event: the slot is empty afterwards.
	require.Equal(t, touch.None, mapper.PopEvent().Kind)
}

func TestDebounceSkipsFastReads(t *testing.T) {
	mapper, left, _ := newTestMapper()
	now := time.Now()

	mapper.Poll(now)
	require.Equal(t, touch.None, mapper.PopEvent().Kind)

	// Inside the debounce window the read is ignored even though the pad
	// is now touched.
	left.raw = 5
	mapper.Poll(now.Add(10 * time.Millisecond))
	require.Equal(t, touch.None, mapper.PopEvent().Kind)

	mapper.Poll(now.Add(60 * time.Millisecond))
	require.Equal(t, touch.Press, mapper.PopEvent().Kind)
}

func TestShortPressRelease(t *testing.T) {
	mapper, left, _ := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	require.Equal(t, touch.Press, mapper.PopEvent().Kind)

	left.raw = idle
	mapper.Poll(now.Add(200 * time.Millisecond))
	require.Equal(t, touch.Release, mapper.PopEvent().Kind)
}

func TestLongPressFiresOncePerSpan(t *testing.T) {
	mapper, left, _ := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	require.Equal(t, touch.Press, mapper.PopEvent().Kind)

	// Held past the long-press threshold: fires while still down.
	mapper.Poll(now.Add(1100 * time.Millisecond))
	require.Equal(t, touch.LongPress, mapper.PopEvent().Kind)

	// Still held: must not fire again.
	mapper.Poll(now.Add(1600 * time.Millisecond))
	require.Equal(t, touch.None, mapper.PopEvent().Kind)

	// Release after the in-place long press is a plain release.
	left.raw = idle
	mapper.Poll(now.Add(2 * time.Second))
	require.Equal(t, touch.Release, mapper.PopEvent().Kind)
}

func TestLongPressOnRelease(t *testing.T) {
	mapper, left, _ := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	mapper.PopEvent()

	// Released after the threshold but before the held poll noticed:
	// the release edge classifies as a long press.
	left.raw = idle
	mapper.Poll(now.Add(1050 * time.Millisecond))
	require.Equal(t, touch.LongPress, mapper.PopEvent().Kind)
}

func TestSwipeRight(t *testing.T) {
	mapper, left, right := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	require.Equal(t, touch.Press, mapper.PopEvent().Kind)

	// Second press on the opposite zone inside the swipe window.
	right.raw = 5
	mapper.Poll(now.Add(100 * time.Millisecond))
	require.Equal(t, touch.SwipeRight, mapper.PopEvent().Kind)
}

func TestNoSwipeOutsideWindow(t *testing.T) {
	mapper, left, right := newTestMapper()
	now := time.Now()

	left.raw = 5
	mapper.Poll(now)
	mapper.PopEvent()
	left.raw = idle
	mapper.Poll(now.Add(100 * time.Millisecond))
	mapper.PopEvent()

	right.raw = 5
	mapper.Poll(now.Add(800 * time.Millisecond))
	require.Equal(t, touch.Press, mapper.PopEvent().Kind)
}

func TestLastWriteWinsSingleSlot(t *testing.T) {
	mapper := touch.NewMapper()
	a := &fakeChannel{raw: 5}
	b := &fakeChannel{raw: 5}
	// Close together so the pair does not classify as a swipe.
	mapper.Configure(0, 0, 0, 20, 20, a, "a")
	mapper.Configure(1, 10, 0, 20, 20, b, "b")

	// Both zones fire in one poll; only the later one survives.
	mapper.Poll(time.Now())
	event := mapper.PopEvent()
	require.Equal(t, touch.Press, event.Kind)
	require.Equal(t, "b", event.ZoneName)
	require.Equal(t, touch.None, mapper.PopEvent().Kind)
}

func TestZoneAtPrefersSmallest(t *testing.T) {
	mapper := touch.NewMapper()
	header := &fakeChannel{raw: idle}
	corner := &fakeChannel{raw: idle}
	mapper.Configure(2, 0, 0, 300, 40, header, "header")
	mapper.Configure(5, 250, 0, 50, 30, corner, "settings")

	index, ok := mapper.ZoneAt(260, 10)
	require.True(t, ok)
	require.Equal(t, 5, index)

	index, ok = mapper.ZoneAt(10, 10)
	require.True(t, ok)
	require.Equal(t, 2, index)

	_, ok = mapper.ZoneAt(10, 160)
	require.False(t, ok)
}

func TestDisabledZoneIgnored(t *testing.T) {
	mapper, left, _ := newTestMapper()
	mapper.SetEnabled(0, false)

	left.raw = 5
	mapper.Poll(time.Now())
	require.Equal(t, touch.None, mapper.PopEvent().Kind)
}
