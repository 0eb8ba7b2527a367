package daemon_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/daemon"
	"github.com/stretchr/testify/assert"
)

func shutDown(lc *daemon.Lifecycle, within time.Duration) bool {
	select {
	case <-lc.ShutdownChan():
		return true
	case <-time.After(within):
		return false
	}
}

func TestLifecycle_AutoShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		assert.True(t, shutDown(lc, 200*time.Millisecond))
		synctest.Wait()
	})
}

func TestLifecycle_ResetPreventsShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		lc.ResetTimer()

		assert.False(t, shutDown(lc, 60*time.Millisecond))
		assert.True(t, shutDown(lc, 50*time.Millisecond))
		synctest.Wait()
	})
}

func TestLifecycle_ActiveBuildHoldsShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Minute)

		lc.BeginBuild()
		lc.BeginBuild()
		assert.Equal(t, 2, lc.ActiveBuilds())
		assert.False(t, shutDown(lc, time.Hour))
		assert.Equal(t, time.Minute, lc.IdleRemaining())

		lc.EndBuild()
		assert.False(t, shutDown(lc, time.Hour))

		lc.EndBuild()
		assert.Equal(t, 0, lc.ActiveBuilds())
		assert.False(t, shutDown(lc, 59*time.Second))
		assert.True(t, shutDown(lc, 2*time.Second))
		synctest.Wait()
	})
}

func TestLifecycle_IdleRemaining(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, lc.IdleRemaining())

		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, 60*time.Millisecond, lc.IdleRemaining())
		synctest.Wait()
	})
}

func TestLifecycle_UptimeAndActivity(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)
		initial := lc.LastActivity()
		assert.False(t, initial.IsZero())

		time.Sleep(10 * time.Millisecond)
		lc.ResetTimer()

		assert.Equal(t, 10*time.Millisecond, lc.Uptime())
		assert.True(t, lc.LastActivity().After(initial))
		lc.Shutdown()
		synctest.Wait()
	})
}

func TestLifecycle_Shutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)

		assert.False(t, shutDown(lc, 10*time.Millisecond))
		lc.Shutdown()
		lc.Shutdown()
		assert.True(t, shutDown(lc, 10*time.Millisecond))
		synctest.Wait()
	})
}
