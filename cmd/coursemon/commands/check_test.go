package commands

import (
	"course-monitor/internal/config"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/stretchr/testify/require"
)

func TestSetSpinnerSuffix(t *testing.T) {
	spin := spinner.New(spinner.CharSets[14], time.Millisecond, spinner.WithWriter(io.Discard))
	spin.Start()
	defer spin.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			setSpinnerSuffix(spin, fmt.Sprintf(" fetching %d", i))
		}(i)
	}
	wg.Wait()

	setSpinnerSuffix(spin, " fetching Calculus I")
	spin.Lock()
	require.Equal(t, " fetching Calculus I", spin.Suffix)
	spin.Unlock()

	setSpinnerSuffix(nil, "ignored")
}

func TestConfigScope(t *testing.T) {
	require.Equal(t, config.ScopePortal, configScope(checkCmd))
	require.Equal(t, config.ScopeSmtp, configScope(testEmailCmd))
	require.Equal(t, config.ScopeAll, configScope(runCmd))
	require.Equal(t, config.ScopeAll, configScope(rootCmd))

	dryRun = true
	defer func() { dryRun = false }()
	require.Equal(t, config.ScopePortal, configScope(runCmd))
	require.Equal(t, config.ScopeSmtp, configScope(testEmailCmd))
}
