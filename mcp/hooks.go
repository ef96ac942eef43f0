package mcp

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/napier-ai/napier/errors"
	"github.com/rs/zerolog/log"
)

// PostConnectHook prepares the environment for a freshly connected server.
// Hooks are keyed by the logical server identity; they are the one sanctioned
// exception to "connect only opens a channel".
type PostConnectHook func(ctx context.Context) error

var postConnectHooks = map[string]PostConnectHook{
	"playwright": installPlaywrightBrowsers,
}

func lookupPostConnectHook(serverName string) (PostConnectHook, bool) {
	hook, ok := postConnectHooks[strings.ToLower(serverName)]
	return hook, ok
}

var playwrightInstallOnce sync.Once

// installPlaywrightBrowsers downloads the Chromium build Playwright drives.
// Runs at most once per process; later connects to the same server skip it.
func installPlaywrightBrowsers(ctx context.Context) error {
	var err error
	playwrightInstallOnce.Do(func() {
		log.Info().Msg("installing Playwright browsers")
		cmd := exec.CommandContext(ctx, "playwright", "install", "chromium")
		out, cmdErr := cmd.CombinedOutput()
		if cmdErr != nil {
			err = errors.WrapKind(errors.KindConnection, cmdErr,
				"error installing Playwright browsers: %s", strings.TrimSpace(string(out)))
			return
		}
		log.Info().Msg("successfully installed Playwright browsers")
	})
	return err
}
