// Command powertracker records the power status and notifies Telegram
// subscribers when it flips.
package main

import (
	"context"
	"os"
	_ "time/tzdata"

	"github.com/tbourn/power-status-tracker/internal/cli"
	"github.com/tbourn/power-status-tracker/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title                      Power Status Tracker API
// @version                    1.0
// @description                Power on/off status with Telegram change notifications.
// @BasePath                   /api/v1
// @securityDefinitions.apikey AdminToken
// @in                         header
// @name                       X-Admin-Token
func main() {
	app := cli.NewApp(sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version))
	err := app.RootCommand().ExecuteContext(context.Background())
	_ = app.Close()
	if err != nil {
		os.Exit(1)
	}
}
