package main

import (
	"context"
	"os"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/cmd/graphy-scraper/commands"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(true)
	tel, err := telemetry.SetupFromEnv(ctx, "graphy-scraper")
	if err != nil && !os.IsNotExist(err) {
		panic(err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
