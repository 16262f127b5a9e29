package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/textbook-backend/internal/app"
	"github.com/yungbote/textbook-backend/internal/platform/shutdown"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server exited", "error", err)
		stop()
		a.Close()
		os.Exit(1)
	}
}
