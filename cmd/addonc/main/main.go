package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/addonc/cmd/addonc"
	"github.com/arthur-debert/addonc/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := addonc.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		theme := styles.Default(nil)
		fmt.Fprintln(os.Stderr, theme.Render("Error", fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}
