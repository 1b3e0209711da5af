package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	root.SweepTask.Start()
	root.Monitor.Start()

	addr := root.Config.Server.ListenAddr
	root.Logger.Info("Starting market cache server", zap.String("addr", addr))
	go func() {
		if err := root.HTTPServer.Start(addr); err != nil {
			root.Logger.Error("Server failed to start", zap.Error(err))
		}
	}()

	// SIGUSR2 stands in for the platform low-memory notification.
	pressure := make(chan os.Signal, 1)
	signal.Notify(pressure, syscall.SIGUSR2)
	go func() {
		for range pressure {
			root.Logger.Warn("Memory pressure signal received")
			root.Cache.HandleMemoryPressure()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), root.Config.Server.ShutdownTimeout())
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}
