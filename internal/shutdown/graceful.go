package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type GracefulShutdown struct {
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownChan chan os.Signal
	mu           sync.Mutex

	isShuttingDown bool
	shutdownWg     sync.WaitGroup

	shutdownTimeout time.Duration
	cleanupTimeout  time.Duration
}

type CleanupFunc func(ctx context.Context) error

func NewGracefulShutdown(ctx context.Context) *GracefulShutdown {
	ctx, cancel := context.WithCancel(ctx)

	return &GracefulShutdown{
		ctx:             ctx,
		cancel:          cancel,
		shutdownChan:    make(chan os.Signal, 1),
		shutdownTimeout: 30 * time.Second,
		cleanupTimeout:  10 * time.Second,
	}
}

func (gs *GracefulShutdown) Start() {
	signal.Notify(gs.shutdownChan, os.Interrupt, syscall.SIGTERM)

	go gs.handleShutdown()
}

func (gs *GracefulShutdown) handleShutdown() {
	select {
	case sig := <-gs.shutdownChan:
		fmt.Printf("Received signal %v, initiating graceful shutdown...\n", sig)
		gs.Shutdown()
	case <-gs.ctx.Done():
		fmt.Println("Context cancelled, initiating shutdown...")
		gs.Shutdown()
	}
}

func (gs *GracefulShutdown) Shutdown() {
	gs.mu.Lock()
	if gs.isShuttingDown {
		gs.mu.Unlock()
		return
	}
	gs.isShuttingDown = true
	gs.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gs.shutdownTimeout)
	defer cancel()

	fmt.Println("Starting graceful shutdown...")

	gs.cancel()

	done := make(chan struct{})
	go func() {
		gs.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Println("Graceful shutdown completed successfully")
	case <-shutdownCtx.Done():
		fmt.Println("Shutdown timeout reached, forcing exit")
		os.Exit(1)
	}
}

func (gs *GracefulShutdown) AddCleanupFunc(name string, priority int, cleanupFunc CleanupFunc) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.shutdownWg.Add(1)

	go func() {
		defer gs.shutdownWg.Done()

		<-gs.ctx.Done()

		cleanupCtx, cancel := context.WithTimeout(context.Background(), gs.cleanupTimeout)
		defer cancel()

		fmt.Printf("Executing cleanup: %s (priority: %d)\n", name, priority)

		if err := cleanupFunc(cleanupCtx); err != nil {
			fmt.Printf("Error during cleanup %s: %v\n", name, err)
		} else {
			fmt.Printf("Cleanup completed: %s\n", name)
		}
	}()
}
