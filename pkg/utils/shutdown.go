// Graceful shutdown по SIGINT/SIGTERM.
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown устанавливает обработчик сигналов.
//
// При получении SIGINT (Ctrl+C) или SIGTERM отменяет переданный контекст,
// чтобы все блокирующие операции (LLM, HTTP) завершились через ctx.Err().
//
// Возвращает функцию очистки для вызова через defer в main():
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer SetupGracefulShutdown(cancel)()
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel()
	}()

	return func() {
		Close()
	}
}
