// Router Test - утилита для проверки одного хода роутера Eve
//
// Выполняет запрос и выводит:
// - Трассу событий хода (роутинг, вызов инструмента, результат, ответ)
// - Извлечённый вызов инструмента и конверт результата
// - Финальный ответ респондера
//
// Использует pkg/app для переиспользования логики инициализации
// с другими entry points (REPL, TUI).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/events"
	"github.com/ilkoid/eve-ai/pkg/router"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// CLI flags
var (
	flagConfig  = flag.String("config", "", "Path to config.yaml (default: auto-detect)")
	flagQuery   = flag.String("query", "", "User query for the router (default: read from stdin)")
	flagTimeout = flag.Duration("timeout", 2*time.Minute, "Execution timeout")
	flagVerbose = flag.Bool("verbose", false, "Show stream chunk events")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	// 1. Инициализируем конфигурацию (переиспользуем из pkg/app)
	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *flagConfig})
	if err != nil {
		return err
	}

	// 2. Инициализируем логгер
	if err := utils.InitLogger(cfg.Logging.Dir); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	defer utils.Close()

	utils.Info("router-test started", "config", cfgPath, "verbose", *flagVerbose)

	// 3. Инициализируем компоненты (переиспользуем из pkg/app)
	components, err := app.Initialize(cfg)
	if err != nil {
		utils.Error("Components initialization failed", "error", err)
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer components.Close()

	// 4. Подписываемся на события хода
	emitter := events.NewChanEmitter(256)
	components.Router.SetEmitter(emitter)
	sub := emitter.Subscribe()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		traceEvents(sub, start, *flagVerbose)
	}()

	// 5. Получаем запрос и выполняем ход
	userQuery := getUserQuery()
	if strings.TrimSpace(userQuery) == "" {
		emitter.Close()
		wg.Wait()
		return fmt.Errorf("empty query")
	}

	result, err := app.Execute(components, userQuery, *flagTimeout, router.RouteCallbacks{})

	// Закрываем эмиттер: трассировка дочитает буфер и завершится
	emitter.Close()
	wg.Wait()

	if err != nil {
		utils.Error("Execution failed", "error", err, "query", userQuery)
		return fmt.Errorf("execution failed: %w", err)
	}

	// 6. Выводим результаты
	printResults(result, time.Since(start))

	utils.Info("router-test completed", "duration", time.Since(start))

	return nil
}

// getUserQuery получает запрос пользователя из флага или stdin.
func getUserQuery() string {
	if *flagQuery != "" {
		return *flagQuery
	}

	fmt.Fprint(os.Stderr, "Enter query (press Ctrl+D when done):\n")

	var input strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if input.Len() > 0 {
			input.WriteString(" ")
		}
		input.WriteString(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return ""
	}

	return input.String()
}

// traceEvents печатает события хода по мере поступления.
func traceEvents(sub events.Subscriber, start time.Time, verbose bool) {
	for event := range sub.Events() {
		elapsed := event.Timestamp.Sub(start).Seconds()

		switch data := event.Data.(type) {
		case events.RoutingData:
			fmt.Printf("[+%.3fs] %-13s query=%q\n", elapsed, event.Type, data.Query)
		case events.RoutingChunkData:
			if verbose {
				fmt.Printf("[+%.3fs] %-13s delta=%q\n", elapsed, event.Type, data.Delta)
			}
		case events.ToolCallData:
			fmt.Printf("[+%.3fs] %-13s {\"tool\": %q, \"input\": %q}\n", elapsed, event.Type, data.Tool, data.Input)
		case events.ToolResultData:
			fmt.Printf("[+%.3fs] %-13s success=%t duration=%v data=%q\n",
				elapsed, event.Type, data.Success, data.Duration, utils.Truncate(data.Data, 120))
		case events.ReplyChunkData:
			if verbose {
				fmt.Printf("[+%.3fs] %-13s delta=%q\n", elapsed, event.Type, data.Delta)
			}
		case events.MessageData:
			fmt.Printf("[+%.3fs] %-13s direct=%t\n", elapsed, event.Type, data.Direct)
		case events.ErrorData:
			fmt.Printf("[+%.3fs] %-13s error=%v\n", elapsed, event.Type, data.Err)
		default:
			fmt.Printf("[+%.3fs] %s\n", elapsed, event.Type)
		}
	}
}

// printResults выводит итог хода.
func printResults(result *router.TurnResult, duration time.Duration) {
	fmt.Println()
	fmt.Println("═════════════════════════════════════════════════════════════")
	fmt.Println("                    TURN RESULT")
	fmt.Println("═════════════════════════════════════════════════════════════")

	if result.Direct {
		fmt.Println("Mode:      direct (no tool call)")
		fmt.Printf("Reply:     %s\n", result.Reply)
	} else {
		fmt.Println("Mode:      tool call")
		fmt.Printf("Tool :-    {\"tool\": %q, \"input\": %q}\n", result.ToolCall.Tool, result.ToolCall.Input)
		fmt.Printf("Response : %s\n", utils.Truncate(result.ToolResult.JSON(), 500))
		fmt.Printf("Reply:     %s\n", result.Reply)
	}

	fmt.Printf("Duration:  %v\n", duration)
	fmt.Println("═════════════════════════════════════════════════════════════")
}
