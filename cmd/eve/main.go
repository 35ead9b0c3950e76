// Eve Console Application
// Консольный REPL: свободный текст → роутинг → инструмент → ответ.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	appcomponents "github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/router"
	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// turnTimeout ограничивает один ход: два LLM вызова плюс инструмент.
const turnTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "путь к config.yaml")
	flag.Parse()

	fmt.Println("Initializing Eve")

	// 1. Конфигурация (переиспользуем поиск из pkg/app)
	cfg, cfgPath, err := appcomponents.InitializeConfig(&appcomponents.DefaultConfigPathFinder{ConfigFlag: *configFlag})
	if err != nil {
		return err
	}

	// 2. Логгер (stdout остаётся чистым для диалога)
	if err := utils.InitLogger(cfg.Logging.Dir); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	defer utils.Close()

	utils.Info("Application started", "config", cfgPath)
	logKeysInfo(cfg)

	// 3. Компоненты: модели, инструменты, промпты, роутер
	components, err := appcomponents.Initialize(cfg)
	if err != nil {
		utils.Error("Initialization failed", "error", err)
		return err
	}
	defer components.Close()

	// 4. Показываем системные промпты ролей
	printSystemPrompts(components)

	// 5. Graceful shutdown по Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer utils.SetupGracefulShutdown(cancel)()

	fmt.Print("Eve Started Successfully :-\n\n")

	return repl(ctx, components)
}

// repl крутит цикл диалога до слова "break" или конца stdin.
func repl(ctx context.Context, c *appcomponents.Components) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Println("Chat with Eve :-")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("stdin error: %w", err)
			}
			return nil // EOF
		}

		text := scanner.Text()
		if text == "break" {
			break
		}

		if err := runTurn(ctx, c, text); err != nil {
			if ctx.Err() != nil {
				// Ctrl+C: выходим без сообщения об ошибке
				return nil
			}
			fmt.Printf("Error: %v\n\n", err)
			utils.Error("Turn failed", "error", err)
		}
	}

	utils.Info("REPL exited")
	return nil
}

// runTurn выполняет один ход и печатает его фазы в консоль.
func runTurn(ctx context.Context, c *appcomponents.Components, text string) error {
	turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	result, err := c.Router.Route(turnCtx, text, router.RouteCallbacks{
		OnRoutingToken: func(delta string) {
			fmt.Print(delta)
		},
		OnToolCall: func(call tools.ToolCall) {
			fmt.Println()
			raw, _ := json.Marshal(call)
			fmt.Printf("Tool :- %s\n", raw)
		},
		OnToolResult: func(res tools.Result) {
			fmt.Printf("Response : %s\n", res.JSON())
		},
		OnReplyToken: func(delta string) {
			fmt.Print(delta)
		},
	})
	if err != nil {
		fmt.Println()
		return err
	}

	if result.Direct {
		// Вызова не было: текст роутера и есть ответ
		fmt.Println()
		fmt.Printf("Eve :- %s\n\n", result.Reply)
		return nil
	}

	// Ответ респондера уже напечатан стримом; следом — данные инструмента
	fmt.Println()
	fmt.Printf("\n```\nData :- %s \n\n", result.DisplayData)
	return nil
}

// printSystemPrompts печатает системные промпты обеих ролей.
func printSystemPrompts(c *appcomponents.Components) {
	if pf, err := c.Prompts.Router(); err == nil {
		if msgs, err := pf.RenderMessages(map[string]string{"Tools": c.Tools.Describe()}); err == nil {
			for _, msg := range msgs {
				if msg.Role == "system" {
					fmt.Println(msg.Content)
				}
			}
		}
	}
	if pf, err := c.Prompts.Responder(); err == nil {
		fmt.Println(pf.SystemText())
	}
}

// maskKey показывает первые 8 символов ключа для идентификации.
func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 8 {
		return key + "..."
	}
	return key[:8] + "..."
}

// logKeysInfo логирует информацию о загруженных API ключах.
func logKeysInfo(cfg *config.AppConfig) {
	utils.Info("API keys status",
		"weather", maskKey(cfg.Tools.Weather.APIKey),
		"news", maskKey(cfg.Tools.News.APIKey),
		"search", maskKey(cfg.Tools.Search.APIKey))

	for name, modelDef := range cfg.Models.Definitions {
		utils.Info("Model key status", "model", name, "key", maskKey(modelDef.APIKey))
	}
}
