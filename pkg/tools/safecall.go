// Тотальная обёртка вызова инструмента.

package tools

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ilkoid/eve-ai/pkg/utils"
)

// SafeCall — тотальная форма вызова инструмента: никогда не паникует и не
// возвращает ошибку, любой исход упакован в Result.
type SafeCall func(ctx context.Context, input string) Result

// Safe оборачивает Execute инструмента в тотальную функцию.
//
// Обёртка навешивается один раз при регистрации (Правило 1 манифеста),
// поэтому диспетчеру достаточно вызвать SafeCall без собственной обработки
// ошибок. Три исхода:
//   - обычный результат  -> Result{Success: true, Data: текст}
//   - ошибка             -> Result{Success: false, Data: err.Error()}
//   - паника             -> Result{Success: false, Data: описание паники}
//
// Ошибки и паники дополнительно уходят в лог с именем инструмента.
func Safe(name string, fn func(ctx context.Context, input string) (string, error)) SafeCall {
	return func(ctx context.Context, input string) (result Result) {
		defer func() {
			if r := recover(); r != nil {
				utils.Error("Tool panicked",
					"tool", name,
					"panic", r,
					"stack", string(debug.Stack()))
				result = NewResult(false, fmt.Sprintf("panic in %s: %v", name, r))
			}
		}()

		data, err := fn(ctx, input)
		if err != nil {
			utils.Error("Tool failed", "tool", name, "error", err)
			return NewResult(false, err.Error())
		}

		return NewResult(true, data)
	}
}
