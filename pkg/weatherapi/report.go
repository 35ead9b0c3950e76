// Сборка человекочитаемой сводки погоды.
package weatherapi

import (
	"fmt"
	"strings"
)

// Report собирает текстовую сводку из ответа API: текущие условия плюс
// прогноз на сегодня. Ожидает ответ с хотя бы одним днём прогноза
// (Forecast это гарантирует).
func (r *ForecastResponse) Report() string {
	day := r.Forecast.Forecastday[0].Day

	return fmt.Sprintf(
		"Currently, it's %s in %s with %v°C (feels like %v°C) and humidity at %d%%. "+
			"Today's forecast: %s, highs of %v°C and lows of %v°C. Chance of rain is %d%%.",
		strings.ToLower(r.Current.Condition.Text),
		r.Location.Name,
		r.Current.TempC,
		r.Current.FeelslikeC,
		r.Current.Humidity,
		strings.ToLower(day.Condition.Text),
		day.MaxtempC,
		day.MintempC,
		day.DailyChanceOfRain,
	)
}
