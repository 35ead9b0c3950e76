// Типы ответов WeatherAPI.
package weatherapi

// ForecastResponse — ответ endpoint'а /v1/forecast.json.
// Описаны только используемые поля, остальное при unmarshal отбрасывается.
type ForecastResponse struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
	Forecast Forecast `json:"forecast"`
}

// Location — сведения о локации из ответа API.
type Location struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Condition — текстовое описание погодных условий.
type Condition struct {
	Text string `json:"text"`
}

// Current — текущие показатели.
type Current struct {
	TempC      float64   `json:"temp_c"`
	FeelslikeC float64   `json:"feelslike_c"`
	Humidity   int       `json:"humidity"`
	Condition  Condition `json:"condition"`
}

// Forecast — прогноз по дням.
type Forecast struct {
	Forecastday []ForecastDay `json:"forecastday"`
}

// ForecastDay — прогноз на один день.
type ForecastDay struct {
	Date string `json:"date"`
	Day  Day    `json:"day"`
}

// Day — агрегированные показатели дня.
type Day struct {
	MaxtempC          float64   `json:"maxtemp_c"`
	MintempC          float64   `json:"mintemp_c"`
	DailyChanceOfRain int       `json:"daily_chance_of_rain"`
	Condition         Condition `json:"condition"`
}
