package types

// DateLayout is the storage and path format of observation dates.
const DateLayout = "2006-01-02"

// Station mirrors a row of the station table.
type Station struct {
	ID        string  `json:"station"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Measurement mirrors a row of the measurement table. Precipitation and
// Temperature are nil when the source cell is NULL.
type Measurement struct {
	Station       string   `json:"station"`
	Date          string   `json:"date"`
	Precipitation *float64 `json:"prcp"`
	Temperature   *float64 `json:"tobs"`
}

// TemperatureStats is the min/avg/max of observed temperature over a date
// window. All fields are nil when the window holds no rows.
type TemperatureStats struct {
	Min *float64 `json:"Min Temperature"`
	Avg *float64 `json:"Avg Temperature"`
	Max *float64 `json:"Max Temperature"`
}
