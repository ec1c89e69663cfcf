package weather

// HistoryResponse is the subset of the history.json payload the simulation uses.
type HistoryResponse struct {
	Location HistoryLocation `json:"location"`
	Forecast struct {
		ForecastDay []HistoryDay `json:"forecastday"`
	} `json:"forecast"`
}

type HistoryLocation struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TzID    string  `json:"tz_id"`
}

type HistoryDay struct {
	Date string        `json:"date"`
	Hour []HistoryHour `json:"hour"`
}

// HistoryHour keeps TempC as a pointer so a missing reading is detectable.
// TimeEpoch is preferred over Time: wall-clock strings are ambiguous across DST changes.
type HistoryHour struct {
	TimeEpoch *int64   `json:"time_epoch"`
	Time      string   `json:"time"` // "2006-01-02 15:04", local to the location
	TempC     *float64 `json:"temp_c"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
