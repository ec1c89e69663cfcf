// Package weather supplies hourly external temperature series for the
// greenhouse simulation.
//
// Two sources are provided:
//
//   - Client fetches historical hourly data from the weatherapi.com
//     history endpoint, one request per day of the requested range.
//   - CSVSource reads "timestamp,temp_c" rows from a local file.
//
// Both return a Series whose samples are chronological and ready for
// greenhouse.Runner.Run:
//
//	client := weather.NewClient(apiKey)
//	series, err := client.Hourly(ctx, "Chicago", start, end)
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := runner.Run(series.Samples, nil)
package weather
