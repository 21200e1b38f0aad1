//nolint:lll,funlen // readability
package jolpica

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mpapenbr/gp-playoffs/log"
)

const calendarJSON = `{"MRData":{"series":"f1","total":"3","RaceTable":{"season":"2025","Races":[
{"season":"2025","round":"1","raceName":"Australian Grand Prix","date":"2025-03-16","Circuit":{"circuitId":"albert_park","circuitName":"Albert Park Grand Prix Circuit","Location":{"country":"Australia"}}},
{"season":"2025","round":"2","raceName":"Chinese Grand Prix","date":"2025-03-23","Circuit":{"circuitId":"shanghai","circuitName":"Shanghai International Circuit","Location":{"country":"China"}}},
{"season":"2025","round":"3","raceName":"Japanese Grand Prix","date":"2025-04-06","Circuit":{"circuitId":"suzuka","circuitName":"Suzuka Circuit","Location":{"country":"Japan"}}}
]}}}`

const round1Results = `{"MRData":{"RaceTable":{"Races":[
{"season":"2025","round":"1","raceName":"Australian Grand Prix","date":"2025-03-16","Circuit":{"circuitId":"albert_park","circuitName":"Albert Park Grand Prix Circuit","Location":{"country":"Australia"}},
"Results":[
{"position":"1","points":"25","grid":"1","status":"Finished","Driver":{"driverId":"norris","code":"NOR","givenName":"Lando","familyName":"Norris","nationality":"British"},"Constructor":{"constructorId":"mclaren","name":"McLaren"},"FastestLap":{"rank":"1","lap":"43"}},
{"position":"2","points":"18","grid":"3","status":"+1 Lap","Driver":{"driverId":"max_verstappen","code":"VER","givenName":"Max","familyName":"Verstappen","nationality":"Dutch"},"Constructor":{"constructorId":"red_bull","name":"Red Bull"},"FastestLap":{"rank":"2","lap":"40"}},
{"position":"3","points":"0","grid":"2","status":"Retired","Driver":{"driverId":"leclerc","code":"LEC","givenName":"Charles","familyName":"Leclerc","nationality":"Monegasque"},"Constructor":{"constructorId":"ferrari","name":"Ferrari"}}
]}]}}}`

const round1Qualifying = `{"MRData":{"RaceTable":{"Races":[{"season":"2025","round":"1","QualifyingResults":[
{"position":"1","Driver":{"driverId":"norris"}},{"position":"2","Driver":{"driverId":"leclerc"}},{"position":"3","Driver":{"driverId":"max_verstappen"}}
]}]}}}`

const round2Results = `{"MRData":{"RaceTable":{"Races":[
{"season":"2025","round":"2","raceName":"Chinese Grand Prix","date":"2025-03-23","Circuit":{"circuitId":"shanghai","circuitName":"Shanghai International Circuit","Location":{"country":"China"}},
"Results":[
{"position":"1","points":"25","grid":"1","status":"Finished","Driver":{"driverId":"leclerc"},"Constructor":{"constructorId":"ferrari","name":"Ferrari"}},
{"position":"11","points":"0","grid":"3","status":"Finished","Driver":{"driverId":"norris"},"Constructor":{"constructorId":"mclaren","name":"McLaren"},"FastestLap":{"rank":"1"}}
]}]}}}`

const round2Sprint = `{"MRData":{"RaceTable":{"Races":[{"season":"2025","round":"2","SprintResults":[
{"position":"1","points":"8","status":"Finished","Driver":{"driverId":"max_verstappen"}},
{"position":"2","points":"7","status":"Disqualified","Driver":{"driverId":"leclerc"}}
]}]}}}`

const noRaces = `{"MRData":{"RaceTable":{"Races":[]}}}`

func newTestServer(t *testing.T) (*httptest.Server, map[string]int) {
	t.Helper()
	calls := map[string]int{}
	responses := map[string]string{
		"/2025.json":              calendarJSON,
		"/2025/1/results.json":    round1Results,
		"/2025/1/qualifying.json": round1Qualifying,
		"/2025/1/sprint.json":     noRaces,
		"/2025/2/results.json":    round2Results,
		"/2025/2/sprint.json":     round2Sprint,
		"/2025/3/results.json":    noRaces,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls[r.URL.Path]++
		body, ok := responses[r.URL.Path]
		if !ok {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func newTestClient(url string) *Client {
	return NewClient(
		WithBaseURL(url+"/"),
		WithRateLimit(rate.Inf),
		WithLogger(log.NewNop()))
}

func TestFetchCalendar(t *testing.T) {
	srv, _ := newTestServer(t)
	got, err := newTestClient(srv.URL).FetchCalendar(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2025, got[0].Season)
	assert.Equal(t, 2, got[1].Round)
	assert.Equal(t, "suzuka", got[2].CircuitID)
	assert.Equal(t, "Japan", got[2].Country)
	assert.Equal(t, "2025-03-23", got[1].Date)
	assert.False(t, got[1].HasSprint)
}

func TestFetchRace_Normalization(t *testing.T) {
	srv, _ := newTestServer(t)
	race, err := newTestClient(srv.URL).FetchRace(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.NotNil(t, race)

	assert.Equal(t, "Australian Grand Prix", race.RaceName)
	require.Len(t, race.Results, 3)
	nor, ver, lec := race.Results[0], race.Results[1], race.Results[2]

	assert.Equal(t, 1, nor.Position.GetOr(0))
	assert.True(t, nor.FastestLap)
	assert.Equal(t, 1, nor.FastestLapRank.GetOr(0))
	assert.True(t, nor.Points.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "McLaren", nor.Driver.MustGet().ConstructorName)
	assert.Equal(t, "NOR", nor.Driver.MustGet().Code)

	assert.Equal(t, 2, ver.Position.GetOr(0), "lapped cars are classified")
	assert.False(t, ver.FastestLap)
	assert.Equal(t, 3, ver.Grid)

	assert.True(t, lec.Position.IsNull(), "retired cars have no position")
	assert.True(t, lec.FastestLapRank.IsNull())

	require.Len(t, race.Qualifying, 3)
	assert.Equal(t, "leclerc", race.Qualifying[1].DriverID)
	assert.False(t, race.HasSprint())
}

func TestFetchRace_FastestLapOutsideEligibility(t *testing.T) {
	srv, _ := newTestServer(t)
	race, err := newTestClient(srv.URL).FetchRace(context.Background(), 2025, 2)
	require.NoError(t, err)
	nor, ok := race.Result("norris")
	require.True(t, ok)
	assert.False(t, nor.FastestLap)
	assert.Equal(t, 1, nor.FastestLapRank.GetOr(0))

	// qualifying failed, sprint present
	assert.Empty(t, race.Qualifying)
	assert.NotNil(t, race.Qualifying)
	require.True(t, race.HasSprint())
	assert.Equal(t, 1, race.Sprint[0].Position.GetOr(0))
	assert.True(t, race.Sprint[1].Position.IsNull())
	assert.True(t, race.Sprint[1].Points.Equal(decimal.NewFromInt(7)))
}

func TestFetchRace_NotYetRun(t *testing.T) {
	srv, calls := newTestServer(t)
	race, err := newTestClient(srv.URL).FetchRace(context.Background(), 2025, 3)
	require.NoError(t, err)
	assert.Nil(t, race)
	assert.Zero(t, calls["/2025/3/qualifying.json"])
}

func TestFetchSeason(t *testing.T) {
	srv, calls := newTestServer(t)
	s, err := newTestClient(srv.URL).FetchSeason(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, s.Year)
	assert.Len(t, s.Calendar, 3)
	require.Len(t, s.Races, 2)
	assert.False(t, s.Calendar[0].HasSprint)
	assert.True(t, s.Calendar[1].HasSprint)
	assert.Equal(t, 1, calls["/2025/3/results.json"])
}

func TestFetchSeason_UpstreamError(t *testing.T) {
	srv, _ := newTestServer(t)
	_, err := newTestClient(srv.URL).FetchSeason(context.Background(), 1999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}
