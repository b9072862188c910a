package ergast

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"motorstats/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type fakeResponse struct {
	status int
	body   string
}

type fakeFetcher struct {
	responses map[string]fakeResponse
	getUrls   []string
	postUrls  []string
	postBody  any
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	f.getUrls = append(f.getUrls, url)
	res, ok := f.responses[url]
	if !ok {
		return 404, []byte("Not Found"), nil
	}
	return res.status, []byte(res.body), nil
}

func (f *fakeFetcher) Post(ctx context.Context, url string, body any) (int, []byte, error) {
	f.postUrls = append(f.postUrls, url)
	f.postBody = body
	res, ok := f.responses[url]
	if !ok {
		return 404, []byte("Not Found"), nil
	}
	return res.status, []byte(res.body), nil
}

func newFakeClient(responses map[string]fakeResponse) (*Client, *fakeFetcher) {
	fetcher := &fakeFetcher{responses: responses}
	client := NewClient(ClientOptions{
		Fetch:   fetcher,
		BaseUrl: "https://api.test/f1",
	})
	return client, fetcher
}

func TestCircuits(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/ergast")
	defer cleanup()

	client, fetcher := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2022/circuits.json": {200, `{
			"MRData": {"CircuitTable": {"Circuits": [
				{
					"circuitId": "bahrain",
					"circuitName": "Bahrain International Circuit",
					"Location": {
						"lat": "26.0325",
						"long": "50.5106",
						"locality": "Sakhir",
						"country": "Bahrain"
					}
				}
			]}}
		}`},
	})

	circuits, err := client.Select(SelectOptions{Season: "2022"}).Circuits(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"https://api.test/f1/2022/circuits.json"}, fetcher.getUrls)
	require.Equal(t, 1, circuits.Len())

	row := circuits.RowAt(0)
	require.Equal(t, "bahrain", row["circuitId"])
	require.Equal(t, 26.0325, row["Lat"])
	require.Equal(t, 50.5106, row["Long"])
	require.Equal(t, "Sakhir", row["Locality"])
	require.Equal(t, "Bahrain", row["Country"])
}

func TestDriverStandings(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/ergast")
	defer cleanup()

	client, _ := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2021/driverStandings.json": {200, `{
			"MRData": {"StandingsTable": {"StandingsLists": [
				{"DriverStandings": [
					{
						"position": "1",
						"points": "395.5",
						"Driver": {"code": "VER", "permanentNumber": "33"},
						"Constructors": [{"name": "Red Bull"}]
					},
					{
						"position": "2",
						"points": "387.5",
						"Driver": {"code": "HAM", "permanentNumber": "44"},
						"Constructors": [{"name": "Mercedes"}]
					}
				]}
			]}}
		}`},
	})

	standings, err := client.Select(SelectOptions{Season: "2021"}).DriverStandings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, standings.Len())

	require.Equal(t, []any{"VER", "HAM"}, standings.Column("Driver"))
	require.Equal(t, []string{"Red Bull"}, standings.RowAt(0)["Constructors"])
	require.Equal(t, "33", standings.RowAt(0)["DriverNumber"])
}

func TestDriverStandingsEmpty(t *testing.T) {
	client, _ := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2050/driverStandings.json": {200, `{
			"MRData": {"StandingsTable": {"StandingsLists": []}}
		}`},
	})

	_, err := client.Select(SelectOptions{Season: "2050"}).DriverStandings(context.Background())
	require.ErrorIs(t, err, ErrEmptyStandings)
}

func TestConstructorStandings(t *testing.T) {
	client, _ := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2021/constructorStandings.json": {200, `{
			"MRData": {"StandingsTable": {"StandingsLists": [
				{"ConstructorStandings": [
					{"position": "1", "Constructor": {"name": "Mercedes"}}
				]}
			]}}
		}`},
	})

	standings, err := client.Select(SelectOptions{Season: "2021"}).ConstructorStandings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, standings.Len())
	require.Equal(t, "1", standings.RowAt(0)["position"])
}

func TestInvalidRequest(t *testing.T) {
	client, _ := newFakeClient(nil)

	_, err := client.Select(SelectOptions{Season: "bogus"}).Circuits(context.Background())

	var invalid *InvalidRequestError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "https://api.test/f1/bogus/circuits.json", invalid.URL)
	require.Equal(t, 404, invalid.Status)
}

func TestMalformedResponse(t *testing.T) {
	client, _ := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2022/circuits.json": {200, `<html>definitely not json</html>`},
	})

	_, err := client.Select(SelectOptions{Season: "2022"}).Circuits(context.Background())

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "https://api.test/f1/2022/circuits.json", malformed.URL)
	require.Error(t, errors.Unwrap(malformed))
}

func TestSeason(t *testing.T) {
	client, _ := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2022.json": {200, `{
			"MRData": {"RaceTable": {"Races": [
				{"season": "2022", "round": "1", "raceName": "Bahrain Grand Prix"},
				{"season": "2022", "round": "2", "raceName": "Saudi Arabian Grand Prix"}
			]}}
		}`},
	})

	season, err := client.Season(context.Background(), "2022")
	require.NoError(t, err)
	require.Equal(t, 2, season.Len())
	require.Equal(t, []any{"1", "2"}, season.Column("round"))
}

// the root-level fetchers warn and return empty on non-200 instead of
// failing, unlike the selector-scoped accessors.
func TestSeasonLenientOnNotFound(t *testing.T) {
	client, _ := newFakeClient(nil)

	season, err := client.Season(context.Background(), "1800")
	require.NoError(t, err)
	require.Equal(t, 0, season.Len())
}

func TestSessionResults(t *testing.T) {
	body := `{
		"MRData": {"RaceTable": {"Races": [
			{
				"raceName": "Emilia Romagna Grand Prix",
				"SprintResults": [
					{
						"position": "1",
						"Driver": {"code": "VER", "permanentNumber": "1"}
					},
					{
						"position": "2",
						"Driver": {"code": "LEC", "permanentNumber": "16"}
					}
				]
			}
		]}}
	}`
	client, fetcher := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2022/4/sprint.json": {200, body},
	})

	results, err := client.SessionResults(context.Background(), "2022", "4", "Sprint")
	require.NoError(t, err)
	require.Equal(t, []string{"https://api.test/f1/2022/4/sprint.json"}, fetcher.getUrls)
	require.Equal(t, 2, results.Len())
	require.Equal(t, []any{"VER", "LEC"}, results.Column("Driver"))
}

func TestSessionResultsUnrecognized(t *testing.T) {
	client, fetcher := newFakeClient(nil)

	_, err := client.SessionResults(context.Background(), "2022", "4", "Warmup")

	var unrecognized *UnrecognizedSessionError
	require.ErrorAs(t, err, &unrecognized)
	require.Equal(t, "Warmup", unrecognized.Session)
	// nothing should have been fetched
	require.Empty(t, fetcher.getUrls)
}

func TestSessionDayMapping(t *testing.T) {
	testCases := []struct {
		session string
		day     string
	}{
		{"Race", "results"},
		{"Qualifying", "qualifying"},
		{"Sprint", "sprint"},
		{"Sprint Qualifying", "sprint"},
	}

	for _, test := range testCases {
		client, fetcher := newFakeClient(map[string]fakeResponse{})

		// 404s are tolerated on the day fetch, so only the empty race
		// list error can come back here
		_, err := client.SessionResults(context.Background(), "2022", "1", test.session)
		require.Error(t, err)
		require.Equal(t, []string{"https://api.test/f1/2022/1/" + test.day + ".json"}, fetcher.getUrls)
	}
}

func TestWeekendElevation(t *testing.T) {
	client, fetcher := newFakeClient(map[string]fakeResponse{
		"https://api.test/f1/2022/1.json": {200, `{
			"MRData": {"RaceTable": {"Races": [
				{
					"raceName": "Bahrain Grand Prix",
					"Circuit": {
						"circuitId": "bahrain",
						"Location": {"lat": "26.0325", "long": "50.5106"}
					}
				}
			]}}
		}`},
		elevationUrl: {200, `{"elevation": 17}`},
	})

	weekend, err := client.Weekend(context.Background(), "2022", "1")
	require.NoError(t, err)
	require.Equal(t, []string{elevationUrl}, fetcher.postUrls)

	sent, err := json.Marshal(fetcher.postBody)
	require.NoError(t, err)
	require.JSONEq(t, `{"longitude": "50.5106", "latitude": "26.0325"}`, string(sent))

	circuit := weekend["Circuit"].(map[string]any)
	loc := circuit["Location"].(map[string]any)
	require.Equal(t, float64(17), loc["alt"])
}
