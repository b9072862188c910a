package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/codes"
)

const elevationUrl = "https://www.mapcoordinates.net/admin/component/edit/" +
	"Vpc_MapCoordinates_Advanced_GoogleMapCoords_Component/" +
	"Component/json-get-elevation"

// lenient fetch used by the root-level convenience functions: a
// non-200 status logs a warning and yields an empty envelope instead
// of failing. older callers depend on this, keep it separate from the
// strict accessor path.
func (c *Client) getLenient(ctx context.Context, url string) (envelope, error) {
	status, body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return envelope{}, err
	}
	if status != http.StatusOK {
		slog.WarnContext(ctx, "request returned non-200 status", "url", url, "status", status)
		return envelope{}, nil
	}

	var env envelope
	err = json.Unmarshal(body, &env)
	if err != nil {
		return envelope{}, &MalformedResponseError{URL: url, Err: err}
	}
	return env, nil
}

// Season fetches the full race calendar of one year. `year` can also
// be the literal token "current".
func (c *Client) Season(ctx context.Context, year string) (Table, error) {
	ctx, span := tracer.Start(ctx, "client:Season")
	defer span.End()

	url := fmt.Sprintf("%s/%s.json", c.baseUrl, year)
	env, err := c.getLenient(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch season")
		return Table{}, err
	}
	return Normalize(env.MRData.RaceTable.Races), nil
}

// Day fetches one race day's raw race entries. `day` is one of
// "results", "qualifying" or "sprint".
func (c *Client) Day(ctx context.Context, year, gp, day string) ([]RawRecord, error) {
	url := fmt.Sprintf("%s/%s/%s/%s.json", c.baseUrl, year, gp, day)
	env, err := c.getLenient(ctx, url)
	if err != nil {
		return nil, err
	}
	return env.MRData.RaceTable.Races, nil
}

// SessionResults fetches the result table of one session of a race
// weekend. `session` is "Race", "Qualifying", "Sprint" or
// "Sprint Qualifying".
func (c *Client) SessionResults(ctx context.Context, year, gp, session string) (Table, error) {
	ctx, span := tracer.Start(ctx, "client:SessionResults")
	defer span.End()

	var day, key string
	switch session {
	case "Race":
		day, key = "results", "Results"
	case "Qualifying":
		day, key = "qualifying", "QualifyingResults"
	case "Sprint", "Sprint Qualifying":
		day, key = "sprint", "SprintResults"
	default:
		return Table{}, &UnrecognizedSessionError{Session: session}
	}

	races, err := c.Day(ctx, year, gp, day)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch race day")
		return Table{}, err
	}
	if len(races) == 0 {
		return Table{}, fmt.Errorf("no race entries for %s/%s", year, gp)
	}

	return Normalize(recordList(races[0][key])), nil
}

// Weekend fetches one race weekend's entry and augments its circuit
// location with an elevation looked up through a third-party
// endpoint. The elevation is written into the nested Location of the
// returned record, matching what older callers expect.
//
// Deprecated: will be removed without a direct replacement.
func (c *Client) Weekend(ctx context.Context, year, gp string) (RawRecord, error) {
	ctx, span := tracer.Start(ctx, "client:Weekend")
	defer span.End()

	url := fmt.Sprintf("%s/%s/%s.json", c.baseUrl, year, gp)
	env, err := c.getLenient(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch weekend")
		return nil, err
	}
	races := env.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, fmt.Errorf("no race entries for %s/%s", year, gp)
	}
	data := races[0]

	circuit, _ := data["Circuit"].(map[string]any)
	loc, _ := circuit["Location"].(map[string]any)
	if loc == nil {
		return data, nil
	}

	status, body, err := c.fetch.Post(ctx, elevationUrl, map[string]any{
		"longitude": loc["long"],
		"latitude":  loc["lat"],
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch elevation")
		return nil, err
	}
	if status != http.StatusOK {
		slog.WarnContext(ctx, "elevation lookup returned non-200 status", "status", status)
		return data, nil
	}

	var res struct {
		Elevation any `json:"elevation"`
	}
	err = json.Unmarshal(body, &res)
	if err != nil {
		return nil, &MalformedResponseError{URL: elevationUrl, Err: err}
	}
	loc["alt"] = res.Elevation

	return data, nil
}
