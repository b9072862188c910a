// Package ergast reads the Ergast motorsport statistics API and
// reshapes its JSON payloads into flat result tables.
package ergast

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/ergast")

const BaseUrl = "https://ergast.com/api/f1"

// Fetcher is the HTTP collaborator. Both methods return the response
// status code and raw body; transport failures come back as errors.
type Fetcher interface {
	Get(ctx context.Context, url string) (int, []byte, error)
	Post(ctx context.Context, url string, body any) (int, []byte, error)
}

type Client struct {
	fetch   Fetcher
	baseUrl string
}

type ClientOptions struct {
	Fetch Fetcher
	// defaults to BaseUrl
	BaseUrl string
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = BaseUrl
	}
	return &Client{fetch: opts.Fetch, baseUrl: baseUrl}
}

// Optional query filters. Zero values contribute no path segment.
// Season also accepts the literal token "current", Round the literal
// token "last". Values are passed through unvalidated, a bogus id is
// the remote API's problem to report.
type SelectOptions struct {
	Season      string
	Round       string
	Circuit     string
	Constructor string
	Driver      string
}

// A Selection scopes the accessor methods to a filter path. The
// segment order is fixed regardless of which filters are set.
type Selection struct {
	client   *Client
	selector string
}

func (c *Client) Select(opts SelectOptions) Selection {
	var sel strings.Builder

	if opts.Season != "" {
		sel.WriteString("/" + opts.Season)
	}
	if opts.Round != "" {
		sel.WriteString("/" + opts.Round)
	}
	if opts.Circuit != "" {
		sel.WriteString("/circuits/" + opts.Circuit)
	}
	if opts.Constructor != "" {
		sel.WriteString("/constructors/" + opts.Constructor)
	}
	if opts.Driver != "" {
		sel.WriteString("/drivers/" + opts.Driver)
	}

	return Selection{client: c, selector: sel.String()}
}

func (s Selection) Selector() string {
	return s.selector
}

type standingsList struct {
	DriverStandings      []RawRecord `json:"DriverStandings"`
	ConstructorStandings []RawRecord `json:"ConstructorStandings"`
}

type envelope struct {
	MRData struct {
		RaceTable struct {
			Races []RawRecord `json:"Races"`
		} `json:"RaceTable"`
		CircuitTable struct {
			Circuits []RawRecord `json:"Circuits"`
		} `json:"CircuitTable"`
		StandingsTable struct {
			StandingsLists []standingsList `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

// strict fetch used by the selector-scoped accessors: any non-200
// status is an InvalidRequestError.
func (c *Client) getJson(ctx context.Context, url string) (envelope, error) {
	status, body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return envelope{}, err
	}
	if status != http.StatusOK {
		return envelope{}, &InvalidRequestError{URL: url, Status: status}
	}

	var env envelope
	err = json.Unmarshal(body, &env)
	if err != nil {
		return envelope{}, &MalformedResponseError{URL: url, Err: err}
	}
	return env, nil
}

func (s Selection) Circuits(ctx context.Context) (Table, error) {
	ctx, span := tracer.Start(ctx, "selection:Circuits")
	defer span.End()

	url := s.client.baseUrl + s.selector + "/circuits.json"
	env, err := s.client.getJson(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch circuits")
		return Table{}, err
	}
	return Normalize(env.MRData.CircuitTable.Circuits), nil
}

func (s Selection) DriverStandings(ctx context.Context) (Table, error) {
	ctx, span := tracer.Start(ctx, "selection:DriverStandings")
	defer span.End()

	url := s.client.baseUrl + s.selector + "/driverStandings.json"
	env, err := s.client.getJson(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch driver standings")
		return Table{}, err
	}

	lists := env.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return Table{}, ErrEmptyStandings
	}
	return Normalize(lists[0].DriverStandings), nil
}

func (s Selection) ConstructorStandings(ctx context.Context) (Table, error) {
	ctx, span := tracer.Start(ctx, "selection:ConstructorStandings")
	defer span.End()

	url := s.client.baseUrl + s.selector + "/constructorStandings.json"
	env, err := s.client.getJson(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch constructor standings")
		return Table{}, err
	}

	lists := env.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 {
		return Table{}, ErrEmptyStandings
	}
	return Normalize(lists[0].ConstructorStandings), nil
}
