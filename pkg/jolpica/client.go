// Package jolpica fetches season data from the Jolpica F1 api
// (an Ergast compatible service).
package jolpica

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"golang.org/x/time/rate"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

const DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

var ErrUnexpectedStatus = errors.New("unexpected response status")

var racesPath = jp.MustParseString("$.MRData.RaceTable.Races[*]")

type (
	Option func(c *Client)
	Client struct {
		baseURL string
		http    *http.Client
		limiter *rate.Limiter
		l       *log.Logger
	}
)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(c *Client) {
		c.http = cli
	}
}

// WithRateLimit limits the number of requests per second
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(opts ...Option) *Client {
	ret := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(4), 1),
		l:       log.Default().Named("jolpica"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// FetchCalendar returns the calendar of the season.
// The sprint flag is not part of the calendar data, see FetchSeason.
func (c *Client) FetchCalendar(ctx context.Context, year int) ([]model.CalendarEntry, error) {
	races, err := c.fetchRaces(ctx, fmt.Sprintf("/%d", year))
	if err != nil {
		return nil, err
	}
	ret := make([]model.CalendarEntry, 0, len(races))
	for i := range races {
		ret = append(ret, races[i].toCalendarEntry())
	}
	return ret, nil
}

// FetchRace returns the race of the given round.
// Returns nil without error if the race has no results yet.
// Missing qualifying or sprint data does not fail the race.
func (c *Client) FetchRace(ctx context.Context, year, round int) (*model.Race, error) {
	races, err := c.fetchRaces(ctx, fmt.Sprintf("/%d/%d/results", year, round))
	if err != nil {
		return nil, err
	}
	if len(races) == 0 || len(races[0].Results) == 0 {
		return nil, nil
	}
	ret := races[0].toRace()

	if quali, err := c.fetchRaces(ctx,
		fmt.Sprintf("/%d/%d/qualifying", year, round)); err == nil {
		if len(quali) > 0 {
			ret.Qualifying = quali[0].qualifying()
		}
	} else {
		c.l.Warn("could not fetch qualifying",
			log.Int("year", year), log.Int("round", round), log.ErrorField(err))
	}

	if sprint, err := c.fetchRaces(ctx,
		fmt.Sprintf("/%d/%d/sprint", year, round)); err == nil {
		if len(sprint) > 0 && len(sprint[0].SprintResults) > 0 {
			ret.Sprint = sprint[0].sprint()
		}
	} else {
		c.l.Warn("could not fetch sprint",
			log.Int("year", year), log.Int("round", round), log.ErrorField(err))
	}
	return ret, nil
}

// FetchSeason fetches the calendar and the results of all completed races.
// Fetching stops at the first round without results.
func (c *Client) FetchSeason(ctx context.Context, year int) (*model.Season, error) {
	calendar, err := c.FetchCalendar(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar %d: %w", year, err)
	}
	ret := &model.Season{Year: year, Calendar: calendar, Races: []model.Race{}}
	for i := range calendar {
		race, err := c.FetchRace(ctx, year, calendar[i].Round)
		if err != nil {
			return nil, fmt.Errorf("fetch round %d/%d: %w", year, calendar[i].Round, err)
		}
		if race == nil {
			break
		}
		calendar[i].HasSprint = race.HasSprint()
		ret.Races = append(ret.Races, *race)
	}
	c.l.Info("season fetched",
		log.Int("year", year),
		log.Int("calendar", len(calendar)),
		log.Int("races", len(ret.Races)))
	return ret, nil
}

func (c *Client) fetchRaces(ctx context.Context, endpoint string) ([]wireRace, error) {
	data, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, err
	}
	found := racesPath.Get(obj)
	ret := make([]wireRace, 0, len(found))
	for _, item := range found {
		var r wireRace
		if err := oj.Unmarshal([]byte(oj.JSON(item)), &r); err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s.json", c.baseURL, endpoint)
	c.l.Debug("fetching", log.String("url", url))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnexpectedStatus, resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}
