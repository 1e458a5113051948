package float

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/config"
)

const defaultConcurrency = 4

// Client is a thin Float REST client for labour hours. Pagination follows
// the X-Pagination-Page-Count header; no retry or backoff here, the task
// layer owns that.
type Client struct {
	baseURL     string
	token       string
	pageSize    int
	hc          *http.Client
	concurrency int
}

func NewClient(cfg config.FloatConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		pageSize:    cfg.PageSize,
		hc:          &http.Client{Timeout: 30 * time.Second},
		concurrency: defaultConcurrency,
	}
}

type Person struct {
	ID   int    `json:"people_id"`
	Name string `json:"name"`
}

type LoggedTime struct {
	PersonID  int     `json:"people_id"`
	ProjectID int     `json:"project_id"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
}

func (c *Client) page(ctx context.Context, path string, query url.Values, page int, out any) (int, error) {
	query.Set("page", strconv.Itoa(page))
	query.Set("per-page", strconv.Itoa(c.pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return 0, errors.Trace(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, errors.Annotatef(err, "float GET %s page %d", path, page)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("float GET %s page %d: unexpected status %d", path, page, resp.StatusCode)
	}

	pageCount, _ := strconv.Atoi(resp.Header.Get("X-Pagination-Page-Count"))
	if pageCount < 1 {
		pageCount = 1
	}
	return pageCount, errors.Trace(json.NewDecoder(resp.Body).Decode(out))
}

// People lists everyone on the team, walking all pages.
func (c *Client) People(ctx context.Context) ([]Person, error) {
	var people []Person
	pages, err := c.page(ctx, "/people", url.Values{}, 1, &people)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for page := 2; page <= pages; page++ {
		var more []Person
		if _, err := c.page(ctx, "/people", url.Values{}, page, &more); err != nil {
			return nil, errors.Trace(err)
		}
		people = append(people, more...)
	}
	return people, nil
}

// LoggedTime fetches every logged-time entry in [start, end] (YYYY-MM-DD).
// The first page reveals the page count; remaining pages fetch with bounded
// concurrency and merge back in page order.
func (c *Client) LoggedTime(ctx context.Context, start, end string) ([]LoggedTime, error) {
	query := url.Values{}
	query.Set("start_date", start)
	query.Set("end_date", end)

	var first []LoggedTime
	pages, err := c.page(ctx, "/logged-time", cloneValues(query), 1, &first)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if pages == 1 {
		return first, nil
	}

	wp := workerpool.New(c.concurrency)

	var mu sync.Mutex
	byPage := map[int][]LoggedTime{1: first}
	var firstErr error

	for page := 2; page <= pages; page++ {
		page := page
		wp.Submit(func() {
			var entries []LoggedTime
			_, err := c.page(ctx, "/logged-time", cloneValues(query), page, &entries)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = errors.Annotatef(err, "page %d", page)
				}
				return
			}
			byPage[page] = entries
		})
	}
	wp.StopWait()

	if firstErr != nil {
		return nil, errors.Trace(firstErr)
	}

	pageNums := make([]int, 0, len(byPage))
	for page := range byPage {
		pageNums = append(pageNums, page)
	}
	sort.Ints(pageNums)

	all := make([]LoggedTime, 0, len(first)*pages)
	for _, page := range pageNums {
		all = append(all, byPage[page]...)
	}
	return all, nil
}

func cloneValues(v url.Values) url.Values {
	c := url.Values{}
	for k, vals := range v {
		c[k] = append([]string(nil), vals...)
	}
	return c
}

// HoursByPerson folds logged time into total hours per person name.
func HoursByPerson(people []Person, entries []LoggedTime) map[string]float64 {
	nameByID := make(map[int]string, len(people))
	for _, p := range people {
		nameByID[p.ID] = p.Name
	}

	totals := make(map[string]float64)
	for _, e := range entries {
		name := nameByID[e.PersonID]
		if name == "" {
			name = fmt.Sprintf("person-%d", e.PersonID)
		}
		totals[name] += e.Hours
	}
	return totals
}
