package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/config"
)

const defaultConcurrency = 4

// Client is a thin Trello REST client. No retry or backoff: a failed fetch
// surfaces to the task layer, whose bounded retry policy re-invokes the
// whole extract.
type Client struct {
	baseURL     string
	key         string
	token       string
	hc          *http.Client
	concurrency int
}

func NewClient(cfg config.TrelloConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		key:         cfg.Key,
		token:       cfg.Token,
		hc:          &http.Client{Timeout: 30 * time.Second},
		concurrency: defaultConcurrency,
	}
}

type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Card struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Desc   string     `json:"desc"`
	IDList string     `json:"idList"`
	Due    *time.Time `json:"due"`
	Closed bool       `json:"closed"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	query := url.Values{}
	query.Set("key", c.key)
	query.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return errors.Trace(err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Annotatef(err, "trello GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("trello GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return errors.Trace(json.NewDecoder(resp.Body).Decode(out))
}

func (c *Client) Lists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	err := c.get(ctx, fmt.Sprintf("/boards/%s/lists", boardID), &lists)
	return lists, errors.Trace(err)
}

func (c *Client) Cards(ctx context.Context, boardID string) ([]Card, error) {
	var cards []Card
	err := c.get(ctx, fmt.Sprintf("/boards/%s/cards", boardID), &cards)
	return cards, errors.Trace(err)
}

// BoardCards fetches every board's cards with bounded concurrency. The first
// failure wins; partial results are discarded.
func (c *Client) BoardCards(ctx context.Context, boardIDs []string) (map[string][]Card, error) {
	wp := workerpool.New(c.concurrency)

	var mu sync.Mutex
	byBoard := make(map[string][]Card, len(boardIDs))
	var firstErr error

	for _, boardID := range boardIDs {
		boardID := boardID
		wp.Submit(func() {
			cards, err := c.Cards(ctx, boardID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = errors.Annotatef(err, "board %s", boardID)
				}
				return
			}
			byBoard[boardID] = cards
		})
	}
	wp.StopWait()

	if firstErr != nil {
		return nil, errors.Trace(firstErr)
	}
	return byBoard, nil
}

// JobCard is the business shape a Trello card parses into: a job number, the
// site address from the card title, and the pipeline stage from its list.
type JobCard struct {
	JobNo   string     `json:"job_no"`
	Address string     `json:"address"`
	Stage   string     `json:"stage"`
	Due     *time.Time `json:"due,omitempty"`
}

var (
	jobNoRe     = regexp.MustCompile(`^([A-Z]{1,4}-?\d{2,6})\b`)
	separatorRe = regexp.MustCompile(`^\s*[-–—:]\s*`)
)

// ParseJobCards turns raw cards into JobCards. Cards without a recognizable
// job number prefix, and closed cards, are dropped.
func ParseJobCards(cards []Card, lists []List) []JobCard {
	stageByList := make(map[string]string, len(lists))
	for _, list := range lists {
		stageByList[list.ID] = list.Name
	}

	jobs := make([]JobCard, 0, len(cards))
	for _, card := range cards {
		if card.Closed {
			continue
		}
		name := strings.TrimSpace(card.Name)
		m := jobNoRe.FindString(name)
		if m == "" {
			continue
		}
		rest := separatorRe.ReplaceAllString(name[len(m):], "")
		jobs = append(jobs, JobCard{
			JobNo:   m,
			Address: strings.TrimSpace(rest),
			Stage:   stageByList[card.IDList],
			Due:     card.Due,
		})
	}
	return jobs
}
