package float

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quarrydata/taskpipe/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.FloatConfig{
		BaseURL:  server.URL,
		Token:    "float-token",
		PageSize: 2,
	})
}

func TestClientBearerAuth(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Person{})
	})

	_, err := client.People(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, "Bearer float-token", gotAuth)
}

func TestPeoplePagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("per-page"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("X-Pagination-Page-Count", "2")
		switch page {
		case 1:
			json.NewEncoder(w).Encode([]Person{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bo"}})
		case 2:
			json.NewEncoder(w).Encode([]Person{{ID: 3, Name: "Cy"}})
		}
	})

	people, err := client.People(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, []Person{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bo"}, {ID: 3, Name: "Cy"}}, people)
}

func TestLoggedTimeMergesPagesInOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logged-time", r.URL.Path)
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-31", r.URL.Query().Get("end_date"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("X-Pagination-Page-Count", "3")
		json.NewEncoder(w).Encode([]LoggedTime{
			{PersonID: page, Date: fmt.Sprintf("2026-08-0%d", page), Hours: float64(page)},
		})
	})

	entries, err := client.LoggedTime(context.Background(), "2026-08-01", "2026-08-31")
	assert.Nil(t, err)
	assert.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.PersonID)
	}
}

func TestLoggedTimeSinglePage(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]LoggedTime{{PersonID: 1, Hours: 7.5}})
	})

	entries, err := client.LoggedTime(context.Background(), "2026-08-01", "2026-08-31")
	assert.Nil(t, err)
	assert.Len(t, entries, 1)
	// missing page-count header means a single page
	assert.Equal(t, 1, calls)
}

func TestLoggedTimePageFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("X-Pagination-Page-Count", "2")
		if page == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]LoggedTime{})
	})

	_, err := client.LoggedTime(context.Background(), "2026-08-01", "2026-08-31")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "page 2")
}

func TestHoursByPerson(t *testing.T) {
	people := []Person{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bo"}}
	entries := []LoggedTime{
		{PersonID: 1, Hours: 7.5},
		{PersonID: 1, Hours: 2.5},
		{PersonID: 2, Hours: 8},
		{PersonID: 99, Hours: 1},
	}

	totals := HoursByPerson(people, entries)
	assert.Equal(t, 10.0, totals["Ana"])
	assert.Equal(t, 8.0, totals["Bo"])
	assert.Equal(t, 1.0, totals["person-99"])
}

func TestExtractTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/people":
			json.NewEncoder(w).Encode([]Person{{ID: 1, Name: "Ana"}})
		case "/logged-time":
			json.NewEncoder(w).Encode([]LoggedTime{{PersonID: 1, Date: "2026-08-03", Hours: 6}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	spec := ExtractTask(client, "2026-08-01", "2026-08-31")
	assert.Equal(t, "extract_float", spec.Name)
	assert.Equal(t, []string{"entries", "people"}, spec.Outputs)

	out, err := spec.Handler(context.Background(), nil)
	assert.Nil(t, err)

	entries := out["entries"].([]LoggedTime)
	assert.Len(t, entries, 1)
	assert.Equal(t, 6.0, entries[0].Hours)

	people := out["people"].([]Person)
	assert.Len(t, people, 1)
}
