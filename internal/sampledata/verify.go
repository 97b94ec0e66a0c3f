package sampledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/portal"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
)

// ErrMismatch is returned when a served report differs from the local one.
var ErrMismatch = errors.New("served report does not match generated data")

type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) getJSON(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", target, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}

// Verify asks the server at baseURL for every school and season in records
// and compares each answer with the report computed locally, using up to
// workers concurrent requests. The server must already be serving the same
// data.
func Verify(ctx context.Context, baseURL string, timeout time.Duration, workers int, records []model.TransferRecord) (int, error) {
	client := newHTTPClient(timeout)
	table := model.NewTable("generated", records)
	schools := model.DistinctSchools(table).Sorted()
	seasons := table.Seasons()

	var health struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	if err := client.getJSON(ctx, baseURL+"/healthz", &health); err != nil {
		return 0, fmt.Errorf("health check: %w", err)
	}
	if health.Records != len(records) {
		return 0, fmt.Errorf("%w: server holds %d records, generated %d", ErrMismatch, health.Records, len(records))
	}

	type job struct {
		school string
		season int
	}
	jobs := make(chan job)
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		checked atomic.Int64
		wg      sync.WaitGroup
	)
	for range max(workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				q := url.Values{"school": {j.school}, "season": {strconv.Itoa(j.season)}}
				var served types.Report
				if err := client.getJSON(ctx, baseURL+"/transfers?"+q.Encode(), &served); err != nil {
					cancel(err)
					continue
				}
				if err := compare(portal.Query(table, j.school, j.season), served); err != nil {
					cancel(fmt.Errorf("%s %d: %w", j.school, j.season, err))
					continue
				}
				checked.Add(1)
			}
		}()
	}

feed:
	for _, season := range seasons {
		for _, school := range schools {
			select {
			case jobs <- job{school: school, season: season}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	n := int(checked.Load())
	if err := context.Cause(ctx); err != nil {
		return n, err
	}
	logger.Get().Debug(ctx, "reports verified", logger.Int("checked", n), logger.Int("workers", workers))
	return n, nil
}

func compare(local portal.Result, served types.Report) error {
	want := types.Report{Outgoing: local.Outgoing, Incoming: local.Incoming, Summary: local.Summary}.Rounded()
	switch {
	case !samePlayers(want.Outgoing, served.Outgoing):
		return fmt.Errorf("%w: outgoing", ErrMismatch)
	case !samePlayers(want.Incoming, served.Incoming):
		return fmt.Errorf("%w: incoming", ErrMismatch)
	case !reflect.DeepEqual(want.Summary, served.Summary):
		return fmt.Errorf("%w: summary", ErrMismatch)
	}
	return nil
}

// samePlayers treats nil and empty views as equal.
func samePlayers(a, b []types.PlayerRow) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
