package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaintshootinmis/MeshWttr/internal/config"
	"github.com/iaintshootinmis/MeshWttr/internal/domain"
	"github.com/iaintshootinmis/MeshWttr/internal/observability"
)

const reportJSON = `{
  "current_condition": [{
    "temp_C": "21", "temp_F": "70",
    "FeelsLikeC": "22", "FeelsLikeF": "72",
    "humidity": "55",
    "windspeedKmph": "12", "winddir16Point": "NW",
    "observation_time": "02:15 PM",
    "localObsDateTime": "2024-05-01 09:15 AM",
    "weatherDesc": [{"value": "Partly cloudy"}]
  }],
  "nearest_area": [{
    "areaName": [{"value": "Dunlap"}],
    "region": [{"value": "Tennessee"}]
  }],
  "weather": [{
    "astronomy": [{"sunrise": "06:12 AM", "sunset": "07:48 PM"}]
  }]
}`

type stubFetcher struct {
	report domain.Report
	err    error
	calls  int
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (domain.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type stubSender struct {
	mu      sync.Mutex
	batches [][]string
	outcome domain.SendOutcome
}

func (s *stubSender) Send(_ context.Context, batch []string) domain.SendOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return s.outcome
}

func (s *stubSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func testReport(t *testing.T) domain.Report {
	t.Helper()
	var r domain.Report
	require.NoError(t, json.Unmarshal([]byte(reportJSON), &r))
	return r
}

func testConfig() *config.Config {
	return &config.Config{
		Mode:          domain.ModeFull,
		SplitPolicy:   domain.PolicyBlocks,
		MessageBudget: 200,
	}
}

func newTestPipeline(fetcher Fetcher, sender Sender, cfg *config.Config, out io.Writer) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fetcher, sender, cfg, out, logger, observability.NewMetricsForTesting())
}

func TestPipeline_Run_DeliversBatch(t *testing.T) {
	fetcher := &stubFetcher{report: testReport(t)}
	sender := &stubSender{outcome: domain.SendOutcome{
		Result: domain.BatchDelivered, Delivered: 2, FailedIndex: -1,
	}}
	p := newTestPipeline(fetcher, sender, testConfig(), nil)

	require.NoError(t, p.Run(context.Background(), "Dunlap"))

	require.Equal(t, 1, sender.calls())
	batch := sender.batches[0]
	require.NotEmpty(t, batch)
	assert.Contains(t, batch[0], "Weather in Dunlap, Tennessee:")
	assert.Contains(t, strings.Join(batch, "\n"), "Wind: 12km/h NW")
}

func TestPipeline_Run_FetchFailureSkipsSender(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &stubFetcher{err: fetchErr}
	sender := &stubSender{}
	p := newTestPipeline(fetcher, sender, testConfig(), nil)

	err := p.Run(context.Background(), "Dunlap")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 0, sender.calls())
}

func TestPipeline_Run_MissingObservationSendsUnavailable(t *testing.T) {
	fetcher := &stubFetcher{report: domain.Report{"current_condition": []any{}}}
	sender := &stubSender{outcome: domain.SendOutcome{
		Result: domain.BatchDelivered, Delivered: 1, FailedIndex: -1,
	}}
	p := newTestPipeline(fetcher, sender, testConfig(), nil)

	require.NoError(t, p.Run(context.Background(), "Dunlap"))

	require.Equal(t, 1, sender.calls())
	require.Len(t, sender.batches[0], 1)
	assert.Equal(t, domain.UnavailableMessage, sender.batches[0][0])
}

func TestPipeline_Run_DryRunPrintsWithoutSending(t *testing.T) {
	fetcher := &stubFetcher{report: testReport(t)}
	sender := &stubSender{}
	cfg := testConfig()
	cfg.DryRun = true
	var out bytes.Buffer
	p := newTestPipeline(fetcher, sender, cfg, &out)

	require.NoError(t, p.Run(context.Background(), "Dunlap"))

	assert.Equal(t, 0, sender.calls())
	assert.Contains(t, out.String(), "--- Message 1/")
	assert.Contains(t, out.String(), "Weather in Dunlap, Tennessee:")
}

func TestPipeline_Run_PartialDeliveryIsError(t *testing.T) {
	fetcher := &stubFetcher{report: testReport(t)}
	sendErr := errors.New("serial write failed")
	sender := &stubSender{outcome: domain.SendOutcome{
		Result: domain.BatchPartial, Delivered: 1, FailedIndex: 1, Err: sendErr,
	}}
	p := newTestPipeline(fetcher, sender, testConfig(), nil)

	err := p.Run(context.Background(), "Dunlap")
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.Contains(t, err.Error(), "partial delivery")
}

func TestPipeline_Run_NotAttemptedIsError(t *testing.T) {
	fetcher := &stubFetcher{report: testReport(t)}
	openErr := errors.New("open /dev/ttyACM0: no such device")
	sender := &stubSender{outcome: domain.SendOutcome{
		Result: domain.BatchNotAttempted, FailedIndex: -1, Err: openErr,
	}}
	p := newTestPipeline(fetcher, sender, testConfig(), nil)

	err := p.Run(context.Background(), "Dunlap")
	require.Error(t, err)
	assert.ErrorIs(t, err, openErr)
}

func TestPipeline_Run_ConciseMode(t *testing.T) {
	fetcher := &stubFetcher{report: testReport(t)}
	sender := &stubSender{outcome: domain.SendOutcome{
		Result: domain.BatchDelivered, Delivered: 1, FailedIndex: -1,
	}}
	cfg := testConfig()
	cfg.Mode = domain.ModeConcise
	p := newTestPipeline(fetcher, sender, cfg, nil)

	require.NoError(t, p.Run(context.Background(), "Dunlap"))

	require.Equal(t, 1, sender.calls())
	require.Len(t, sender.batches[0], 1)
	assert.Contains(t, sender.batches[0][0], "Weather in Dunlap, Tennessee is partly cloudy")
}
