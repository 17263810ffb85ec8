package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/internal/config"
	"honeypot-lab/internal/domain/models"
)

func newTestReporter(url string) *Reporter {
	return NewReporter(config.CallbackConfig{
		URL:         url,
		Timeout:     2 * time.Second,
		WorkerCount: 1,
		QueueSize:   8,
	}, testLogger())
}

func sampleJob() models.ReportJob {
	return models.ReportJob{
		ID:            uuid.New(),
		SessionID:     "abc-123",
		Score:         70,
		TotalMessages: 3,
		Indicators: models.IndicatorSet{
			PaymentHandles: []string{"ramu@paytm"},
			PhoneNumbers:   []string{"9876543210"},
			Links:          []string{"http://bit.ly"},
		},
		Keywords: []string{"pay", "kyc"},
		Reply:    "Oh dear, which bank?",
	}
}

func TestReporterDeliverPayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := newTestReporter(srv.URL)
	defer r.Stop()

	r.deliver(sampleJob())

	require.NotNil(t, got)
	assert.Equal(t, "abc-123", got["sessionId"])
	assert.Equal(t, true, got["scamDetected"])
	assert.Equal(t, float64(3), got["totalMessagesExchanged"])
	assert.Equal(t, "Score: 70. Reply: Oh dear, which bank?...", got["agentNotes"])

	intel, ok := got["extractedIntelligence"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"ramu@paytm"}, intel["upiIds"])
	assert.Equal(t, []any{"9876543210"}, intel["phoneNumbers"])
	assert.Equal(t, []any{"http://bit.ly"}, intel["phishingLinks"])
	assert.Equal(t, []any{"pay", "kyc"}, intel["suspiciousKeywords"])
	// No bank account extraction exists, but the field must be present
	// as an empty array, never null.
	assert.Equal(t, []any{}, intel["bankAccounts"])
}

func TestReporterScamFlagFollowsThreshold(t *testing.T) {
	job := sampleJob()
	job.Score = 50
	payload := buildPayload(job)
	assert.False(t, payload.ScamDetected)

	job.Score = 51
	payload = buildPayload(job)
	assert.True(t, payload.ScamDetected)
}

func TestReporterAgentNotesTruncation(t *testing.T) {
	job := sampleJob()
	job.Score = 95
	job.Reply = strings.Repeat("a", 80)

	payload := buildPayload(job)
	assert.Equal(t, "Score: 95. Reply: "+strings.Repeat("a", 50)+"...", payload.AgentNotes)
}

func TestReporterAgentNotesTruncationKeepsRunesWhole(t *testing.T) {
	job := sampleJob()
	job.Score = 95
	job.Reply = strings.Repeat("₹", 60)

	payload := buildPayload(job)
	assert.Equal(t, "Score: 95. Reply: "+strings.Repeat("₹", 50)+"...", payload.AgentNotes)
	assert.True(t, utf8.ValidString(payload.AgentNotes))
}

func TestReporterNilSlicesBecomeEmptyArrays(t *testing.T) {
	job := models.ReportJob{
		ID:        uuid.New(),
		SessionID: "s1",
		Score:     30,
	}

	body, err := json.Marshal(buildPayload(job))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	intel := got["extractedIntelligence"].(map[string]any)
	for _, field := range []string{"bankAccounts", "upiIds", "phishingLinks", "phoneNumbers", "suspiciousKeywords"} {
		assert.Equal(t, []any{}, intel[field], field)
	}
}

func TestReporterEnqueueSkipsLowScores(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	r := newTestReporter(srv.URL)

	job := sampleJob()
	job.Score = models.ReportMinScore - 1
	r.Enqueue(job)

	time.Sleep(100 * time.Millisecond)
	r.Stop()

	assert.Equal(t, int64(0), hits.Load())
}

func TestReporterUnreachableEndpoint(t *testing.T) {
	r := newTestReporter("http://127.0.0.1:1/updateHoneyPotFinalResult")
	defer r.Stop()

	// A dead endpoint is logged and dropped; deliver must return normally.
	r.deliver(sampleJob())
}
