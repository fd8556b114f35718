package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeedalam/trendvision-mcp/internal/gateway"
	"github.com/saeedalam/trendvision-mcp/internal/stub"
	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

const base = "http://vision.test"

// fakeRequester answers GETs from a url->body map; missing urls fail with 404.
type fakeRequester struct {
	responses map[string]string
	postErr   error
	gets      []string
	posts     []string
}

func (f *fakeRequester) Get(ctx context.Context, url string) (json.RawMessage, error) {
	f.gets = append(f.gets, url)
	body, ok := f.responses[url]
	if !ok {
		return nil, &gateway.FetchError{Method: http.MethodGet, URL: url, StatusCode: http.StatusNotFound}
	}
	return json.RawMessage(body), nil
}

func (f *fakeRequester) Post(ctx context.Context, url string, body interface{}) (json.RawMessage, error) {
	f.posts = append(f.posts, url)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return json.RawMessage("{}"), nil
}

func TestEnrichSequencesFetches(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{
		base + "/v3.0/workbench/alerts/WB-1":       `{"id":"WB-1","severity":"critical","status":"new","createdDateTime":"c","lastUpdatedDateTime":"u","model":"M","sourceProduct":"sae"}`,
		base + "/v3.0/workbench/alerts/WB-1/notes": `{"items":[{"id":"n1","content":"first"},{"id":"n2","content":"second"}]}`,
	}}
	svc := NewService(fake, base, nil)

	got := svc.Enrich(context.Background(), "WB-1")

	assert.Equal(t, []string{
		base + "/v3.0/workbench/alerts/WB-1",
		base + "/v3.0/workbench/alerts/WB-1/notes",
	}, fake.gets)
	require.NotNil(t, got.AlertDetails)
	require.NotNil(t, got.Notes)
	assert.JSONEq(t, `"sae"`, string(got.AlertDetails.Extra["sourceProduct"]))
	assert.Equal(t, "critical", got.Summary.Severity)
	assert.Equal(t, "new", got.Summary.Status)
	assert.Equal(t, 2, got.Summary.NotesCount)
	assert.Equal(t, "Alert model: M. Investigation notes: first | second", got.Summary.Findings)
	assert.Equal(t, "Severity: critical. No detailed impact scope information available.", got.Summary.ImpactAssessment)
	assert.True(t, strings.HasSuffix(got.Summary.RecommendedActions, "Update alert status to reflect investigation progress."))
}

func TestEnrichDegradesWhenDetailsFail(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{
		base + "/v3.0/workbench/alerts/WB-1/notes": `{"items":[{"id":"n1","content":"first"}]}`,
	}}
	got := NewService(fake, base, nil).Enrich(context.Background(), "WB-1")

	assert.Nil(t, got.AlertDetails)
	require.NotNil(t, got.Notes)
	assert.Equal(t, 1, got.Summary.NotesCount)
	assert.Equal(t, Unknown, got.Summary.Severity)
	assert.Equal(t, "No alert details available for analysis.", got.Summary.Findings)
	assert.Equal(t, "No alert details available for impact assessment.", got.Summary.ImpactAssessment)
	assert.Equal(t, "Cannot provide recommendations without alert details.", got.Summary.RecommendedActions)
}

func TestEnrichDegradesWhenNotesFail(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{
		base + "/v3.0/workbench/alerts/WB-1": `{"id":"WB-1","severity":"low","status":"closed"}`,
	}}
	got := NewService(fake, base, nil).Enrich(context.Background(), "WB-1")

	require.NotNil(t, got.AlertDetails)
	assert.Nil(t, got.Notes)
	assert.Zero(t, got.Summary.NotesCount)
	assert.True(t, strings.HasSuffix(got.Summary.Findings, "No investigation notes available."))
	assert.Equal(t, "Review during regular security operations. Monitor for pattern development.", got.Summary.RecommendedActions)
}

func TestEnrichTreatsMistypedBodyAsFailure(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{
		base + "/v3.0/workbench/alerts/WB-1":       `{"id":42}`,
		base + "/v3.0/workbench/alerts/WB-1/notes": `{"items":"nope"}`,
	}}
	got := NewService(fake, base, nil).Enrich(context.Background(), "WB-1")

	assert.Nil(t, got.AlertDetails)
	assert.Nil(t, got.Notes)
	assert.Equal(t, "No alert details available for analysis.", got.Summary.Findings)
}

func TestAppendNoteWriteFails(t *testing.T) {
	fake := &fakeRequester{postErr: &gateway.FetchError{Method: http.MethodPost, StatusCode: http.StatusInternalServerError}}
	got := NewService(fake, base, nil).AppendNote(context.Background(), "WB-1", "hello")

	assert.False(t, got.Success)
	assert.Equal(t, "Failed to add note to the alert", got.Message)
	assert.Nil(t, got.Notes)
	assert.Empty(t, fake.gets, "no read-back after a failed write")

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"notes"`)
}

func TestAppendNoteReadBackFails(t *testing.T) {
	fake := &fakeRequester{}
	got := NewService(fake, base, nil).AppendNote(context.Background(), "WB-1", "hello")

	assert.True(t, got.Success)
	assert.False(t, got.Confirmed)
	require.NotNil(t, got.Notes)
	assert.Empty(t, *got.Notes)
	assert.Len(t, fake.gets, 1)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"notes":[]`)
}

func newStubService(t *testing.T) (*Service, *stub.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := stub.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.PutAlert(types.AlertDetail{AlertSummary: types.AlertSummary{
		ID: "WB-7", Severity: types.SeverityMedium, Status: types.StatusNew,
		CreatedDateTime: "2024-02-01T00:00:00Z", LastUpdatedDateTime: "2024-02-01T00:00:00Z",
	}}))

	srv := httptest.NewServer(stub.NewRouter(store, stub.Options{Token: "tok"}))
	t.Cleanup(srv.Close)

	return NewService(gateway.New("tok", nil, nil), srv.URL, nil), store
}

func TestAppendNoteRoundTrip(t *testing.T) {
	svc, store := newStubService(t)

	content := "Contained host; awaiting forensic image."
	got := svc.AppendNote(context.Background(), "WB-7", content)
	require.True(t, got.Success)
	assert.True(t, got.Confirmed)
	assert.Equal(t, "Note added successfully", got.Message)

	notes, err := svc.GetNotes(context.Background(), "WB-7")
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, content, notes.Items[0].Content)

	stored, err := store.ListNotes("WB-7")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAppendNoteUnknownAlertAgainstStub(t *testing.T) {
	svc, _ := newStubService(t)

	got := svc.AppendNote(context.Background(), "WB-missing", "x")
	assert.False(t, got.Success)
}

func TestListAlertsAgainstStub(t *testing.T) {
	svc, store := newStubService(t)
	require.NoError(t, store.PutAlert(types.AlertDetail{AlertSummary: types.AlertSummary{
		ID: "WB-8", Severity: types.SeverityHigh, Status: types.StatusClosed,
		LastUpdatedDateTime: "2024-03-01T00:00:00Z",
	}}))

	top := 1
	page, err := svc.ListAlerts(context.Background(), ListQuery{Top: &top})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "WB-8", page.Items[0].ID)
	require.NotEmpty(t, page.NextLink)

	skip := "1"
	next, err := svc.ListAlerts(context.Background(), ListQuery{Top: &top, SkipToken: &skip})
	require.NoError(t, err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "WB-7", next.Items[0].ID)

	status := "closed"
	closed, err := svc.ListAlerts(context.Background(), ListQuery{Status: &status})
	require.NoError(t, err)
	require.Len(t, closed.Items, 1)
	assert.Equal(t, "WB-8", closed.Items[0].ID)
}

func TestEnrichAgainstStub(t *testing.T) {
	svc, _ := newStubService(t)

	got := svc.Enrich(context.Background(), "WB-7")
	require.NotNil(t, got.AlertDetails)
	require.NotNil(t, got.Notes)
	assert.Empty(t, got.Notes.Items)
	assert.Equal(t, "Alert model: Not specified. No investigation notes available.", got.Summary.Findings)
	assert.Equal(t,
		"Investigate within 24 hours. Monitor for escalation or related alerts. Update alert status to reflect investigation progress.",
		got.Summary.RecommendedActions)
}

func TestNullBodiesCountAsAbsent(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
	}))
	t.Cleanup(api.Close)
	svc := NewService(gateway.New("tok", nil, nil), api.URL, nil)

	got := svc.Enrich(context.Background(), "WB-1")
	assert.Nil(t, got.AlertDetails)
	assert.Nil(t, got.Notes)
	assert.Equal(t, "No alert details available for analysis.", got.Summary.Findings)
	assert.Equal(t, Unknown, got.Summary.Severity)

	page, err := svc.ListAlerts(context.Background(), ListQuery{})
	assert.Nil(t, page)
	assert.ErrorIs(t, err, gateway.ErrNullBody)
}
