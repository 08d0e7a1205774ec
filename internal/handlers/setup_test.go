package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dedocracia/dedocracia/internal/auth"
	"github.com/dedocracia/dedocracia/internal/handlers"
	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/services"
	"github.com/dedocracia/dedocracia/internal/testutil"
)

// testServer bundles the API handlers with the services behind them so
// tests can arrange state directly
type testServer struct {
	Handlers   *handlers.Handlers
	Router     http.Handler
	Candidates *services.CandidateService
	Voters     *services.VoterService
	Ballots    *services.BallotService
	Lifecycle  *services.LifecycleService
	Results    *services.ResultsService
}

// newTestServer wires the full stack against an in-memory repository
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()

	resultsSvc := services.NewResultsService(log, repo)
	lifecycleSvc := services.NewLifecycleService(log, repo, resultsSvc)
	candidateSvc := services.NewCandidateService(log, repo, lifecycleSvc)
	voterSvc := services.NewVoterService(log, repo)
	ballotSvc := services.NewBallotService(log, repo, lifecycleSvc)

	h := handlers.NewForTesting(candidateSvc, voterSvc, ballotSvc, lifecycleSvc, resultsSvc)

	return &testServer{
		Handlers:   h,
		Router:     h.Router(),
		Candidates: candidateSvc,
		Voters:     voterSvc,
		Ballots:    ballotSvc,
		Lifecycle:  lifecycleSvc,
		Results:    resultsSvc,
	}
}

// request performs a JSON request against the router
func (ts *testServer) request(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	ts.Router.ServeHTTP(rr, req)
	return rr
}

// adminCookie logs in with the test password and returns the session cookie
func (ts *testServer) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()

	rr := ts.request(t, http.MethodPost, "/api/admin/login", handlers.LoginRequest{Password: "test-password"})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin login failed with %d: %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

// openWith seeds candidates and opens the election through the services
func (ts *testServer) openWith(t *testing.T, names ...string) []int {
	t.Helper()
	ctx := context.Background()

	ids := make([]int, len(names))
	for i, name := range names {
		c, err := ts.Candidates.Add(ctx, name, "")
		if err != nil {
			t.Fatalf("adding candidate %q: %v", name, err)
		}
		ids[i] = c.ID
	}
	if _, err := ts.Lifecycle.Open(ctx); err != nil {
		t.Fatalf("opening election: %v", err)
	}
	return ids
}

// decodeBody unmarshals a JSON response body
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

// assertErrorCode checks the status and error code of an error response
func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	var apiErr handlers.APIError
	decodeBody(t, rr, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, apiErr.Code, apiErr.Message)
	}
}
