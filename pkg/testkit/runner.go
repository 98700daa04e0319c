package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Tokens maps a scenario's "as" value to a bearer token.
type Tokens map[string]string

// Run executes the scenario in path against handler.
func Run(t *testing.T, handler http.Handler, tokens Tokens, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", path, err)
	}
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, tokens, s)
	})
}

// RunDir runs every scenario in dir as a subtest, in file name order.
// Scenarios share handler and therefore its database; order them with
// numeric file name prefixes when one depends on another.
func RunDir(t *testing.T, handler http.Handler, tokens Tokens, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, tokens, s)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, tokens Tokens, s *Scenario) {
	t.Helper()

	var body io.Reader
	if len(s.RequestBody) > 0 {
		body = bytes.NewReader(s.RequestBody)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.As != "" {
		token, ok := tokens[s.As]
		if !ok {
			t.Fatalf("[%s] no token for %q", s.Name, s.As)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())
	AssertHeaders(t, s, rec.Header())
	if len(s.ExpectedBody) > 0 {
		AssertJSONSubset(t, s.Name, s.ExpectedBody, rec.Body.Bytes())
	}
}
