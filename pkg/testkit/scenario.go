// Package testkit provides test helpers for LogiTrack: an in-memory
// database with the schema applied, a controllable clock, JSON request
// helpers and a JSON-scenario runner for end-to-end API tests.
//
// Each scenario is one JSON file describing a request and the response it
// must produce:
//
//	{
//	  "name": "delete missing item",
//	  "as": "manager",
//	  "requestMethod": "DELETE",
//	  "requestUrl": "/api/inventory/999",
//	  "expectedCode": 404,
//	  "expectedBody": {"detail": "Inventory item 999 not found"}
//	}
//
// "as" selects a bearer token from the map passed to RunDir; an empty value
// sends the request anonymously. "expectedBody" is matched as a subset of
// the actual body, so generated ids and timestamps can be left out.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario describes a single API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	As            string            `json:"as"`
	RequestMethod string            `json:"requestMethod"`
	RequestURL    string            `json:"requestUrl"`
	RequestBody   json.RawMessage   `json:"requestBody"`
	Headers       map[string]string `json:"headers"`

	ExpectedCode    int               `json:"expectedCode"`
	ExpectedBody    json.RawMessage   `json:"expectedBody"`
	ExpectedHeaders map[string]string `json:"expectedHeaders"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// LoadAllFromDir loads every *.json file in dir, sorted by file name.
// Files that fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(paths)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
