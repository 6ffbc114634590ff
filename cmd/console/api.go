package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/jwebster45206/journal-engine/pkg/journal"
	"github.com/jwebster45206/journal-engine/pkg/roll"
	"github.com/jwebster45206/journal-engine/pkg/turn"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listBooks(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	resp, err := client.Get(baseURL + "/v1/books")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var bookMap map[string]string
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if err := json.Unmarshal(body, &bookMap); err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range bookMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, bookMap, nil
}

// CreateJournalRequest matches the API request structure
type CreateJournalRequest struct {
	Book string `json:"book"`
}

func createJournal(client *http.Client, baseURL string, bookFile string) (*journal.JournalState, error) {
	req := CreateJournalRequest{
		Book: bookFile,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/journal",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to open journal: %s", errorResp.Error)
	}

	var js journal.JournalState
	if err := json.Unmarshal(body, &js); err != nil {
		return nil, fmt.Errorf("failed to parse journal response: %w", err)
	}

	return &js, nil
}

func getJournal(client *http.Client, baseURL string, journalID uuid.UUID) (*journal.JournalState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/journal/%s", baseURL, journalID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get journal: %s", errorResp.Error)
	}

	var js journal.JournalState
	if err := json.Unmarshal(body, &js); err != nil {
		return nil, fmt.Errorf("failed to parse journal response: %w", err)
	}
	return &js, nil
}

func submitTurn(client *http.Client, baseURL string, journalID uuid.UUID, r roll.Roll, response string) (*turn.Result, error) {
	req := turn.Request{
		JournalID: journalID,
		Roll:      r,
		Response:  response,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/turn",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("turn request failed: %s", errorResp.Error)
	}

	var result turn.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &result, nil
}

// memoryAction posts an archive or retire request and returns the
// updated journal state.
func memoryAction(client *http.Client, baseURL string, journalID uuid.UUID, memoryID, action string) (*journal.JournalState, error) {
	url := fmt.Sprintf("%s/v1/journal/%s/memories/%s/%s", baseURL, journalID, memoryID, action)

	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to %s memory: %s", action, errorResp.Error)
	}

	var js journal.JournalState
	if err := json.Unmarshal(body, &js); err != nil {
		return nil, fmt.Errorf("failed to parse journal response: %w", err)
	}
	return &js, nil
}
