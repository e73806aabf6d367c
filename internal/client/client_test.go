// ABOUTME: Tests for the document matching API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" {
			t.Errorf("expected username alice, got %s", body["username"])
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "Login successful",
			"username": "alice",
			"role":     "user",
			"credits":  20,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Username != "alice" {
		t.Errorf("expected username alice, got %s", result.Username)
	}
	if result.Credits != 20 {
		t.Errorf("expected 20 credits, got %d", result.Credits)
	}
	if result.Cookie != "session=abc123" {
		t.Errorf("expected captured session cookie, got %q", result.Cookie)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid username or password"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error for 401, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid username or password") {
		t.Errorf("expected server error message, got %v", err)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Username already exists"})
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Register(context.Background(), "alice", "secret", "user")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Username already exists") {
		t.Errorf("expected duplicate user message, got %v", err)
	}
}

func TestProfile_SendsSessionCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=abc123" {
			t.Errorf("expected session cookie, got %q", r.Header.Get("Cookie"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Profile{Username: "alice", Role: "user", Credits: 15})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetSessionCookie("session=abc123")
	profile, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Credits != 15 {
		t.Errorf("expected 15 credits, got %d", profile.Credits)
	}
}

func TestProfile_Expired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestBalance_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/credits/get" {
			t.Errorf("expected path /credits/get, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("username") != "alice" {
			t.Errorf("expected username query, got %s", r.URL.Query().Get("username"))
		}
		json.NewEncoder(w).Encode(map[string]int{"credits": 12})
	}))
	defer server.Close()

	c := New(server.URL)
	balance, err := c.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 12 {
		t.Errorf("expected 12, got %d", balance)
	}
}

func TestBalance_ZeroIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"credits": 0})
	}))
	defer server.Close()

	c := New(server.URL)
	balance, err := c.Balance(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error for zero balance: %v", err)
	}
	if balance != 0 {
		t.Errorf("expected 0, got %d", balance)
	}
}

func TestBalance_MissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Balance(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error for missing credits field, got nil")
	}
	if !strings.Contains(err.Error(), "'credits' field missing") {
		t.Errorf("expected missing field message, got %v", err)
	}
}

func TestBalance_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Balance(context.Background(), "alice")
	if err == nil {
		t.Error("expected error for non-OK status, got nil")
	}
}

func TestUpload_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("expected path /upload, got %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected multipart file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "essay.txt" {
			t.Errorf("expected filename essay.txt, got %s", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"extracted_text": "hello"})
	}))
	defer server.Close()

	c := New(server.URL)
	text, err := c.Upload(context.Background(), "essay.txt", strings.NewReader("file content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected extracted text hello, got %q", text)
	}
}

func TestUpload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Upload(context.Background(), "essay.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if err.Error() != "Upload failed: 500" {
		t.Errorf("expected 'Upload failed: 500', got %q", err.Error())
	}
}

func TestMatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scan/match" {
			t.Errorf("expected path /scan/match, got %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "hello" {
			t.Errorf("expected text hello, got %q", body["text"])
		}
		json.NewEncoder(w).Encode(MatchResult{Matches: []Match{
			{DocumentName: "ref.pdf", SimilarityScore: "87.32%", DocumentExcerpt: "lorem", Insight: "high overlap"},
		}})
	}))
	defer server.Close()

	c := New(server.URL)
	matches, err := c.Match(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].SimilarityScore != "87.32%" {
		t.Errorf("expected verbatim score string, got %q", matches[0].SimilarityScore)
	}
}

func TestMatch_EmptyIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MatchResult{Matches: []Match{}})
	}))
	defer server.Close()

	c := New(server.URL)
	matches, err := c.Match(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error for empty matches: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestMatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Match(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "Matching failed: 502" {
		t.Errorf("expected 'Matching failed: 502', got %q", err.Error())
	}
}

func TestDeduct_SendsUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/credits/deduct" {
			t.Errorf("expected path /credits/deduct, got %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" {
			t.Errorf("expected username alice, got %q", body["username"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL)
	if err := c.Deduct(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHistory_NestedMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scan/history" {
			t.Errorf("expected path /scan/history, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"history": []map[string]interface{}{
				{
					"username": "alice",
					"result": map[string]interface{}{
						"matches": []map[string]string{
							{"document_name": "ref.pdf", "similarity_score": "64.00%"},
						},
					},
				},
				{
					"username": "alice",
					"result":   map[string]interface{}{"matches": []map[string]string{}},
				},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	records, err := c.History(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(records[0].Result.Matches) != 1 {
		t.Errorf("expected 1 match in first record, got %d", len(records[0].Result.Matches))
	}
	if len(records[1].Result.Matches) != 0 {
		t.Errorf("expected 0 matches in second record, got %d", len(records[1].Result.Matches))
	}
}

func TestPendingRequests_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/credits" {
			t.Errorf("expected path /admin/credits, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string][]CreditRequest{
			"requests": {{Username: "bob", Credits: 10}},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	requests, err := c.PendingRequests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 1 || requests[0].Username != "bob" {
		t.Errorf("unexpected requests: %+v", requests)
	}
}

func TestDecide_EncodesApproveFlag(t *testing.T) {
	for _, approve := range []bool{true, false} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/credits/approve" {
				t.Errorf("expected path /credits/approve, got %s", r.URL.Path)
			}
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			if body["admin"] != "root" {
				t.Errorf("expected admin root, got %v", body["admin"])
			}
			if body["approve"] != approve {
				t.Errorf("expected approve=%t, got %v", approve, body["approve"])
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "done"})
		}))

		c := New(server.URL)
		message, err := c.Decide(context.Background(), "root", "bob", approve)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if message != "done" {
			t.Errorf("expected message done, got %q", message)
		}
		server.Close()
	}
}

func TestAnalytics_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Analytics{
			ScansPerUser:         map[string]int{"alice": 3},
			MostScannedDocuments: map[string]int{"ref.pdf": 2},
			MostScannedTopics:    []string{"physics"},
			CreditUsage:          map[string]int{"alice": 3},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	analytics, err := c.Analytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analytics.ScansPerUser["alice"] != 3 {
		t.Errorf("unexpected analytics: %+v", analytics)
	}
	if len(analytics.MostScannedTopics) != 1 {
		t.Errorf("expected 1 topic, got %d", len(analytics.MostScannedTopics))
	}
}

func TestRequestCredits_DuplicatePending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Credit request already pending"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.RequestCredits(context.Background(), "alice", 10)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "already pending") {
		t.Errorf("expected pending message, got %v", err)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Balance(context.Background(), "alice")
	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]int{"credits": 1})
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Balance(ctx, "alice")
	if err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}
