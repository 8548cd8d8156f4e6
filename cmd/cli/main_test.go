package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.RequestURI()
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	rawJSON = false
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	if err := printJSON(&out, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestExpenseAddCmd(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated, `{"id":"e1"}`)

	out, err := execute(t, srv, "expense", "add", "g1", "alice", "12.50",
		"--currency", "EUR", "--participant", "alice,bob", "--share", "alice=2")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/api/v1/groups/g1/expenses" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.body["amount"] != "12.50" || rec.body["currency"] != "EUR" {
		t.Fatalf("unexpected body: %v", rec.body)
	}
	if ids, ok := rec.body["participant_ids"].([]any); !ok || len(ids) != 2 {
		t.Fatalf("expected two participants, got %v", rec.body["participant_ids"])
	}
	if !strings.Contains(out, `"id": "e1"`) {
		t.Fatalf("expected JSON output, got %q", out)
	}
}

func TestBalancesCmd(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"group_id":"g1","balances":[
		{"member_id":"alice","currency":"USD","owed":"60.00","owes":"0.00","net":"60.00"},
		{"member_id":"bob","currency":"USD","owed":"0.00","owes":"60.00","net":"-60.00"}]}`)

	out, err := execute(t, srv, "balances", "g1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/api/v1/groups/g1/balances" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if !strings.Contains(out, "MEMBER") || !strings.Contains(out, "-60.00") {
		t.Fatalf("expected balance table, got:\n%s", out)
	}
}

func TestSettleRunCmd_Individual(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"already_recorded":true,"transfers":[
		{"from_member_id":"bob","to_member_id":"alice","amount":"30.00","currency":"USD"}]}`)

	out, err := execute(t, srv, "settle", "run", "g1", "bob", "--member", "bob")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/api/v1/groups/g1/settlements" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.body["scope"] != "individual" || rec.body["member_id"] != "bob" || rec.body["initiator_id"] != "bob" {
		t.Fatalf("unexpected body: %v", rec.body)
	}
	if !strings.Contains(out, "bob -> alice: 30.00 USD") || !strings.Contains(out, "already recorded") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSettlePlanCmd_Empty(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"transfers":[]}`)

	out, err := execute(t, srv, "settle", "plan", "g1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if rec.body["scope"] != "full" {
		t.Fatalf("expected full scope, got %v", rec.body)
	}
	if strings.TrimSpace(out) != "Nothing to settle" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCall_APIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"error":"failed to settle","message":"member has no outstanding debt"}`)

	_, err := execute(t, srv, "settle", "run", "g1", "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "no outstanding debt") {
		t.Fatalf("unexpected error: %v", err)
	}
}
