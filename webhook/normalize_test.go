package webhook

import (
	"testing"
	"time"

	"github.com/AmitKumar2k2/webhook-repo/pkg/storage"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestRoutePush tests that a push delivery maps to a push record with
// the branch stripped down from the ref.
func TestRoutePush(t *testing.T) {
	body := []byte(`{"ref":"refs/heads/main","head_commit":{"id":"abc123","author":{"name":"alice"}}}`)

	record := routeEvent("push", body, testNow)
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.Action != storage.ActionPush {
		t.Fatalf("expected action push, got %q", record.Action)
	}
	if record.Author != "alice" {
		t.Fatalf("expected author alice, got %q", record.Author)
	}
	if record.ToBranch != "main" {
		t.Fatalf("expected to_branch main, got %q", record.ToBranch)
	}
	if record.FromBranch != nil {
		t.Fatalf("expected nil from_branch for push, got %q", *record.FromBranch)
	}
	if record.RequestID != "abc123" {
		t.Fatalf("expected request_id abc123, got %q", record.RequestID)
	}
	if !record.Timestamp.Equal(testNow) {
		t.Fatalf("expected timestamp %v, got %v", testNow, record.Timestamp)
	}
}

// TestRoutePushBareBranchRef tests that a ref without slashes is kept as is.
func TestRoutePushBareBranchRef(t *testing.T) {
	body := []byte(`{"ref":"main","head_commit":{"id":"abc123","author":{"name":"alice"}}}`)

	record := routeEvent("push", body, testNow)
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.ToBranch != "main" {
		t.Fatalf("expected to_branch main, got %q", record.ToBranch)
	}
}

// TestRoutePushMissingFields tests that a push without its required
// fields produces no record.
func TestRoutePushMissingFields(t *testing.T) {
	bodies := [][]byte{
		[]byte(`{"ref":"refs/heads/main"}`),
		[]byte(`{"ref":"refs/heads/main","head_commit":{"author":{"name":"alice"}}}`),
		[]byte(`{"ref":"refs/heads/main","head_commit":{"id":"abc123","author":{}}}`),
		[]byte(`{"head_commit":{"id":"abc123","author":{"name":"alice"}}}`),
	}
	for _, body := range bodies {
		if record := routeEvent("push", body, testNow); record != nil {
			t.Fatalf("expected no record for %s, got %+v", body, record)
		}
	}
}

// TestRoutePullRequestOpened tests the opened pull request mapping.
func TestRoutePullRequestOpened(t *testing.T) {
	body := []byte(`{"action":"opened","pull_request":{"id":42,"user":{"login":"bob"},"head":{"ref":"feature"},"base":{"ref":"main"}}}`)

	record := routeEvent("pull_request", body, testNow)
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.Action != storage.ActionPullRequest {
		t.Fatalf("expected action pull_request, got %q", record.Action)
	}
	if record.Author != "bob" {
		t.Fatalf("expected author bob, got %q", record.Author)
	}
	if record.FromBranch == nil || *record.FromBranch != "feature" {
		t.Fatalf("expected from_branch feature, got %v", record.FromBranch)
	}
	if record.ToBranch != "main" {
		t.Fatalf("expected to_branch main, got %q", record.ToBranch)
	}
	if record.RequestID != "42" {
		t.Fatalf("expected request_id 42, got %q", record.RequestID)
	}
}

// TestRoutePullRequestOtherActions tests that non-opened, non-merged
// pull request activity produces no record.
func TestRoutePullRequestOtherActions(t *testing.T) {
	for _, action := range []string{"reopened", "synchronize", "edited", "labeled"} {
		body := []byte(`{"action":"` + action + `","pull_request":{"id":42,"user":{"login":"bob"},"head":{"ref":"feature"},"base":{"ref":"main"}}}`)
		if record := routeEvent("pull_request", body, testNow); record != nil {
			t.Fatalf("expected no record for action %q, got %+v", action, record)
		}
	}
}

// TestRouteClosedUnmerged tests that a closed-but-unmerged pull request
// is neither a merge nor an open.
func TestRouteClosedUnmerged(t *testing.T) {
	body := []byte(`{"action":"closed","pull_request":{"id":42,"merged":false,"user":{"login":"bob"},"head":{"ref":"feature"},"base":{"ref":"main"}}}`)

	if record := routeEvent("pull_request", body, testNow); record != nil {
		t.Fatalf("expected no record, got %+v", record)
	}
}

// TestRouteClosedMerged tests that a merged pull request records the
// merger's login, not the pull request author's.
func TestRouteClosedMerged(t *testing.T) {
	body := []byte(`{"action":"closed","pull_request":{"id":42,"merged":true,"user":{"login":"bob"},"merged_by":{"login":"carol"},"head":{"ref":"feature"},"base":{"ref":"main"}}}`)

	record := routeEvent("pull_request", body, testNow)
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.Action != storage.ActionMerge {
		t.Fatalf("expected action merge, got %q", record.Action)
	}
	if record.Author != "carol" {
		t.Fatalf("expected author carol, got %q", record.Author)
	}
	if record.FromBranch == nil || *record.FromBranch != "feature" {
		t.Fatalf("expected from_branch feature, got %v", record.FromBranch)
	}
	if record.RequestID != "42" {
		t.Fatalf("expected request_id 42, got %q", record.RequestID)
	}
}

// TestRouteMergedMissingMerger tests that a merged pull request without
// a merged_by object produces no record.
func TestRouteMergedMissingMerger(t *testing.T) {
	body := []byte(`{"action":"closed","pull_request":{"id":42,"merged":true,"user":{"login":"bob"},"head":{"ref":"feature"},"base":{"ref":"main"}}}`)

	if record := routeEvent("pull_request", body, testNow); record != nil {
		t.Fatalf("expected no record, got %+v", record)
	}
}

// TestRouteUnknownEvent tests that event labels outside push and
// pull_request are ignored.
func TestRouteUnknownEvent(t *testing.T) {
	if record := routeEvent("issues", []byte(`{"action":"opened"}`), testNow); record != nil {
		t.Fatalf("expected no record, got %+v", record)
	}
}
