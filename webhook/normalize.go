package webhook

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/AmitKumar2k2/webhook-repo/pkg/storage"
)

// routeEvent picks the normalizer for an event label and raw body, or
// returns nil when the delivery should not be recorded. Order matters:
// a merged-closed pull request must never reach the opened branch, and
// an unmerged-closed one must never be treated as a merge.
func routeEvent(event string, body []byte, now time.Time) *storage.EventRecord {
	switch event {
	case "push":
		var payload pushPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil
		}
		return normalizePush(payload, now)
	case "pull_request":
		var payload pullRequestPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil
		}
		if payload.Action == "closed" && payload.PullRequest != nil && payload.PullRequest.Merged {
			return normalizeMerge(payload, now)
		}
		return normalizePullRequest(payload, now)
	default:
		return nil
	}
}

// normalizePush records who pushed what where. The branch name is the
// final segment of the ref, so "refs/heads/main" becomes "main".
func normalizePush(payload pushPayload, now time.Time) *storage.EventRecord {
	if payload.Ref == "" || payload.HeadCommit == nil {
		return nil
	}
	if payload.HeadCommit.ID == "" || payload.HeadCommit.Author.Name == "" {
		return nil
	}
	segments := strings.Split(payload.Ref, "/")
	return &storage.EventRecord{
		Action:    storage.ActionPush,
		Author:    payload.HeadCommit.Author.Name,
		ToBranch:  segments[len(segments)-1],
		RequestID: payload.HeadCommit.ID,
		Timestamp: now,
	}
}

// normalizePullRequest records newly opened pull requests. Every other
// pull request action (reopened, synchronize, closed without merge)
// yields no record.
func normalizePullRequest(payload pullRequestPayload, now time.Time) *storage.EventRecord {
	if payload.Action != "opened" {
		return nil
	}
	pr := payload.PullRequest
	if pr == nil || pr.ID == 0 || pr.User.Login == "" || pr.Head.Ref == "" || pr.Base.Ref == "" {
		return nil
	}
	from := pr.Head.Ref
	return &storage.EventRecord{
		Action:     storage.ActionPullRequest,
		Author:     pr.User.Login,
		FromBranch: &from,
		ToBranch:   pr.Base.Ref,
		RequestID:  strconv.FormatInt(pr.ID, 10),
		Timestamp:  now,
	}
}

// normalizeMerge records a merged pull request. The author is the login
// of whoever performed the merge, not the pull request author.
func normalizeMerge(payload pullRequestPayload, now time.Time) *storage.EventRecord {
	pr := payload.PullRequest
	if pr == nil || pr.ID == 0 || pr.MergedBy == nil || pr.MergedBy.Login == "" {
		return nil
	}
	if pr.Head.Ref == "" || pr.Base.Ref == "" {
		return nil
	}
	from := pr.Head.Ref
	return &storage.EventRecord{
		Action:     storage.ActionMerge,
		Author:     pr.MergedBy.Login,
		FromBranch: &from,
		ToBranch:   pr.Base.Ref,
		RequestID:  strconv.FormatInt(pr.ID, 10),
		Timestamp:  now,
	}
}
