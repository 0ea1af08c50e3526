package serializer

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// thread builds a comment chain of the given depth under one article:
// comments[0] is top-level, comments[i+1] replies to comments[i].
func thread(depth int) []models.Comment {
	article := uuid.New()
	cs := make([]models.Comment, depth)
	for i := range cs {
		cs[i] = models.Comment{
			ID:        uuid.New(),
			ArticleID: article,
			Name:      fmt.Sprintf("reader-%d", i),
			Content:   fmt.Sprintf("level %d", i),
			CreatedAt: time.Date(2026, 8, 1, 0, i, 0, 0, time.UTC),
		}
		if i > 0 {
			cs[i].ParentID = &cs[i-1].ID
		}
	}
	return cs
}

func replyDepth(n CommentNode) int {
	max := 0
	for _, r := range n.Replies {
		if d := replyDepth(r) + 1; d > max {
			max = d
		}
	}
	return max
}

func TestCommentThread_DepthBound(t *testing.T) {
	cs := thread(5)

	nodes := CommentThread(cs, nil, 0, 0, RepliesPerLevel)
	if len(nodes) != 1 || len(nodes[0].Replies) != 0 {
		t.Error("budget 0 must serialize the node with no replies")
	}

	nodes = CommentThread(cs, nil, 0, 2, RepliesPerLevel)
	if got := replyDepth(nodes[0]); got != 2 {
		t.Errorf("expanded %d reply levels, want 2", got)
	}
}

// TestCommentThread_SiblingCap verifies the per-level breadth bound is
// independent of the depth budget.
func TestCommentThread_SiblingCap(t *testing.T) {
	article := uuid.New()
	parent := models.Comment{ID: uuid.New(), ArticleID: article, Name: "op"}
	flat := []models.Comment{parent}
	for i := 0; i < 25; i++ {
		flat = append(flat, models.Comment{
			ID:        uuid.New(),
			ArticleID: article,
			ParentID:  &parent.ID,
			Name:      fmt.Sprintf("replier-%d", i),
			CreatedAt: time.Date(2026, 8, 1, 0, 0, i, 0, time.UTC),
		})
	}

	nodes := CommentThread(flat, nil, 0, 3, 10)
	if len(nodes[0].Replies) != 10 {
		t.Errorf("got %d replies, want sibling cap of 10", len(nodes[0].Replies))
	}
	// The cap keeps the earliest siblings, matching the stable input order.
	if nodes[0].Replies[0].Name != "replier-0" {
		t.Errorf("first reply = %q, want replier-0", nodes[0].Replies[0].Name)
	}

	// Unlimited when perLevel <= 0.
	nodes = CommentThread(flat, nil, 0, 1, 0)
	if len(nodes[0].Replies) != 25 {
		t.Errorf("perLevel 0 should not cap, got %d", len(nodes[0].Replies))
	}
}

// TestCommentThread_EmailNeverSerialized guards the write-only email field.
func TestCommentThread_EmailNeverSerialized(t *testing.T) {
	cs := thread(2)
	cs[0].Email = "secret@example.com"

	nodes := CommentThread(cs, nil, 0, 2, RepliesPerLevel)
	out, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "secret@example.com") {
		t.Error("commenter email leaked into serialized output")
	}
}

func TestCommentThread_RepliesAlwaysArray(t *testing.T) {
	cs := thread(1)
	nodes := CommentThread(cs, nil, 0, 0, RepliesPerLevel)
	out, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"replies":[]`) {
		t.Errorf("expected empty replies array in %s", out)
	}
}
