package research

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"clipforge/config"
)

func testSource(t *testing.T) *Source {
	t.Helper()
	return &Source{
		cfg: config.ResearchConfig{
			MinScore:       50,
			UsedStoriesLog: filepath.Join(t.TempDir(), "used.json"),
		},
		usedStories: make(map[string]bool),
	}
}

func longBody() string {
	return strings.Repeat("Something strange happened in the old house that night. ", 10)
}

// TestEvaluateFilters applies the score, length and reuse rules.
func TestEvaluateFilters(t *testing.T) {
	s := testSource(t)
	s.usedStories["used1"] = true

	cases := []struct {
		name string
		post *reddit.Post
		keep bool
	}{
		{"good post", &reddit.Post{ID: "a1", Title: "A story", Body: longBody(), Score: 120}, true},
		{"low score", &reddit.Post{ID: "a2", Title: "Meh", Body: longBody(), Score: 10}, false},
		{"short body", &reddit.Post{ID: "a3", Title: "Link post", Body: "too short", Score: 500}, false},
		{"already used", &reddit.Post{ID: "used1", Title: "Rerun", Body: longBody(), Score: 900}, false},
		{"nil post", nil, false},
	}
	for _, tc := range cases {
		got := s.evaluate(tc.post)
		if (got != nil) != tc.keep {
			t.Errorf("%s: kept=%v, want %v", tc.name, got != nil, tc.keep)
		}
	}
}

// TestUsedStoriesRoundTrip persists the used log across instances.
func TestUsedStoriesRoundTrip(t *testing.T) {
	s := testSource(t)
	s.markUsed("story-42")

	reloaded := loadUsedStories(s.cfg.UsedStoriesLog)
	if !reloaded["story-42"] {
		t.Fatal("used story id not persisted")
	}
	if s.evaluate(&reddit.Post{ID: "story-42", Title: "Again", Body: longBody(), Score: 999}) != nil {
		t.Fatal("used story passed evaluation")
	}
}
