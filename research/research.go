// Package research picks a script-worthy story from Reddit so the
// pipeline can run unattended when no script is supplied.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"clipforge/config"
)

// minBodyWords filters out link posts and one-liners
const minBodyWords = 40

// Story is one candidate script source
type Story struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Score int    `json:"score"`
	URL   string `json:"url"`
}

// Source finds fresh self-posts in the configured subreddits
type Source struct {
	cfg         config.ResearchConfig
	client      *reddit.Client
	usedStories map[string]bool
}

// New creates a read-only Reddit source
func New(cfg config.ResearchConfig) (*Source, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Source{
		cfg:         cfg,
		client:      client,
		usedStories: loadUsedStories(cfg.UsedStoriesLog),
	}, nil
}

// Pick returns the highest-scoring unused story across all configured
// subreddits and records it as used
func (s *Source) Pick(ctx context.Context) (*Story, error) {
	log.Println("[research] Scanning subreddits for a script source...")

	var best *Story
	for _, sub := range s.cfg.Subreddits {
		posts, _, err := s.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: s.cfg.MaxStoriesToEval},
			Time:        s.cfg.LookbackPeriod,
		})
		if err != nil {
			log.Printf("[research] r/%s scan warning: %v", sub, err)
			continue
		}
		log.Printf("[research] r/%s: %d posts", sub, len(posts))

		for _, post := range posts {
			story := s.evaluate(post)
			if story == nil {
				continue
			}
			if best == nil || story.Score > best.Score {
				best = story
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no usable stories found in %v", s.cfg.Subreddits)
	}

	s.markUsed(best.ID)
	log.Printf("[research] ✅ Picked %q (score %d)", best.Title, best.Score)
	return best, nil
}

// evaluate filters one post against score, length and reuse rules
func (s *Source) evaluate(post *reddit.Post) *Story {
	if post == nil || s.usedStories[post.ID] {
		return nil
	}
	if post.Score < s.cfg.MinScore {
		return nil
	}
	body := strings.TrimSpace(post.Body)
	if len(strings.Fields(body)) < minBodyWords {
		return nil
	}
	return &Story{
		ID:    post.ID,
		Title: post.Title,
		Body:  body,
		Score: post.Score,
		URL:   post.URL,
	}
}

func (s *Source) markUsed(id string) {
	s.usedStories[id] = true
	if s.cfg.UsedStoriesLog == "" {
		return
	}
	data, _ := json.MarshalIndent(s.usedStories, "", "  ")
	if err := os.WriteFile(s.cfg.UsedStoriesLog, data, 0644); err != nil {
		log.Printf("[research] Warning: could not save used stories log: %v", err)
	}
}

func loadUsedStories(path string) map[string]bool {
	used := make(map[string]bool)
	if path == "" {
		return used
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return used
	}
	_ = json.Unmarshal(data, &used)
	return used
}
