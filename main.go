package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"clipforge/config"
	"clipforge/frames"
	"clipforge/generator"
	"clipforge/publisher"
	"clipforge/research"
	"clipforge/tracker"
	"clipforge/types"
)

func main() {
	// Load .env (local dev only — CI uses real env)
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	scriptPath := flag.String("script", "", "script file to generate from (one-shot mode)")
	serve := flag.Bool("serve", false, "run the HTTP job API instead of a one-shot run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	t := tracker.New(
		cfg,
		tracker.NewMemoryRepository(),
		generator.New(cfg),
		frames.New(cfg.Frames),
		publisher.NewDrive(cfg.Publish),
	)

	if *serve {
		log.Printf("🎬 clipforge API listening on %s", cfg.Server.Addr)
		if err := runServer(cfg.Server.Addr, t); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	script, err := loadScript(*scriptPath, cfg)
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	log.Println("🎬 clipforge one-shot run starting")
	jobID, err := t.Submit(script, types.Options{})
	if err != nil {
		log.Fatalf("Submit failed: %v", err)
	}

	job := waitForJob(t, jobID)
	if job.Status == types.StatusFailed {
		log.Fatalf("❌ Job failed: %s", job.Error)
	}
	if job.Warning != "" {
		log.Printf("⚠️  %s", job.Warning)
	}
	log.Printf("✅ Job complete! %d clip(s), video: %s", len(job.Clips), job.FinalDownloadLink)
}

// loadScript reads the script from a file or, when none is given,
// pulls a story from Reddit
func loadScript(path string, cfg *config.Config) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	source, err := research.New(cfg.Research)
	if err != nil {
		return "", err
	}
	story, err := source.Pick(context.Background())
	if err != nil {
		return "", err
	}
	return story.Body, nil
}

// waitForJob polls until the job reaches a terminal state
func waitForJob(t *tracker.Tracker, id string) types.Job {
	lastProgress := -1
	for {
		job, err := t.Status(id)
		if err != nil {
			log.Fatalf("Status query failed: %v", err)
		}
		if job.Progress != lastProgress {
			log.Printf("[main] progress: %d%% (%d/%d clips)", job.Progress, len(job.Clips), len(job.Segments))
			lastProgress = job.Progress
		}
		if job.Terminal() {
			return job
		}
		time.Sleep(500 * time.Millisecond)
	}
}
