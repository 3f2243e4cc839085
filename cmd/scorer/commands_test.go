package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/shared"
)

func testConfig() shared.Config {
	return shared.Config{Workers: 2, FallbackLanguage: "en"}
}

func TestFileCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "reviews.jsonl")
	body := strings.Join([]string{
		`{"id": 1, "hotel_id": 1, "text": "Great stay, lovely staff", "lang": "en", "rating": 5}`,
		`{"id": 2, "hotel_id": 1, "text": "phòng bẩn", "lang": "vi", "rating": 2}`,
		`{"id": 3, "hotel_id": 2, "rating": 4}`,
	}, "\n")
	if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	sumPath := filepath.Join(dir, "summaries.jsonl")

	cmd := newFileCmd(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{in, "--summaries", sumPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 review lines, got %d: %s", len(lines), out.String())
	}
	var second domain.Review
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second.Sentiment == nil || *second.Sentiment != -0.4 {
		t.Fatalf("unexpected review 2 score: %v", second.Sentiment)
	}
	var third domain.Review
	if err := json.Unmarshal([]byte(lines[2]), &third); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if third.Sentiment != nil {
		t.Fatalf("review without text must stay unscored")
	}

	raw, err := os.ReadFile(sumPath)
	if err != nil {
		t.Fatalf("read summaries: %v", err)
	}
	var hs domain.HotelSummary
	if err := json.Unmarshal(bytes.TrimSpace(raw), &hs); err != nil {
		t.Fatalf("decode summary: %v (%s)", err, raw)
	}
	if hs.HotelID != 1 || hs.ReviewCount != 2 || hs.AverageRating != 3.5 || hs.PositiveRatio != 0.5 {
		t.Fatalf("unexpected summary: %+v", hs)
	}
}

func TestTextCmd(t *testing.T) {
	cmd := newTextCmd(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--lang", "vi", "phòng bẩn"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := `{"score":-0.4,"language":"vi","strategy":"lexicon"}`
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestFileCmd_NonStringTextScoredNeutral(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "reviews.jsonl")
	body := `{"id": 1, "hotel_id": 7, "lang": "en", "text": 12345, "rating": 4}` + "\n" +
		`{"id": 2, "hotel_id": 8, "lang": "vi", "text": "phòng bẩn", "rating": 2}` + "\n"
	if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	sumPath := filepath.Join(dir, "summaries.jsonl")

	cmd := newFileCmd(testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{in, "--summaries", sumPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var first domain.Review
	line := strings.SplitN(out.String(), "\n", 2)[0]
	if err := json.Unmarshal([]byte(line), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.ID != 1 || first.Sentiment == nil || *first.Sentiment != 0 {
		t.Fatalf("review with non-string text must get an explicit 0, got %+v", first)
	}

	raw, err := os.ReadFile(sumPath)
	if err != nil {
		t.Fatalf("read summaries: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected summaries for hotels 7 and 8, got %q", raw)
	}
	var h7 domain.HotelSummary
	if err := json.Unmarshal([]byte(lines[0]), &h7); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if h7.HotelID != 7 || h7.ReviewCount != 1 || h7.AverageRating != 4 || h7.AverageSentiment != 0 || h7.PositiveRatio != 0 {
		t.Fatalf("unexpected hotel 7 summary: %+v", h7)
	}
}
