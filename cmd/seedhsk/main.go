// seedhsk loads the official HSK word list into the vocabulary table. The
// input is a JSON array of {"word", "level", "pinyin"} objects.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/hskaicoach/backend/internal/config"
	"github.com/hskaicoach/backend/internal/database"
	"github.com/hskaicoach/backend/internal/store"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "./data/hsk_words.json", "path to the HSK word list JSON file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("read word list: %v", err)
	}

	var entries []struct {
		Word   string `json:"word"`
		Level  int    `json:"level"`
		Pinyin string `json:"pinyin"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatalf("parse word list: %v", err)
	}
	if len(entries) == 0 {
		log.Fatal("word list is empty")
	}

	rows := make([]store.VocabEntry, 0, len(entries))
	for _, e := range entries {
		if e.Word == "" || e.Level < 1 || e.Level > 6 {
			log.Fatalf("invalid entry: word=%q level=%d", e.Word, e.Level)
		}
		rows = append(rows, store.VocabEntry{Word: e.Word, Level: e.Level, Pinyin: e.Pinyin})
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	repo := store.NewVocabularyRepository(pool)
	if err := repo.ReplaceAll(ctx, rows); err != nil {
		log.Fatalf("seed vocabulary: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("count vocabulary: %v", err)
	}
	log.Printf("seeded %d words", count)
}
