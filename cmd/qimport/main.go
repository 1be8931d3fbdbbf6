// qimport bulk-loads questions into the bank from a JSON file holding an
// array of {stage, prompt, answer} objects.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkarhu/deduction-api/internal/domain"
	"github.com/pkarhu/deduction-api/internal/question"
)

type entry struct {
	Stage  *int    `json:"stage"`
	Prompt *string `json:"prompt"`
	Answer *string `json:"answer"`
}

func main() {
	clear := flag.Bool("clear", false, "drop existing questions before import")
	verbose := flag.Bool("verbose", false, "log every imported question")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: qimport [-clear] [-verbose] <questions.json>")
	}
	path := flag.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatalf("parse %s: JSON root must be an array of question objects: %v", path, err)
	}

	rows := make([]domain.Question, 0, len(entries))
	for i, e := range entries {
		if e.Stage == nil || e.Prompt == nil || e.Answer == nil {
			log.Fatalf("entry %d: missing one of stage/prompt/answer", i+1)
		}
		prompt := strings.TrimSpace(*e.Prompt)
		answer := strings.TrimSpace(*e.Answer)
		if *e.Stage < 1 || prompt == "" || answer == "" {
			log.Fatalf("entry %d: invalid stage/prompt/answer", i+1)
		}
		rows = append(rows, domain.Question{
			ID:     uuid.NewString(),
			Stage:  *e.Stage,
			Prompt: prompt,
			Answer: answer,
		})
		if *verbose {
			log.Printf("entry %d: stage=%d prompt=%q", i+1, *e.Stage, prompt)
		}
	}

	repo, err := question.NewPgRepository(strings.TrimSpace(os.Getenv("DATABASE_URL")))
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = repo.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *clear {
		log.Print("clearing existing questions before import")
	}
	if err := repo.Import(ctx, rows, *clear); err != nil {
		log.Fatalf("import: %v", err)
	}
	log.Printf("imported %d questions", len(rows))
}
