package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/k12grader/parser/pkg/config"
	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/paper"
	"github.com/k12grader/parser/pkg/pipeline"
	"github.com/k12grader/parser/pkg/source"
)

// report is the JSON document written by the command.
type report struct {
	Paper       *models.QuestionPaper `json:"paper"`
	Mode        paper.Mode            `json:"mode"`
	Ambiguities []paper.Ambiguity     `json:"ambiguities,omitempty"`
	Submissions []submission          `json:"submissions,omitempty"`
}

type submission struct {
	Name  string   `json:"name"`
	Pages []string `json:"pages"`
	Error string   `json:"error,omitempty"`
	*pipeline.SubmissionResult
}

func main() {
	// Command-line flags
	paperPath := flag.String("paper", "", "Path to the question paper (.txt or .pdf)")
	answerPaths := flag.String("answers", "", "Comma-separated answer sheet pages of one submission, in page order")
	answersDir := flag.String("answers-dir", "", "Directory of submissions: one subdirectory (or file) per student")
	diagramsPath := flag.String("diagrams", "", "JSON file mapping question numbers to detected shapes (optional)")
	blueprint := flag.String("blueprint", "", "Section blueprint JSON (overrides PARSER_BLUEPRINT)")
	outputJSON := flag.String("output", "", "Path to output JSON file (optional, defaults next to the paper)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("Error reading configuration: %v", err)
	}
	if *blueprint != "" {
		cfg.Blueprint = *blueprint
	}
	cfg.Verbose = cfg.Verbose || *verbose

	if *paperPath == "" {
		fmt.Fprintf(os.Stderr, "Error: paper file required\n")
		fmt.Fprintf(os.Stderr, "Usage: parser -paper <file> [-answers <p1,p2,...> | -answers-dir <dir>] [-diagrams <json>] [-output <json>] [-verbose]\n")
		os.Exit(1)
	}

	table, err := cfg.Table()
	if err != nil {
		fail("Error loading blueprint: %v", err)
	}
	opts := cfg.PipelineOptions(table)
	if cfg.Verbose {
		opts.Logger = log.New(os.Stderr, "parser: ", log.LstdFlags)
	}
	p, err := pipeline.New(opts)
	if err != nil {
		fail("Error: %v", err)
	}

	var diagrams models.DiagramIndex
	if *diagramsPath != "" {
		diagrams = mustDiagrams(*diagramsPath)
	}

	ctx := context.Background()
	out := processPaper(ctx, p, *paperPath, diagrams, cfg.Verbose)

	switch {
	case *answersDir != "":
		out.Submissions = processBatch(ctx, p, out.Paper, *answersDir, diagrams, cfg)
	case *answerPaths != "":
		pages := strings.Split(*answerPaths, ",")
		out.Submissions = []submission{processSubmission(ctx, p, out.Paper, filepath.Base(pages[0]), pages, diagrams)}
	}

	if *outputJSON == "" {
		name := "questions.json"
		if len(out.Submissions) > 0 {
			name = "results.json"
		}
		*outputJSON = filepath.Join(filepath.Dir(*paperPath), name)
	}

	writeReport(out, *outputJSON, cfg.Verbose)
}

func processPaper(ctx context.Context, p *pipeline.Pipeline, path string, diagrams models.DiagramIndex, verbose bool) *report {
	if _, err := os.Stat(path); err != nil {
		fail("Error: cannot read paper file: %v", err)
	}
	if verbose {
		fmt.Printf("Parsing paper: %s\n", path)
	}

	text, err := source.ReadText(ctx, path)
	if err != nil {
		fail("Error reading paper: %v", err)
	}

	qp, res := p.ParsePaper(p.NewSession(), text)
	if err := res.Err(); err != nil {
		fail("Error parsing paper %s: %v", path, err)
	}

	if diagrams != nil {
		n := pipeline.AttachDiagrams(qp.Questions, diagrams)
		if verbose {
			fmt.Printf("Questions with diagrams: %d\n", n)
		}
	}

	if verbose {
		fmt.Printf("Successfully parsed %d questions (%s mode)\n", qp.TotalCount, res.Mode)
		fmt.Printf("Title: %s\n", qp.Title)
		fmt.Printf("Total marks: %d\n", qp.TotalMarks)
		for _, a := range res.Ambiguities {
			fmt.Printf("  ambiguity %s at line %d: %s\n", a.Kind, a.Line, a.Detail)
		}
	}

	return &report{Paper: qp, Mode: res.Mode, Ambiguities: res.Ambiguities}
}

func processSubmission(ctx context.Context, p *pipeline.Pipeline, qp *models.QuestionPaper, name string, pages []string, diagrams models.DiagramIndex) submission {
	sub := submission{Name: name, Pages: pages}

	texts, err := source.ReadPages(ctx, pages)
	if err != nil {
		sub.Error = err.Error()
		return sub
	}
	got, err := p.ProcessSubmission(p.NewSession(), qp, texts, diagrams)
	if err != nil {
		sub.Error = err.Error()
		return sub
	}
	sub.SubmissionResult = &got
	return sub
}

func processBatch(ctx context.Context, p *pipeline.Pipeline, qp *models.QuestionPaper, dir string, diagrams models.DiagramIndex, cfg *config.Config) []submission {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fail("Error reading directory: %v", err)
	}

	// Collect submissions: a subdirectory holds the pages of one sheet,
	// a loose file is a single-page sheet.
	type job struct {
		name  string
		pages []string
	}
	var jobs []job
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			pages, err := source.PageFiles(path)
			if err != nil || len(pages) == 0 {
				continue
			}
			jobs = append(jobs, job{entry.Name(), pages})
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".text", ".pdf":
			jobs = append(jobs, job{strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), []string{path}})
		}
	}

	if len(jobs) == 0 {
		fail("Error: no answer sheets found in %s", dir)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].name < jobs[j].name
	})

	if cfg.Verbose {
		fmt.Printf("Found %d submissions to process:\n", len(jobs))
		for _, j := range jobs {
			fmt.Printf("  %s: %d page(s)\n", j.name, len(j.pages))
		}
	}

	results := make([]submission, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = processSubmission(ctx, p, qp, j.name, j.pages, diagrams)
			if results[i].Error != "" {
				fmt.Fprintf(os.Stderr, "Error processing %s: %s\n", j.name, results[i].Error)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func mustDiagrams(path string) models.DiagramIndex {
	idx, err := source.ReadDiagrams(path)
	if err != nil {
		fail("Error reading diagrams: %v", err)
	}
	return idx
}

func writeReport(out *report, outputPath string, verbose bool) {
	// Marshal to JSON
	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fail("Error marshaling JSON: %v", err)
	}

	// Write to file
	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		fail("Error writing output file: %v", err)
	}

	fmt.Printf("Successfully wrote %d questions and %d submissions to: %s\n", out.Paper.TotalCount, len(out.Submissions), outputPath)

	if !verbose {
		return
	}

	// Show statistics
	byType := map[models.QuestionType]int{}
	choices := 0
	for _, q := range out.Paper.Questions {
		byType[q.Type]++
		if q.HasInternalChoice {
			choices++
		}
	}

	fmt.Printf("\nStatistics:\n")
	fmt.Printf("  Total Questions: %d\n", out.Paper.TotalCount)
	fmt.Printf("  Total Marks: %d\n", out.Paper.TotalMarks)
	fmt.Printf("  Internal Choices: %d\n", choices)
	for _, t := range []models.QuestionType{
		models.TypeMultipleChoice,
		models.TypeAssertionReason,
		models.TypeShortAnswer,
		models.TypeCaseStudy,
		models.TypeLongAnswer,
	} {
		if byType[t] > 0 {
			fmt.Printf("  %s: %d\n", t, byType[t])
		}
	}

	for _, s := range out.Submissions {
		if s.SubmissionResult == nil {
			fmt.Printf("  %s: failed (%s)\n", s.Name, s.Error)
			continue
		}
		fmt.Printf("  %s: %d answered, %d unanswered, %d unattributable (%s)\n",
			s.Name, len(s.Answers), len(s.Unanswered), s.Unattributable, s.SheetMode)
	}

	// Show first question as sample
	if len(out.Paper.Questions) > 0 {
		fmt.Printf("\n--- Sample Question ---\n")
		q := out.Paper.Questions[0]
		fmt.Printf("Q%d [%s, %d marks]: %s\n", q.Number, q.Type, q.Marks, q.Text)
		for _, l := range sortedKeys(q.Options) {
			correct := ""
			if l == q.CorrectOption {
				correct = " [CORRECT]"
			}
			fmt.Printf("  %s) %s%s\n", l, q.Options[l], correct)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
