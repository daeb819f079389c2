// Command replay types a text file into an editing session word by word and
// prints the annotated result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"reflective-notes-be/internal/pkg/logger"
	"reflective-notes-be/internal/repository/memory"
	"reflective-notes-be/internal/service"
	"reflective-notes-be/pkg/analysis"
	"reflective-notes-be/pkg/annotate"
	"reflective-notes-be/pkg/editor"

	"github.com/fatih/color"
)

func main() {
	file := flag.String("file", "", "text file to replay (required)")
	endpoint := flag.String("endpoint", "http://localhost:3000/api/chat", "analysis endpoint")
	offline := flag.Bool("offline", false, "use a canned analyzer instead of the endpoint")
	user := flag.String("user", "", "persist as this user id (anonymous when empty)")
	delay := flag.Duration("delay", 0, "pause between words")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		color.Red("Failed to read %s: %v", *file, err)
		os.Exit(1)
	}

	var analyzer analysis.Analyzer = analysis.NewHTTPClient(*endpoint, 30*time.Second)
	if *offline {
		analyzer = cannedAnalyzer()
	}

	factory := memory.NewRepositoryFactory()
	session := editor.NewSession(context.Background(), editor.Config{
		SessionKey: "replay",
		UserID:     *user,
		Trigger:    annotate.DefaultTriggerConfig(),
	}, editor.Dependencies{
		Analyzer: analyzer,
		Store:    service.NewNoteStore(factory),
		Logger:   logger.NewNopLogger(),
		OnNotice: func(n editor.Notice) { color.Red("! %s", n.Message) },
	})

	color.Cyan("Replaying %s\n", *file)
	for _, step := range Keystrokes(string(raw)) {
		session.Input(step.Text, step.Key)
		if *delay > 0 {
			time.Sleep(*delay)
		}
	}
	session.Wait()

	if err := session.Close(context.Background()); err != nil {
		color.Red("Final save failed: %v", err)
	}

	fmt.Println()
	printSegments(session.Render().Segments)
	fmt.Println()

	color.Yellow("\n%d analyses", len(session.Results()))
	for _, r := range session.Results() {
		fmt.Printf("  #%d %s\n", r.Seq, annotate.TooltipContent(r.RawResponse))
	}
	if id := session.Identity(); id != nil {
		color.Green("\nSaved as note %s", id.NoteID)
	}
}

// Step is the text after one word is typed and the key that finished it.
type Step struct {
	Text string
	Key  string
}

// Keystrokes splits text into per-word steps. Line breaks are reported as
// Enter and a word ending in a period as ".".
func Keystrokes(text string) []Step {
	var steps []Step
	var b strings.Builder
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			b.WriteString("\n")
			steps = append(steps, Step{Text: b.String(), Key: "Enter"})
		}
		for _, word := range strings.Fields(line) {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString(" ")
			}
			b.WriteString(word)
			key := word[len(word)-1:]
			steps = append(steps, Step{Text: b.String(), Key: key})
		}
	}
	return steps
}

// cannedAnalyzer flags the last two words of every chunk.
func cannedAnalyzer() analysis.Analyzer {
	return analysis.AnalyzerFunc(func(ctx context.Context, seq uint64, chunk annotate.Chunk) (annotate.AnalysisResult, error) {
		phrase := chunk
		if len(phrase) > 2 {
			phrase = phrase[len(phrase)-2:]
		}
		quoted := strings.Trim(strings.Join(phrase, " "), ".,!?")
		return annotate.AnalysisResult{
			Seq:         seq,
			SourceChunk: chunk,
			RawResponse: fmt.Sprintf("Tell me more about that. [User: '%s']", quoted),
		}, nil
	})
}

func printSegments(segments []annotate.Segment) {
	flagged := color.New(color.FgYellow, color.Bold, color.Underline)
	for _, s := range segments {
		if s.Flagged {
			flagged.Print(s.Text)
			continue
		}
		fmt.Print(s.Text)
	}
}
