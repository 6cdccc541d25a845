// Command study replays a generated artifact in the terminal.
//
//	study -file artifact.json [-shuffle]
//
// The file is the JSON body returned by POST /api/generate, or a completed
// job's result. Use "-" to read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"study-buddy/internal/models"
)

func main() {
	file := flag.String("file", "", "artifact JSON to study (\"-\" for stdin)")
	shuffle := flag.Bool("shuffle", false, "shuffle before starting")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	artifact, err := loadArtifact(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(os.Stdin, os.Stdout, artifact, *shuffle); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadArtifact(path string) (*models.Artifact, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open artifact: %w", err)
		}
		defer f.Close()
		r = f
	}
	return decodeArtifact(r)
}

// decodeArtifact accepts a generate response or a job snapshot.
func decodeArtifact(r io.Reader) (*models.Artifact, error) {
	var doc struct {
		models.Artifact
		Result *models.Artifact `json:"result"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	artifact := &doc.Artifact
	if doc.Result != nil {
		artifact = doc.Result
	}
	if artifact.Mode != models.ModeFlashcards && artifact.Mode != models.ModeQuiz {
		return nil, fmt.Errorf("decode artifact: unknown mode %q", artifact.Mode)
	}
	if artifact.Len() == 0 {
		return nil, fmt.Errorf("decode artifact: no %s to study", artifact.Mode)
	}
	return artifact, nil
}
