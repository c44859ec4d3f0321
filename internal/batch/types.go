package batch

import (
	"fmt"
	"strings"
	"time"
)

// Outcome classifies what happened to one image.
type Outcome int

const (
	// Recognized means the engine returned non-empty text.
	Recognized Outcome = iota
	// Empty means recognition succeeded with no text; no entry is written.
	Empty
	// Failed means a recoverable load or engine error was recorded.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Recognized:
		return "recognized"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Entry is the per-image result. File is the base name of the image.
type Entry struct {
	File      string
	Languages string
	Outcome   Outcome
	Text      string
	Err       error
}

// String renders the entry as it appears in the output file. Recognized text
// is followed by a blank line; text that does not end in a newline gets one.
// Empty entries render as nothing.
func (e Entry) String() string {
	switch e.Outcome {
	case Recognized:
		text := e.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return fmt.Sprintf("Languages: %s - File: %s\n%s\n", e.Languages, e.File, text)
	case Failed:
		return fmt.Sprintf("Error processing image %s: %v\n", e.File, e.Err)
	default:
		return ""
	}
}

// Report summarizes a completed batch.
type Report struct {
	// OutputPath is the file the entries were written to.
	OutputPath string

	// Languages is the language specification used for every image.
	Languages string

	// Entries holds the written entries in input order. Empty outcomes are
	// counted but not kept.
	Entries []Entry

	Total      int
	Recognized int
	Empty      int
	Failed     int

	Duration time.Duration
}

func (r *Report) add(entry Entry) {
	r.Total++
	switch entry.Outcome {
	case Recognized:
		r.Recognized++
	case Empty:
		r.Empty++
		return
	case Failed:
		r.Failed++
	}
	r.Entries = append(r.Entries, entry)
}
