// Package nlp provides the sentence-segmentation oracle used by the
// chunker.
//
// Sentence segmentation is the one expensive external dependency of the
// pipeline. The default implementation is a Punkt tokenizer whose English
// training data takes noticeable time to load, so the package exposes a
// process-wide handle initialized on first use and never torn down, plus
// per-worker lazy handles for batch workloads where workers do not share
// memory. Segmentation is deterministic for identical input.
package nlp

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// ErrModelUnavailable indicates the sentence model could not be loaded.
// There is no silent fallback: callers that want to degrade to atomic-line
// chunking must do so explicitly.
var ErrModelUnavailable = errors.New("nlp: sentence model unavailable")

// Segmenter splits a text blob into an ordered list of sentences.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

type punktSegmenter struct {
	tok *sentences.DefaultSentenceTokenizer
}

func (p *punktSegmenter) Segment(text string) ([]string, error) {
	var out []string
	for _, s := range p.tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// NewSegmenter loads a fresh Punkt segmenter. Prefer Default or NewLazy
// unless an independent instance is genuinely needed.
func NewSegmenter() (Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return &punktSegmenter{tok: tok}, nil
}

var (
	defaultOnce sync.Once
	defaultSeg  Segmenter
	defaultErr  error
)

// Default returns the process-wide segmenter, loading it on first call.
// The handle is safe for reuse across many documents and is never torn
// down.
func Default() (Segmenter, error) {
	defaultOnce.Do(func() {
		defaultSeg, defaultErr = NewSegmenter()
	})
	return defaultSeg, defaultErr
}

// Lazy is a Segmenter that defers model loading until the first Segment
// call. Each batch worker holds its own Lazy so the model is only loaded
// in workers that actually process prose, and workers never share a
// handle.
type Lazy struct {
	once sync.Once
	seg  Segmenter
	err  error
}

// NewLazy returns an unloaded lazy segmenter.
func NewLazy() *Lazy {
	return &Lazy{}
}

// Segment loads the model on first use, then delegates.
func (l *Lazy) Segment(text string) ([]string, error) {
	l.once.Do(func() {
		l.seg, l.err = NewSegmenter()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.seg.Segment(text)
}
