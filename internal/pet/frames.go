package pet

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todoneko/internal/parallel"
)

// Asset names an emotion and the image file drawn for it.
type Asset struct {
	Name string
	File string
}

// Options controls how frames are loaded.
type Options struct {
	// AssetDir holds the images. Empty means built-in art.
	AssetDir  string
	Assets    []Asset
	MaxWidth  int
	MaxHeight int
	Cols      int
}

// Frame is one rendered emotion.
type Frame struct {
	Emotion     string
	Lines       []string
	Placeholder bool
	// Source is the image path, or "" for built-in art and placeholders.
	Source string
	// Err is why a placeholder was used.
	Err error
}

// String joins the frame lines.
func (f Frame) String() string {
	return strings.Join(f.Lines, "\n")
}

// Set holds a frame per emotion.
type Set struct {
	frames map[string]Frame
	order  []string
}

// LoadSet renders a frame for every asset, decoding images concurrently.
// Failures are logged at warn level and replaced by placeholders.
func LoadSet(opts Options, logger *log.Logger) *Set {
	s := &Set{frames: make(map[string]Frame, len(opts.Assets))}

	pool := parallel.NewWorkerPool[Frame](context.Background(), runtime.NumCPU(), false)
	seen := make(map[string]bool, len(opts.Assets))
	for _, a := range opts.Assets {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		s.order = append(s.order, a.Name)
		a := a
		pool.Submit(a.Name, func() (Frame, error) {
			return loadFrame(a, opts), nil
		})
	}

	results, _ := pool.Wait()
	for _, r := range results {
		s.frames[r.ID] = r.Value
	}
	for _, name := range s.order {
		if f := s.frames[name]; f.Err != nil && logger != nil {
			logger.Warn("using placeholder frame", "emotion", name, "err", f.Err)
		}
	}
	return s
}

func loadFrame(a Asset, opts Options) Frame {
	if opts.AssetDir == "" {
		if art, ok := BuiltinArt(a.Name); ok {
			return Frame{Emotion: a.Name, Lines: art}
		}
		return placeholderFrame(a.Name, opts.Cols, fmt.Errorf("%w: no built-in art for %q", ErrMissingAsset, a.Name))
	}
	if a.File == "" {
		return placeholderFrame(a.Name, opts.Cols, fmt.Errorf("%w: no file for %q", ErrMissingAsset, a.Name))
	}

	path := a.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.AssetDir, path)
	}
	img, err := LoadImage(path)
	if err != nil {
		return placeholderFrame(a.Name, opts.Cols, err)
	}
	lines := Convert(Fit(img, opts.MaxWidth, opts.MaxHeight), opts.Cols)
	if len(lines) == 0 {
		return placeholderFrame(a.Name, opts.Cols, fmt.Errorf("image %s is blank", path))
	}
	return Frame{Emotion: a.Name, Lines: lines, Source: path}
}

func placeholderFrame(name string, cols int, err error) Frame {
	return Frame{Emotion: name, Lines: Placeholder(name, cols), Placeholder: true, Err: err}
}

// Frame returns the frame for name. Unknown names fall back to "normal",
// then to a placeholder.
func (s *Set) Frame(name string) Frame {
	if f, ok := s.frames[name]; ok {
		return f
	}
	if f, ok := s.frames["normal"]; ok {
		return f
	}
	return placeholderFrame(name, 0, fmt.Errorf("%w: %q", ErrMissingAsset, name))
}

// Names returns the emotions in load order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Placeholders returns the frames that fell back to a placeholder.
func (s *Set) Placeholders() []Frame {
	var out []Frame
	for _, name := range s.order {
		if f := s.frames[name]; f.Placeholder {
			out = append(out, f)
		}
	}
	return out
}

// Placeholder draws a box labelled with the emotion name.
func Placeholder(name string, cols int) []string {
	label := "? " + name
	width := max(len(label)+4, min(cols, 24))
	inner := width - 2
	pad := inner - len(label)
	left := pad / 2
	right := pad - left

	border := "+" + strings.Repeat("-", inner) + "+"
	blank := "|" + strings.Repeat(" ", inner) + "|"
	return []string{
		border,
		blank,
		"|" + strings.Repeat(" ", left) + label + strings.Repeat(" ", right) + "|",
		blank,
		border,
	}
}
