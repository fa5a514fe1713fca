package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/ligjet/internal/parser"
	"github.com/dgallion1/ligjet/internal/segment"
)

// ErrNoSlug is returned when no slug can be derived for a document.
var ErrNoSlug = errors.New("cannot derive slug")

// Report summarizes a directory load.
type Report struct {
	Loaded    int `json:"loaded"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
	Duplicate int `json:"duplicate"`
}

// Loader parses law files and places them in a Store.
type Loader struct {
	store       *Store
	seg         segment.Config
	concurrency int
	log         *slog.Logger
}

func NewLoader(store *Store, seg segment.Config, concurrency int, log *slog.Logger) *Loader {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{store: store, seg: seg, concurrency: concurrency, log: log}
}

// Load parses r according to filename's extension and stores the result.
// Empty slug or title fall back to values derived from the file.
// The returned bool is false when identical content was already stored.
func (l *Loader) Load(r io.Reader, filename, slug, title string) (*Law, bool, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, false, err
	}

	raw, err := p.Parse(r, filename)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", filepath.Base(filename), err)
	}
	if strings.TrimSpace(title) != "" {
		raw.Title = title
	}

	if slug = Slugify(slug); slug == "" {
		slug = SlugForFile(filename)
	}
	if slug == "" {
		return nil, false, ErrNoSlug
	}

	law := Build(slug, raw, l.seg)
	law.Source = filepath.Base(filename)
	if !l.store.Put(law) {
		return l.store.Get(slug), false, nil
	}
	return law, true, nil
}

// LoadFile loads a single file from disk.
func (l *Loader) LoadFile(path string) (*Law, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	return l.Load(f, path, "", "")
}

// LoadDir loads every supported file under dir. Files that fail are
// logged and counted; only a missing directory or cancellation is an error.
// When two files map to the same slug the first in walk order wins.
func (l *Loader) LoadDir(ctx context.Context, dir string) (Report, error) {
	var (
		paths []string
		rep   Report
	)
	owners := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !parser.IsSupportedExtension(path) {
			return nil
		}
		if slug := SlugForFile(path); slug != "" {
			if first, ok := owners[slug]; ok {
				l.log.Warn("skipping law file with duplicate slug", "file", path, "slug", slug, "kept", first)
				rep.Duplicate++
				return nil
			}
			owners[slug] = path
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("scan %s: %w", dir, err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := l.log.With("file", path)

			law, changed, err := l.LoadFile(path)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				log.Warn("skipping law file", "error", err)
				rep.Failed++
			case !changed:
				rep.Unchanged++
			default:
				log.Info("loaded law", "slug", law.Slug, "paragraphs", len(law.Paragraphs), "articles", len(law.Articles))
				rep.Loaded++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rep, err
	}
	return rep, nil
}
