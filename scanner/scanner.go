package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/karrick/godirwalk"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/omio/fileutil"
	"go.senan.xyz/omio/multierr"
	"go.senan.xyz/omio/tags"
)

var (
	ErrAlreadyScanning = errors.New("already scanning")
	ErrReadingTags     = errors.New("could not read tags")
	ErrWalking         = errors.New("could not walk path")
)

func durSince(t time.Time) time.Duration {
	return time.Since(t).Truncate(10 * time.Microsecond)
}

type Scanner struct {
	reader         tags.Reader
	excludePattern *regexp.Regexp
	jobs           int

	// scanning acts as a semaphore, we don't want more than one scan going
	// on at a time
	scanning atomic.Bool
}

// New returns a Scanner that reads files with reader, at most jobs at a time.
// A nil excludePattern excludes nothing.
func New(reader tags.Reader, excludePattern *regexp.Regexp, jobs int) *Scanner {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Scanner{
		reader:         reader,
		excludePattern: excludePattern,
		jobs:           jobs,
	}
}

func (s *Scanner) IsScanning() bool { return s.scanning.Load() }

// Track is one file that was read successfully.
type Track struct {
	Path string
	Info tags.Info
}

// State is the outcome of a scan. Files that could not be walked or read are
// collected in Errors and do not stop the scan.
type State struct {
	SeenFiles int
	Read      int
	Errors    multierr.Err
}

// Scan reads every supported file under paths and calls fn for each one in
// path order. Paths inside of other paths are only scanned once. An error from
// fn stops the scan.
func (s *Scanner) Scan(ctx context.Context, paths []string, fn func(Track) error) (*State, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrAlreadyScanning
	}
	defer s.scanning.Store(false)

	start := time.Now()
	log.Printf("starting scan of %d path(s)", len(paths))

	st := &State{}
	var files []string
	for _, p := range fileutil.Roots(paths) {
		found, errs := s.walk(p)
		for _, err := range errs {
			st.Errors.Add(fmt.Errorf("%w %q: %w", ErrWalking, p, err))
		}
		files = append(files, found...)
	}
	st.SeenFiles = len(files)

	if err := s.read(ctx, st, files, fn); err != nil {
		return st, err
	}

	log.Printf("finished scan in %s, %d/%d read, %d error(s)", durSince(start), st.Read, st.SeenFiles, st.Errors.Len())
	return st, nil
}

func (s *Scanner) read(ctx context.Context, st *State, files []string, fn func(Track) error) error {
	infos := make([]tags.Info, len(files))

	var mu sync.Mutex
	// gctx is cancelled once Wait returns, only the caller's ctx is checked
	// after that
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := s.reader.Read(path)
			if err != nil {
				mu.Lock()
				st.Errors.Add(fmt.Errorf("%w %q: %w", ErrReadingTags, path, err))
				mu.Unlock()
				return nil
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, info := range infos {
		if info == nil {
			continue
		}
		st.Read++
		if err := fn(Track{Path: files[i], Info: info}); err != nil {
			return err
		}
	}
	return nil
}

// walk returns the readable files under root in lexical order. root may
// itself be a file. Entries that can't be read are reported and skipped.
func (s *Scanner) walk(root string) ([]string, []error) {
	stat, err := os.Stat(root)
	if err != nil {
		return nil, []error{err}
	}
	if !stat.IsDir() {
		if s.excluded(root) || !s.reader.CanRead(root) {
			return nil, nil
		}
		return []string{root}, nil
	}

	var files []string
	var errs []error
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && isHidden(de.Name()) {
				return godirwalk.SkipThis
			}
			if s.excluded(path) {
				return godirwalk.SkipThis
			}
			if de.IsDir() || !s.reader.CanRead(path) {
				return nil
			}
			files = append(files, path)
			return nil
		},
		FollowSymbolicLinks: true,
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			errs = append(errs, fmt.Errorf("%q: %w", path, err))
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		errs = append(errs, err)
	}
	return files, errs
}

func (s *Scanner) excluded(path string) bool {
	return s.excludePattern != nil && s.excludePattern.MatchString(path)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
