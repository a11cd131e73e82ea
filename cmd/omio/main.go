//nolint:forbidigo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff"

	"go.senan.xyz/omio"
	"go.senan.xyz/omio/opus"
	"go.senan.xyz/omio/picture"
	"go.senan.xyz/omio/scanner"
	"go.senan.xyz/omio/tags"
	"go.senan.xyz/omio/tags/oggopus"
)

func main() {
	set := flag.NewFlagSet(omio.Name, flag.ExitOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "usage: %s [flags] <path>...\n", omio.Name)
		set.PrintDefaults()
	}

	confDuration := set.Bool("duration", true, "scan the whole stream to work out the duration (optional)")
	confHeaderSizeLimit := set.Int64("header-size-limit", opus.DefaultHeaderSizeLimit, "max bytes of comment strings to read, 0 for no limit (optional)")
	confJSON := set.Bool("json", false, "print one json object per file (optional)")
	confJobs := set.Int("jobs", runtime.NumCPU(), "number of files to read at once (optional)")
	confExcludePattern := set.String("exclude-pattern", "", "regex pattern to exclude files from scan (optional)")

	confCoverDir := set.String("cover-dir", "", "path to write embedded covers to (optional)")
	confCoverSize := set.Int("cover-size", picture.CoverDefaultSize, "scale covers down to this size, 0 to keep the original image (optional)")

	confWatch := set.Bool("watch", false, "after the first scan, watch the paths and print new or changed files (optional)")

	confShowVersion := set.Bool("version", false, "show omio version")
	_ = set.String("config-path", "", "path to config (optional)")

	if err := ff.Parse(set, os.Args[1:],
		ff.WithConfigFileFlag("config-path"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(omio.NameUpper),
	); err != nil {
		log.Fatalf("error parsing args: %v\n", err)
	}

	if *confShowVersion {
		fmt.Printf("v%s\n", omio.Version)
		os.Exit(0)
	}

	paths := set.Args()
	if len(paths) == 0 {
		set.Usage()
		os.Exit(2)
	}
	for i, p := range paths {
		var err error
		if paths[i], err = validatePath(p); err != nil {
			log.Fatalf("checking path %q: %v", p, err)
		}
	}

	var excludePattern *regexp.Regexp
	if *confExcludePattern != "" {
		var err error
		if excludePattern, err = regexp.Compile(*confExcludePattern); err != nil {
			log.Fatalf("invalid exclude pattern: %v\n", err)
		}
	}

	if *confCoverDir != "" {
		if err := os.MkdirAll(*confCoverDir, os.ModePerm); err != nil {
			log.Fatalf("couldn't create cover dir: %v\n", err)
		}
	}

	opts := opus.DefaultOptions()
	opts.ReadDuration = *confDuration
	opts.HeaderSizeLimit = *confHeaderSizeLimit

	printer := &printer{
		out:       os.Stdout,
		json:      *confJSON,
		coverDir:  *confCoverDir,
		coverSize: *confCoverSize,
	}
	scannr := scanner.New(tags.ChainReader{oggopus.New(opts)}, excludePattern, *confJobs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := scannr.Scan(ctx, paths, printer.print)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("error scanning: %v", err)
	}
	if st != nil && st.Errors.Len() > 0 {
		log.Printf("errors while scanning:%v", st.Errors)
	}

	if *confWatch && ctx.Err() == nil {
		log.Printf("watching %s for changes", strings.Join(paths, ", "))
		if err := scannr.ExecuteWatch(ctx, paths, printer.print); err != nil {
			log.Fatalf("error watching: %v", err)
		}
		return
	}

	if st != nil && st.Errors.Len() > 0 {
		os.Exit(1)
	}
}

func validatePath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path can't be empty")
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return "", errors.New("path does not exist, please provide one")
	}
	p, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("make absolute: %w", err)
	}
	return p, nil
}
