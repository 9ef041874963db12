package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tagmill/tagmill/internal/pool"
	"github.com/tagmill/tagmill/internal/progress"
)

var (
	processOut     string
	processWorkers int
	processNoBar   bool
)

var processCmd = &cobra.Command{
	Use:   "process [file...]",
	Short: "Rewrite HTML documents on disk",
	Long: `Rewrites the given documents. Arguments are file names or glob
patterns; matched files are rewritten in place unless -o names an
output directory. In-place files that come out unchanged are left
untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		files, err := expandArgs(args)
		if err != nil {
			return err
		}

		var bar *progress.Bar
		if !processNoBar {
			bar = progress.New(os.Stderr, len(files), "rewriting")
		}

		jobs := pool.New(cmd.Context(), processWorkers)
		for _, file := range files {
			jobs.Add(file, func(ctx context.Context) error {
				defer bar.Add(1)
				return p.processFile(ctx, file)
			})
		}
		failed := jobs.Wait()
		bar.Finish()

		for _, f := range failed {
			p.log.Errorf("Failed to process %v: %v", f.Name, f.Err)
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d documents failed", len(failed), len(files))
		}
		p.log.Infof("Rewrote %d documents.", len(files))
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOut, "output", "o", "",
		"Directory to write rewritten documents to (default: rewrite in place)")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "j", runtime.GOMAXPROCS(0),
		"Number of documents to rewrite concurrently")
	processCmd.Flags().BoolVar(&processNoBar, "no-progress", false, "Disable the progress bar")
	RootCommand.AddCommand(processCmd)
}

// expandArgs resolves shell-style glob arguments. Plain file names pass
// through unchecked so a missing file fails in the worker with a
// per-file error.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %v", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

func (p *pipeline) processFile(ctx context.Context, name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := p.rewriter.Document(ctx, &buf, bytes.NewReader(src)); err != nil {
		return err
	}

	dst := name
	if processOut != "" {
		rel := filepath.Clean(name)
		if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(rel)
		}
		dst = filepath.Join(processOut, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
	} else if bytes.Equal(src, buf.Bytes()) {
		// Nothing changed, leave the file untouched.
		return nil
	}

	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), info.Mode().Perm())
}
