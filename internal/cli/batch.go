package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karvelis/attestor/internal/ledger"
	"github.com/karvelis/attestor/internal/model"
	"github.com/karvelis/attestor/internal/pipeline"
	"github.com/karvelis/attestor/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchWorkers int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze a directory of cases in parallel",
	Long: `Batch analyzes a directory of evidence. Each subdirectory is treated as a
separate case (all files in it analyzed together, enabling cross-document
detection); loose files at the top level each become a single-file case.

Every case gets its own custody ledger and its own report pair under the
output directory.

Example:
  attestor batch ./cases --output-dir ./reports --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "reports", "directory for per-case reports and ledgers")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent analysis workers (default: from config)")
}

// batchCase is one unit of batch work: a named case plus its evidence paths.
type batchCase struct {
	name  string
	paths []string
}

// batchJob analyzes one case through a fresh pipeline and writes its outputs.
type batchJob struct {
	bc     batchCase
	cfg    *model.Config
	outDir string
}

// batchResult reports the outcome of one case.
type batchResult struct {
	name    string
	report  *model.Report
	err     error
	jsonOut string
}

func (r batchResult) GetError() error { return r.err }

func (j batchJob) Execute(ctx context.Context) worker.Result {
	res := batchResult{name: j.bc.name}

	var files []pipeline.EvidenceFile
	for _, path := range j.bc.paths {
		f, err := pipeline.LoadFile(path, "", "")
		if err != nil {
			res.err = fmt.Errorf("load %s: %w", path, err)
			return res
		}
		files = append(files, f)
	}

	led := ledger.New(j.bc.name)
	p := pipeline.New(j.cfg, led)

	report, err := p.Analyze(ctx, files)
	if err != nil {
		res.err = fmt.Errorf("analyze %s: %w", j.bc.name, err)
		return res
	}
	res.report = report

	jsonPath := filepath.Join(j.outDir, j.bc.name+".json")
	mdPath := filepath.Join(j.outDir, j.bc.name+".md")
	if err := p.RenderReport(report, jsonPath, mdPath, false); err != nil {
		res.err = err
		return res
	}
	res.jsonOut = jsonPath

	ledgerPath := filepath.Join(j.outDir, j.bc.name+".ledger.json")
	if err := exportLedger(led, ledgerPath, j.cfg); err != nil {
		res.err = err
	}
	return res
}

func runBatch(cmd *cobra.Command, args []string) error {
	root := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	workers := cfg.Concurrency.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	cases, err := discoverCases(root)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no evidence files found under %s", root)
	}

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Printf("Analyzing %d case(s) with %d worker(s)\n", len(cases), workers)

	pool := worker.NewPool(workers)
	pool.Start()
	for _, bc := range cases {
		pool.Submit(batchJob{bc: bc, cfg: cfg, outDir: batchOutDir})
	}
	results := pool.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].(batchResult).name < results[j].(batchResult).name
	})

	failed := 0
	for _, r := range results {
		br := r.(batchResult)
		if br.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", br.name, br.err)
			continue
		}
		fmt.Printf("✓ %s: %d contradictions, %d entities → %s\n",
			br.name, len(br.report.Contradictions), len(br.report.Entities), br.jsonOut)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d case(s) failed", failed, len(results))
	}
	return nil
}

// discoverCases maps a directory to batch cases: one case per subdirectory,
// one case per loose top-level file. Hidden entries are skipped.
func discoverCases(root string) ([]batchCase, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	var cases []batchCase
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		full := filepath.Join(root, e.Name())
		if e.IsDir() {
			paths, err := evidencePaths(full)
			if err != nil {
				return nil, err
			}
			if len(paths) > 0 {
				cases = append(cases, batchCase{name: e.Name(), paths: paths})
			}
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		cases = append(cases, batchCase{name: name, paths: []string{full}})
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].name < cases[j].name })
	return cases, nil
}

func evidencePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
