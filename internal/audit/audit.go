// Package audit walks every module's default scenario through the client and
// reports content the walk could not present: failed fetches, unknown step
// types and empty scenarios.
package audit

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"servertrain/internal/client"
	"servertrain/internal/logging"
	"servertrain/internal/scenario"

	"golang.org/x/sync/errgroup"
)

// Fetcher is the part of *client.Client the audit needs.
type Fetcher interface {
	ListModules(ctx context.Context) ([]scenario.Module, error)
	GetScenario(ctx context.Context, moduleID, scenarioID string) (*scenario.Envelope, error)
}

// FindingKind classifies a finding.
type FindingKind string

const (
	FindingFetch       FindingKind = "fetch"
	FindingUnknownStep FindingKind = "unknown_step"
	FindingEmpty       FindingKind = "empty"
)

// Finding is one problem found in a module.
type Finding struct {
	Kind FindingKind
	// Step is the step index for FindingUnknownStep, -1 otherwise.
	Step    int
	Message string
}

// ModuleReport is the audit result for one module.
type ModuleReport struct {
	Module   scenario.Module
	Steps    int
	Findings []Finding
}

// OK reports whether the module has no findings.
func (m ModuleReport) OK() bool {
	return len(m.Findings) == 0
}

// Report is the result of a full audit, in catalog order.
type Report struct {
	Modules  []ModuleReport
	Duration time.Duration
}

// HasFindings reports whether any module has a finding.
func (r *Report) HasFindings() bool {
	for _, m := range r.Modules {
		if !m.OK() {
			return true
		}
	}
	return false
}

// Counts returns totals keyed by finding kind.
func (r *Report) Counts() map[FindingKind]int {
	counts := make(map[FindingKind]int)
	for _, m := range r.Modules {
		for _, f := range m.Findings {
			counts[f.Kind]++
		}
	}
	return counts
}

// Run fetches the catalog, then each module's default scenario with at most
// concurrency requests in flight. A failed catalog fetch is returned as an
// error; per-module failures become findings.
func Run(ctx context.Context, f Fetcher, concurrency int) (*Report, error) {
	start := time.Now()
	if concurrency < 1 {
		concurrency = 1
	}

	modules, err := f.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	logging.Audit("auditing %d modules (concurrency %d)", len(modules), concurrency)

	report := &Report{Modules: make([]ModuleReport, len(modules))}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	var mu sync.Mutex
	for i, m := range modules {
		eg.Go(func() error {
			mr := auditModule(egCtx, f, m)
			mu.Lock()
			report.Modules[i] = mr
			mu.Unlock()
			return egCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	logging.Audit("audit finished in %v: %v", report.Duration, report.Counts())
	return report, nil
}

func auditModule(ctx context.Context, f Fetcher, m scenario.Module) ModuleReport {
	mr := ModuleReport{Module: m}

	env, err := f.GetScenario(ctx, m.ID, m.DefaultScenarioID)
	if err != nil {
		mr.Findings = append(mr.Findings, Finding{Kind: FindingFetch, Step: -1, Message: describeFetchError(err)})
		return mr
	}

	mr.Steps = env.Scenario.Len()
	if mr.Steps == 0 {
		mr.Findings = append(mr.Findings, Finding{Kind: FindingEmpty, Step: -1, Message: "scenario has no steps"})
	}
	for i, st := range env.Scenario.Steps {
		if u, ok := st.(scenario.UnknownStep); ok {
			mr.Findings = append(mr.Findings, Finding{
				Kind:    FindingUnknownStep,
				Step:    i,
				Message: fmt.Sprintf("unknown step type %q", u.Tag),
			})
		}
	}
	return mr
}

func describeFetchError(err error) string {
	fe, ok := client.AsFetchError(err)
	if !ok {
		return err.Error()
	}
	switch fe.Kind {
	case client.KindStatus:
		return fmt.Sprintf("HTTP %d from %s", fe.Status, fe.Endpoint)
	default:
		return fmt.Sprintf("%s error: %v", fe.Kind, fe.Err)
	}
}

// WriteText prints the report in a plain, line-oriented format.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, m := range r.Modules {
		status := "ok"
		if !m.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%-4s %s/%s (%d steps)\n", status, m.Module.ID, m.Module.DefaultScenarioID, m.Steps)
		for _, f := range m.Findings {
			if f.Step >= 0 {
				fmt.Fprintf(&b, "     step %d: %s\n", f.Step, f.Message)
			} else {
				fmt.Fprintf(&b, "     %s\n", f.Message)
			}
		}
	}

	counts := r.Counts()
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[FindingKind(k)]))
	}
	summary := "no findings"
	if len(parts) > 0 {
		summary = strings.Join(parts, " ")
	}
	fmt.Fprintf(&b, "%d modules checked, %s\n", len(r.Modules), summary)

	_, err := io.WriteString(w, b.String())
	return err
}
