package estimate

import (
	"context"
	"fmt"
	"math"

	"studioscan/internal/complexity"
	"studioscan/internal/config"
	scanerrors "studioscan/internal/errors"
	"studioscan/internal/featuremap"
	"studioscan/internal/logging"
)

// ComponentEstimate is the full estimation record for one component:
// the classified analysis result plus the derived hours.
type ComponentEstimate struct {
	Component featuremap.Component `json:"component"`
	Label     string               `json:"label"`

	// Baseline is the unscaled breakdown from the time table.
	Baseline Breakdown `json:"baseline"`
	// Multiplier is the band multiplier the baseline was scaled by.
	Multiplier float64 `json:"multiplier"`
	// Scaled is the baseline with each phase scaled and rounded to a
	// tenth of an hour individually.
	Scaled Breakdown `json:"scaled"`
	// Hours is the total of the scaled phases.
	Hours float64 `json:"hours"`

	Analysis *complexity.Result `json:"analysis"`
}

// StoryEstimate aggregates the component estimates of one user story.
type StoryEstimate struct {
	Story      featuremap.UserStory `json:"story"`
	Components []ComponentEstimate  `json:"components"`
	TotalHours float64              `json:"totalHours"`
}

// FeatureEstimate aggregates the story estimates of one feature.
type FeatureEstimate struct {
	Feature    featuremap.Feature `json:"feature"`
	Stories    []StoryEstimate    `json:"stories"`
	TotalHours float64            `json:"totalHours"`
}

// ComponentCount returns the number of components across all stories.
func (fe FeatureEstimate) ComponentCount() int {
	n := 0
	for _, se := range fe.Stories {
		n += len(se.Components)
	}
	return n
}

// Report is the outcome of estimating a whole feature map.
type Report struct {
	Features       []FeatureEstimate `json:"features"`
	ComponentCount int               `json:"componentCount"`
	TotalHours     float64           `json:"totalHours"`
}

// Estimator runs the analyze-classify-lookup-scale pipeline over
// components. Any failure in the pipeline is fatal for the whole run;
// a report never contains partially estimated components.
type Estimator struct {
	cfg         *config.Config
	table       Table
	analyzer    *complexity.Analyzer
	projectRoot string
	log         *logging.Logger
}

// New creates an estimator. projectRoot anchors relative
// source_location values from the feature map.
func New(cfg *config.Config, table Table, analyzer *complexity.Analyzer, projectRoot string, log *logging.Logger) *Estimator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Estimator{
		cfg:         cfg,
		table:       table,
		analyzer:    analyzer,
		projectRoot: projectRoot,
		log:         log,
	}
}

// EstimateComponent analyzes one component's sources and derives its
// hours. A component without a resolvable source_location is fatal: an
// unanalyzed component silently dropped from the totals would understate
// the whole estimate.
func (e *Estimator) EstimateComponent(ctx context.Context, comp featuremap.Component) (*ComponentEstimate, error) {
	if comp.SourceLocation == "" {
		return nil, scanerrors.NewScanError(
			scanerrors.SourceMissing,
			fmt.Sprintf("component %s has no source_location", comp.Ref),
			nil,
		)
	}

	paths := complexity.ResolveSourceLocation(comp.SourceLocation, e.projectRoot)
	if len(paths) == 0 {
		return nil, scanerrors.NewScanError(
			scanerrors.SourceMissing,
			fmt.Sprintf("source_location %q of component %s resolved to no files", comp.SourceLocation, comp.Ref),
			nil,
		)
	}

	// Field components are analyzed as just the field definition, not the
	// whole model file it lives in.
	fieldName := ""
	if comp.Type == "field" {
		fieldName = comp.Name
	}

	result, err := e.analyzer.AnalyzeFiles(ctx, paths, comp.Type, fieldName)
	if err != nil {
		return nil, err
	}

	baseline, err := e.table.Hours(comp.Type, result.Label)
	if err != nil {
		return nil, err
	}

	// Each phase is scaled and rounded on its own so the per-phase
	// figures in reports add up exactly to the component total.
	multiplier := e.cfg.Multipliers.For(result.Label)
	scaled := Breakdown{
		Development:  roundTenth(baseline.Development * multiplier),
		Requirements: roundTenth(baseline.Requirements * multiplier),
		Testing:      roundTenth(baseline.Testing * multiplier),
	}
	hours := roundTenth(scaled.Total())

	if e.log != nil {
		e.log.Debug("estimated component", map[string]interface{}{
			"ref":   comp.Ref,
			"label": result.Label,
			"hours": hours,
			"files": len(result.SourceFiles),
		})
	}

	return &ComponentEstimate{
		Component:  comp,
		Label:      result.Label,
		Baseline:   baseline,
		Multiplier: multiplier,
		Scaled:     scaled,
		Hours:      hours,
		Analysis:   result,
	}, nil
}

// EstimateStory estimates every component of a user story and sums the
// hours.
func (e *Estimator) EstimateStory(ctx context.Context, story featuremap.UserStory) (*StoryEstimate, error) {
	se := &StoryEstimate{Story: story}

	for _, comp := range story.Components {
		ce, err := e.EstimateComponent(ctx, comp)
		if err != nil {
			return nil, fmt.Errorf("story %s: %w", story.Name, err)
		}
		se.Components = append(se.Components, *ce)
	}

	total := 0.0
	for _, ce := range se.Components {
		total += ce.Hours
	}
	se.TotalHours = roundTenth(total)

	return se, nil
}

// EstimateFeature estimates every user story of a feature, story by
// story, and sums the story totals.
func (e *Estimator) EstimateFeature(ctx context.Context, feature featuremap.Feature) (*FeatureEstimate, error) {
	fe := &FeatureEstimate{Feature: feature}

	total := 0.0
	for _, story := range feature.UserStories {
		se, err := e.EstimateStory(ctx, story)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", feature.Name, err)
		}
		fe.Stories = append(fe.Stories, *se)
		total += se.TotalHours
	}
	fe.TotalHours = roundTenth(total)

	return fe, nil
}

// EstimateAll estimates a complete feature map into a report.
func (e *Estimator) EstimateAll(ctx context.Context, features []featuremap.Feature) (*Report, error) {
	report := &Report{}

	for _, feature := range features {
		fe, err := e.EstimateFeature(ctx, feature)
		if err != nil {
			return nil, err
		}
		report.Features = append(report.Features, *fe)
		report.ComponentCount += fe.ComponentCount()
		report.TotalHours = roundTenth(report.TotalHours + fe.TotalHours)
	}

	if e.log != nil {
		e.log.Info("estimation complete", map[string]interface{}{
			"features":   len(report.Features),
			"components": report.ComponentCount,
			"totalHours": report.TotalHours,
		})
	}

	return report, nil
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
