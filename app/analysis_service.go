package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gazecenter/adapters/gazefile"
	"gazecenter/domain/core"
	"gazecenter/domain/gaze"
	"gazecenter/internal"
	"gazecenter/internal/errors"
	"gazecenter/internal/profiling"
	"gazecenter/ports"
)

// AggregateLabel names the all-participants scope in summaries and charts
const AggregateLabel = "All participants"

// AnalysisService loads recordings and runs the resolve/classify pipeline.
// Nothing parsed is cached: every call goes back to the raw source.
type AnalysisService struct {
	source      ports.ParticipantSource
	uploads     *UploadStore
	history     ports.SummaryRepository
	publisher   ports.SummaryPublisher
	profile     gaze.DeviceProfile
	concurrency int
	uploadDir   string
	logger      *internal.Logger
	now         func() time.Time
}

// ServiceConfig tunes an AnalysisService
type ServiceConfig struct {
	Profile              gaze.DeviceProfile
	AggregateConcurrency int
	// UploadDir is where scoped upload files are written; empty means the
	// system temp dir.
	UploadDir string
}

// AnalysisRequest selects what to analyze
type AnalysisRequest struct {
	Scope         string
	ParticipantID core.ParticipantID
	// UploadID overrides ParticipantID for the individual scope
	UploadID  core.UploadID
	RadiusDeg float64
	// Quiet skips history and publishing, for chart renders
	Quiet bool
}

// Analysis is the result of one render's worth of computation
type Analysis struct {
	ID        core.AnalysisID           `json:"id"`
	Scope     string                    `json:"scope"`
	Label     string                    `json:"label"`
	Device    gaze.DeviceProfile        `json:"device"`
	Region    gaze.CenterRegion         `json:"region"`
	Summary   gaze.Summary              `json:"summary"`
	Distances profiling.DistanceProfile `json:"distances"`
	Dataset   gaze.Dataset              `json:"-"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Record converts the analysis to its history form
func (a *Analysis) Record() ports.SummaryRecord {
	return ports.SummaryRecord{
		ID:          a.ID,
		Scope:       a.Scope,
		Label:       a.Label,
		RadiusDeg:   a.Region.RadiusDeg,
		RadiusPx:    a.Region.RadiusPx,
		Total:       a.Summary.Total,
		Inside:      a.Summary.Inside,
		Outside:     a.Summary.Outside,
		InsideRatio: a.Summary.InsideRatio,
		CreatedAt:   a.CreatedAt,
	}
}

// NewAnalysisService wires the pipeline to its collaborators
func NewAnalysisService(
	source ports.ParticipantSource,
	uploads *UploadStore,
	history ports.SummaryRepository,
	publisher ports.SummaryPublisher,
	cfg ServiceConfig,
) *AnalysisService {
	if cfg.AggregateConcurrency < 1 {
		cfg.AggregateConcurrency = 1
	}
	if cfg.Profile == (gaze.DeviceProfile{}) {
		cfg.Profile = gaze.DK2()
	}
	return &AnalysisService{
		source:      source,
		uploads:     uploads,
		history:     history,
		publisher:   publisher,
		profile:     cfg.Profile,
		concurrency: cfg.AggregateConcurrency,
		uploadDir:   cfg.UploadDir,
		logger:      internal.DefaultLogger.With("AnalysisService"),
		now:         time.Now,
	}
}

// Device returns the device profile used for every analysis
func (s *AnalysisService) Device() gaze.DeviceProfile {
	return s.profile
}

// Source describes where recordings come from
func (s *AnalysisService) Source() string {
	return s.source.Describe()
}

// Participants lists the available participant IDs in aggregate order
func (s *AnalysisService) Participants(ctx context.Context) ([]core.ParticipantID, error) {
	return s.source.List(ctx)
}

// LoadParticipant reads and resolves one participant recording
func (s *AnalysisService) LoadParticipant(ctx context.Context, id core.ParticipantID) (gaze.Dataset, error) {
	rc, err := s.source.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	samples, err := gazefile.Parse(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load participant %s", id)
	}
	s.logger.Debug("loaded participant %s: %d samples", id, len(samples))
	return gaze.ResolveAll(samples, s.profile), nil
}

// StoreUpload validates a payload by parsing it once and keeps the raw bytes
func (s *AnalysisService) StoreUpload(filename string, payload []byte) (Upload, int, error) {
	samples, err := gazefile.ParseUpload(s.uploadDir, payload)
	if err != nil {
		return Upload{}, 0, errors.Wrapf(err, "rejected upload %q", filename)
	}
	up := s.uploads.Put(filename, payload)
	s.logger.Info("stored upload %s (%s, %s, %d samples)", up.ID, filename, up.Hash.Short(), len(samples))
	return up, len(samples), nil
}

// LoadUpload re-parses a stored upload
func (s *AnalysisService) LoadUpload(ctx context.Context, id core.UploadID) (gaze.Dataset, string, error) {
	up, err := s.uploads.Get(id)
	if err != nil {
		return nil, "", err
	}
	samples, err := gazefile.ParseUpload(s.uploadDir, up.Payload)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to load upload %s", id)
	}
	return gaze.ResolveAll(samples, s.profile), up.Filename, nil
}

// LoadAggregate loads every participant and concatenates them in listing
// order. Files are read in parallel but each lands in its own slot, so the
// result is always A's rows followed by B's rows and so on. Any failing file
// fails the whole aggregate.
func (s *AnalysisService) LoadAggregate(ctx context.Context) (gaze.Dataset, error) {
	ids, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}

	parts := make([]gaze.Dataset, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			d, err := s.LoadParticipant(gctx, id)
			if err != nil {
				return err
			}
			parts[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to load aggregate")
	}

	combined := gaze.Concat(parts...)
	s.logger.Debug("loaded aggregate: %d participants, %d samples", len(ids), combined.Len())
	return combined, nil
}

// Analyze loads the requested scope, classifies it and records the summary
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	radius, err := gaze.SnapRadius(req.RadiusDeg)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	var (
		dataset gaze.Dataset
		label   string
	)
	switch req.Scope {
	case ports.ScopeIndividual:
		switch {
		case !req.UploadID.IsEmpty():
			var filename string
			dataset, filename, err = s.LoadUpload(ctx, req.UploadID)
			label = "Upload " + filename
		case req.ParticipantID != "":
			dataset, err = s.LoadParticipant(ctx, req.ParticipantID)
			label = "Participant " + req.ParticipantID.String()
		default:
			return nil, errors.InvalidInput("select a participant or upload a file")
		}
	case ports.ScopeAggregate:
		dataset, err = s.LoadAggregate(ctx)
		label = AggregateLabel
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown scope %q", req.Scope))
	}
	if err != nil {
		return nil, err
	}

	region := gaze.NewCenterRegion(s.profile, radius)
	distances, err := profiling.ProfileDistances(dataset, region, s.profile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to profile %s", label)
	}
	analysis := &Analysis{
		ID:        core.AnalysisID(core.NewID()),
		Scope:     req.Scope,
		Label:     label,
		Device:    s.profile,
		Region:    region,
		Summary:   gaze.Summarize(dataset, region),
		Distances: distances,
		Dataset:   dataset,
		CreatedAt: s.now(),
	}

	if !req.Quiet {
		s.record(ctx, analysis)
	}
	return analysis, nil
}

// record keeps the summary and publishes it. Failures are logged only.
func (s *AnalysisService) record(ctx context.Context, a *Analysis) {
	rec := a.Record()
	if s.history != nil {
		if err := s.history.Save(ctx, rec); err != nil {
			s.logger.Warn("failed to save summary %s: %v", rec.ID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rec); err != nil {
			s.logger.Warn("failed to publish summary %s: %v", rec.ID, err)
		}
	}
}

// History returns recent summaries, newest first
func (s *AnalysisService) History(ctx context.Context, limit int) ([]ports.SummaryRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, limit)
}

// AnalyzeAll analyzes every participant individually plus the aggregate, for
// exports and reports. Individual failures are returned alongside the
// successful analyses.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, radiusDeg float64) ([]*Analysis, map[core.ParticipantID]error, error) {
	ids, err := s.source.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		results  []*Analysis
		failures = make(map[core.ParticipantID]error)
	)
	for _, id := range ids {
		a, err := s.Analyze(ctx, AnalysisRequest{Scope: ports.ScopeIndividual, ParticipantID: id, RadiusDeg: radiusDeg})
		if err != nil {
			failures[id] = err
			continue
		}
		results = append(results, a)
	}

	if len(failures) == 0 {
		agg, err := s.Analyze(ctx, AnalysisRequest{Scope: ports.ScopeAggregate, RadiusDeg: radiusDeg})
		if err != nil {
			return results, failures, err
		}
		results = append(results, agg)
	}
	return results, failures, nil
}
