package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"careerai/internal/classifier"
	"careerai/internal/domain"
	"careerai/internal/repository"
	"careerai/internal/session"
	"careerai/internal/storage"
	"careerai/internal/voice"
)

const archiveURLTTL = 15 * time.Minute

var tracer = otel.Tracer("careerai/internal/service")

// Predictor is the trained career model.
type Predictor interface {
	Predict(scores domain.Scores) classifier.Prediction
	Examples() []classifier.Example
}

// Announcer speaks a line on a best-effort basis.
type Announcer interface {
	Announce(text string) voice.Announcement
}

// Analysis is everything the client renders after "Analyze".
type Analysis struct {
	Record            domain.AssessmentRecord
	Confidence        float64
	ConfidencePercent float64
	Probabilities     map[string]float64
	Advice            []Advice
	Radar             []RadarPoint
	Benchmark         []BenchmarkPoint
	Announcement      voice.Outcome
	// AnnouncementClip names the audio clip when the announcement was queued.
	AnnouncementClip string
}

// ArchivedReport is a report copy kept in object storage.
type ArchivedReport struct {
	Key          string
	Location     string
	URL          string
	Size         int64
	LastModified *time.Time
}

// AssessmentService runs the skill analysis flow and serves the history.
type AssessmentService interface {
	Analyze(ctx context.Context, sess *session.Session, scores domain.Scores) (*Analysis, error)
	History(ctx context.Context, sess *session.Session) ([]domain.AssessmentRecord, error)
	Export(ctx context.Context, sess *session.Session) (*Report, error)
	Archive(ctx context.Context, sess *session.Session) (*ArchivedReport, error)
	ListArchives(ctx context.Context, sess *session.Session) ([]ArchivedReport, error)
	MarketTrends() []RoleProfile
}

type AssessmentConfig struct {
	// Archive is optional; nil disables report archiving.
	Archive       storage.Service
	ArchivePrefix string
	Clock         func() time.Time
}

type assessmentService struct {
	records   repository.AssessmentRepository
	model     Predictor
	announcer Announcer
	cfg       AssessmentConfig
}

func NewAssessmentService(records repository.AssessmentRepository, model Predictor, announcer Announcer, cfg AssessmentConfig) AssessmentService {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &assessmentService{
		records:   records,
		model:     model,
		announcer: announcer,
		cfg:       cfg,
	}
}

func (s *assessmentService) Analyze(ctx context.Context, sess *session.Session, scores domain.Scores) (*Analysis, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "assessment.analyze")
	defer span.End()

	pred := s.model.Predict(scores)
	span.SetAttributes(
		attribute.String("career", pred.Label),
		attribute.Float64("confidence", pred.Confidence),
	)

	record := domain.AssessmentRecord{
		Username:        sess.Username,
		PredictedCareer: pred.Label,
		Scores:          scores,
		Timestamp:       s.cfg.Clock().UTC().Truncate(time.Microsecond),
	}
	if err := s.records.Append(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append assessment")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	analysis := &Analysis{
		Record:            record,
		Confidence:        pred.Confidence,
		ConfidencePercent: math.Round(pred.Confidence*10000) / 100,
		Probabilities:     pred.Probabilities,
		Advice:            Recommend(scores),
		Radar:             Radar(scores),
		Benchmark:         Benchmark(scores),
		Announcement:      voice.OutcomeDisabled,
	}
	if s.announcer != nil {
		a := s.announcer.Announce("Recommended career is " + pred.Label)
		analysis.Announcement = a.Outcome
		analysis.AnnouncementClip = a.ClipID
	}
	return analysis, nil
}

func (s *assessmentService) History(ctx context.Context, sess *session.Session) ([]domain.AssessmentRecord, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	records, err := s.records.ListByUser(ctx, sess.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return records, nil
}

func (s *assessmentService) Export(ctx context.Context, sess *session.Session) (*Report, error) {
	records, err := s.History(ctx, sess)
	if err != nil {
		return nil, err
	}
	data, err := EncodeReport(records)
	if err != nil {
		return nil, err
	}
	return &Report{
		FileName:    ReportFileName(sess.Username),
		ContentType: ReportContentType,
		Data:        data,
	}, nil
}

func (s *assessmentService) Archive(ctx context.Context, sess *session.Session) (*ArchivedReport, error) {
	if s.cfg.Archive == nil {
		return nil, ErrArchiveDisabled
	}
	report, err := s.Export(ctx, sess)
	if err != nil {
		return nil, err
	}

	key := storage.ReportKey(s.cfg.ArchivePrefix, sess.Username, report.FileName)
	location, err := s.cfg.Archive.Put(ctx, key, bytes.NewReader(report.Data), report.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	url, err := s.cfg.Archive.GetObjectURL(ctx, key, archiveURLTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &ArchivedReport{
		Key:      key,
		Location: location,
		URL:      url,
		Size:     int64(len(report.Data)),
	}, nil
}

func (s *assessmentService) ListArchives(ctx context.Context, sess *session.Session) ([]ArchivedReport, error) {
	if s.cfg.Archive == nil {
		return nil, ErrArchiveDisabled
	}
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	objects, err := s.cfg.Archive.ListObjects(ctx, storage.ReportPrefix(s.cfg.ArchivePrefix, sess.Username))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	out := make([]ArchivedReport, 0, len(objects))
	for _, obj := range objects {
		url, err := s.cfg.Archive.GetObjectURL(ctx, obj.Key, archiveURLTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		out = append(out, ArchivedReport{
			Key:          obj.Key,
			URL:          url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}

func (s *assessmentService) MarketTrends() []RoleProfile {
	return roleProfiles(s.model.Examples())
}
