package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/KhanhD1nh/compare-gcn/constants"
	"github.com/KhanhD1nh/compare-gcn/internal/cache"
	"github.com/KhanhD1nh/compare-gcn/internal/common"
	"github.com/KhanhD1nh/compare-gcn/internal/gcn"
	"github.com/KhanhD1nh/compare-gcn/internal/pdf"
)

// maxErrorDetail bounds diagnostic text carried on results and cache rows.
const maxErrorDetail = 100

// PageRenderer renders the identifier page of a document to a PNG image.
// pdf.ErrNoPage and pdf.ErrUnreadable are skip conditions, anything else is
// a processing error.
type PageRenderer interface {
	RenderPage(ctx context.Context, path string) ([]byte, error)
}

// Recognizer reads text off a rendered page image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePNG []byte) (string, error)
}

// ResultCache is the subset of the cache store the processor needs.
type ResultCache interface {
	Lookup(ctx context.Context, fingerprint string) (*cache.Record, error)
	Upsert(ctx context.Context, rec cache.Record) error
}

// Processor runs the per-file pipeline: cache check, filename validation,
// page render, recognition, normalization, comparison, cache write-back.
type Processor struct {
	logger     *slog.Logger
	renderer   PageRenderer
	recognizer Recognizer
	cache      ResultCache // nil disables persistence entirely
}

func NewProcessor(logger *slog.Logger, renderer PageRenderer, recognizer Recognizer, store ResultCache) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		renderer:   renderer,
		recognizer: recognizer,
		cache:      store,
	}
}

// Process runs one task to a terminal state. It never returns an error:
// every fault is folded into the Result so a single bad file cannot take
// down a batch. useCache controls the cache short-circuit; write-back still
// happens whenever a store is configured.
func (p *Processor) Process(ctx context.Context, task FileTask, useCache bool) Result {
	start := time.Now()
	name := filepath.Base(task.Path)

	res := Result{
		SequenceIndex: task.SequenceIndex,
		FileName:      name,
		FilePath:      task.Path,
		Verdict:       constants.VerdictNA,
	}

	fingerprint := ""
	if p.cache != nil {
		fingerprint = cache.Fingerprint(task.Path)
	}

	if useCache && p.cache != nil {
		rec, err := p.cache.Lookup(ctx, fingerprint)
		if err != nil {
			// Cache trouble is never fatal; fall through and reprocess.
			p.logger.Warn("cache lookup failed, treating as uncached",
				"file", name, "error", err)
		} else if rec != nil {
			return cachedResult(task, rec)
		}
	}

	p.run(ctx, task, &res)
	res.ElapsedSeconds = time.Since(start).Seconds()

	if p.cache != nil {
		p.persist(ctx, fingerprint, res)
	}
	return res
}

// run advances the state machine for a non-cached task, filling res in
// place. Terminal statuses: skip, error, success.
func (p *Processor) run(ctx context.Context, task FileTask, res *Result) {
	// Filename validation
	ok, reason := gcn.ValidateFilename(res.FileName)
	if !ok {
		res.Status = constants.StatusSkip
		res.ErrorDetail = "Sai tên file: " + reason
		return
	}

	res.FilenameID = gcn.ExtractFromFilename(res.FileName)

	// Page image extraction
	img, err := p.renderer.RenderPage(ctx, task.Path)
	if err != nil {
		switch {
		case errors.Is(err, pdf.ErrNoPage):
			res.Status = constants.StatusSkip
			res.ErrorDetail = "No page 2"
		case errors.Is(err, pdf.ErrUnreadable):
			res.Status = constants.StatusSkip
			res.ErrorDetail = common.Truncate(err.Error(), maxErrorDetail)
		default:
			res.Status = constants.StatusError
			res.ErrorDetail = common.Truncate(err.Error(), maxErrorDetail)
		}
		return
	}

	// Recognition
	var recognitionErr string
	raw, err := p.recognizer.Recognize(ctx, img)
	if err != nil {
		res.RecognizedID = constants.IdentifierError
		recognitionErr = common.Truncate(err.Error(), maxErrorDetail)
	} else {
		res.RecognizedID = gcn.Normalize(raw)
	}

	// Comparison, gated on both sides holding a real identifier.
	if res.RecognizedID != constants.IdentifierError && res.FilenameID != constants.IdentifierUnknown {
		res.Verdict = gcn.Compare(res.FilenameID, res.RecognizedID)
		res.Status = constants.StatusSuccess
		return
	}

	res.Status = constants.StatusError
	switch {
	case res.RecognizedID == constants.IdentifierError && res.FilenameID == constants.IdentifierUnknown:
		res.ErrorDetail = fmt.Sprintf("Both LLM and filename failed. LLM: %s", recognitionErr)
	case res.RecognizedID == constants.IdentifierError:
		res.ErrorDetail = fmt.Sprintf("LLM extraction failed: %s. Filename GCN: %s", recognitionErr, res.FilenameID)
	default:
		res.ErrorDetail = fmt.Sprintf("Cannot parse GCN from filename. LLM predicted: %s", res.RecognizedID)
	}
}

// cachedResult converts a stored record into a Result, verbatim. Cache hits
// cost no re-processing, so elapsed time is reported as zero.
func cachedResult(task FileTask, rec *cache.Record) Result {
	return Result{
		SequenceIndex:  task.SequenceIndex,
		FileName:       rec.FileName,
		FilePath:       rec.FilePath,
		FilenameID:     rec.FilenameID,
		RecognizedID:   rec.RecognizedID,
		Verdict:        rec.Verdict,
		Status:         constants.StatusCached,
		ErrorDetail:    rec.ErrorDetail,
		ElapsedSeconds: 0,
		FromCache:      true,
		ProcessedAt:    rec.ProcessedAt,
	}
}

// persist writes a terminal result back to the cache. Cached results are
// already authoritative and are never re-written.
func (p *Processor) persist(ctx context.Context, fingerprint string, res Result) {
	if res.Status == constants.StatusCached {
		return
	}
	rec := cache.Record{
		Fingerprint:  fingerprint,
		FilePath:     res.FilePath,
		FileName:     res.FileName,
		ProcessedAt:  time.Now().UTC(),
		Status:       res.Status,
		Verdict:      res.Verdict,
		FilenameID:   res.FilenameID,
		RecognizedID: res.RecognizedID,
		ErrorDetail:  res.ErrorDetail,
	}
	if err := p.cache.Upsert(ctx, rec); err != nil {
		p.logger.Warn("cache write failed", "file", res.FileName, "error", err)
	}
}
