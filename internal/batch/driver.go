// Package batch runs the comic OCR pipeline over files and directories.
//
// For every page the Driver loads the image, plans its regions of interest,
// recognizes each region in order, filters the observations, assembles the
// text and writes it next to the image as <name>.txt. Failures are confined
// to the unit they happen in: a failed region yields no text, a failed file
// is reported and the batch moves on.
package batch

import (
	"context"
	"image"
	"time"

	ocrerrors "github.com/ironsheep/comic-ocr/internal/errors"
	"github.com/ironsheep/comic-ocr/internal/imaging"
	"github.com/ironsheep/comic-ocr/internal/logging"
	"github.com/ironsheep/comic-ocr/internal/ocr"
	"github.com/ironsheep/comic-ocr/internal/region"
	"github.com/ironsheep/comic-ocr/internal/transcript"
)

// Loader decodes the image stored at path.
type Loader func(path string) (image.Image, error)

// Driver processes comic pages with a single Recognizer.
type Driver struct {
	recognizer ocr.Recognizer
	rows       int
	workers    int
	log        *logging.Logger
	load       Loader
	onOutput   func(*Result)
}

// Option configures a Driver.
type Option func(*Driver)

// WithRows forces every page to be split into n rows. n <= 1 keeps
// aspect-ratio planning.
func WithRows(n int) Option {
	return func(d *Driver) { d.rows = n }
}

// WithWorkers sets how many files ProcessDirectory handles concurrently.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger for operator messages.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithLoader replaces the image loader.
func WithLoader(load Loader) Option {
	return func(d *Driver) {
		if load != nil {
			d.load = load
		}
	}
}

// WithOutputHook registers fn to be called after each output file is
// written. With several workers fn may be called concurrently.
func WithOutputHook(fn func(*Result)) Option {
	return func(d *Driver) { d.onOutput = fn }
}

// NewDriver creates a Driver. By default it plans regions from the aspect
// ratio, processes one file at a time and loads images with imaging.Load.
func NewDriver(recognizer ocr.Recognizer, opts ...Option) *Driver {
	d := &Driver{
		recognizer: recognizer,
		workers:    1,
		log:        logging.Discard(),
		load:       imaging.Load,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegionStat describes how one region of a page fared.
type RegionStat struct {
	Index    int        `json:"index"`
	ROI      region.ROI `json:"roi"`
	Observed int        `json:"observed"`
	Accepted int        `json:"accepted"`
	Error    string     `json:"error,omitempty"`
}

// PageText is the assembled text of one page plus per-region statistics.
type PageText struct {
	Text    string       `json:"text"`
	Regions []RegionStat `json:"regions"`
}

// Result is the outcome of processing one file.
type Result struct {
	Input    string        `json:"input"`
	Output   string        `json:"output"`
	Page     *PageText     `json:"page"`
	Duration time.Duration `json:"duration"`
}

// ProcessPage runs planning, recognition, filtering and assembly on an
// already loaded image. Region failures are logged and recorded in the
// returned stats; only invalid dimensions or a canceled context fail the
// page.
func (d *Driver) ProcessPage(ctx context.Context, img image.Image) (*PageText, error) {
	return d.processPage(ctx, img, "")
}

func (d *Driver) processPage(ctx context.Context, img image.Image, path string) (*PageText, error) {
	bounds := img.Bounds()
	rois, err := region.Plan(float64(bounds.Dx()), float64(bounds.Dy()), d.rows)
	if err != nil {
		if pe, ok := err.(*ocrerrors.PipelineError); ok && path != "" {
			return nil, pe.WithPath(path)
		}
		return nil, err
	}

	page := &PageText{Regions: make([]RegionStat, 0, len(rois))}
	var asm transcript.Assembler

	for i, roi := range rois {
		stat := RegionStat{Index: i, ROI: roi}

		obs, err := d.recognizer.Recognize(ctx, img, roi)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			rerr := ocrerrors.NewRecognitionError(i, err).WithPath(path)
			d.log.Warn("Text recognition failed", "region", roi, "error", rerr)
			stat.Error = rerr.Error()
			page.Regions = append(page.Regions, stat)
			continue
		}

		accepted := transcript.Filter(obs)
		stat.Observed = len(obs)
		stat.Accepted = len(accepted)
		if rejected := stat.Observed - stat.Accepted; rejected > 0 {
			d.log.Debug("Dropped implausible observations", "path", path, "region", i, "count", rejected)
		}

		asm.Add(accepted)
		page.Regions = append(page.Regions, stat)
	}

	page.Text = asm.String()
	d.log.Debug("Assembled page text", "path", path, "regions", len(rois), "lines", asm.Lines())
	return page, nil
}

// ProcessOne recognizes the image at path and writes its text to
// OutputPath(path), replacing any existing file. A page without accepted
// text still produces an empty output file.
func (d *Driver) ProcessOne(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	d.log.Info("Processing image", "path", path)

	img, err := d.load(path)
	if err != nil {
		return nil, err
	}

	page, err := d.processPage(ctx, img, path)
	if err != nil {
		return nil, err
	}

	out := OutputPath(path)
	if err := writeFileAtomic(out, []byte(page.Text)); err != nil {
		return nil, ocrerrors.NewOutputWriteError(out, err)
	}

	d.log.Info("Text recognition completed", "path", path, "output", out)
	res := &Result{
		Input:    path,
		Output:   out,
		Page:     page,
		Duration: time.Since(start),
	}
	if d.onOutput != nil {
		d.onOutput(res)
	}
	return res, nil
}
