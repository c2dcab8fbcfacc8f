package downloader

import (
	"context"
	"fmt"
	"log"

	"ryujin/config"
	"ryujin/errs"
	"ryujin/models"
	"ryujin/parser"
	"ryujin/session"
)

// Source is the slice of the provider contract a download worker drives.
// Any registered provider satisfies it.
type Source interface {
	GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error)
	Download(ctx context.Context, pages models.PageSet, fn func(int)) (models.DownloadedChapter, error)
}

// Options selects the optional post-processing stages for one download.
type Options struct {
	Slice       bool
	SliceHeight int
	Group       bool
	Lang        string
}

// Worker drives one chapter download end to end: page lookup, image
// pipeline, optional slicing and grouping. It reports progress, stage
// changes and failure through its observer and never returns a value to
// the submitting thread.
type Worker struct {
	chapter models.Chapter
	source  Source
	domain  string
	opts    Options
	emit    Observer
}

// NewWorker builds a worker for one chapter. domain is the provider's
// primary domain, used to invalidate the cached session when the site
// answers with a login wall. observer may be nil.
func NewWorker(chapter models.Chapter, source Source, domain string, opts Options, observer Observer) *Worker {
	if observer == nil {
		observer = func(Event) {}
	}
	return &Worker{
		chapter: chapter,
		source:  source,
		domain:  domain,
		opts:    opts,
		emit:    observer,
	}
}

// Run executes the download state machine. Terminal states are reaching the
// end of the configured stages or emitting a Failure event.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("[Worker] Starting download: %s - ch. %s", w.chapter.Name, w.chapter.Number)

	pages, err := w.source.GetPages(ctx, w.chapter)
	if err != nil {
		// Page lookups are read-only, so the cached session stays valid.
		w.fail("error fetching pages", err, false)
		return
	}
	log.Printf("[Worker] Found %d pages for ch. %s", len(pages.Pages), w.chapter.Number)

	w.emit(Stage{Name: config.Label(w.opts.Lang, "downloading"), Color: ColorDownloading})

	chapter, err := w.source.Download(ctx, pages, w.progress)
	if err != nil {
		w.fail("download error", err, true)
		return
	}
	log.Printf("[Worker] Download complete: ch. %s (%d files)", w.chapter.Number, len(chapter.Files))

	if w.opts.Slice {
		w.emit(Stage{Name: config.Label(w.opts.Lang, "slicing"), Color: ColorSlicing})
		w.emit(Progress{Percent: 0})

		chapter, err = parser.SliceChapter(chapter, w.opts.SliceHeight, w.progress)
		if err != nil {
			w.fail("slice error", err, true)
			return
		}
		log.Printf("[Worker] Slicing complete: ch. %s", w.chapter.Number)
	}

	if w.opts.Group {
		w.emit(Stage{Name: config.Label(w.opts.Lang, "grouping"), Color: ColorGrouping})
		w.emit(Progress{Percent: 0})

		if _, err := parser.GroupChapter(chapter, w.progress); err != nil {
			w.fail("grouping error", err, true)
			return
		}
		w.emit(Progress{Percent: 100})
		log.Printf("[Worker] Grouping complete: ch. %s", w.chapter.Number)
	}
}

func (w *Worker) progress(percent int) {
	w.emit(Progress{Percent: percent})
}

// fail emits the terminal error event. The session cache is invalidated
// only when the failure actually was an authentication problem.
func (w *Worker) fail(stage string, err error, mayInvalidate bool) {
	log.Printf("[Worker] %s - ch. %s: %s: %v", w.chapter.Name, w.chapter.Number, stage, err)

	w.emit(Stage{Name: "error", Color: ColorError})
	w.emit(Failure{Message: fmt.Sprintf("%s\n%s\n%s: %v", w.chapter.Name, w.chapter.Number, stage, err)})

	if mayInvalidate && w.domain != "" && errs.IsAuthRequired(err) {
		if delErr := session.Delete(w.domain); delErr != nil {
			log.Printf("[Worker] Failed to invalidate session for %s: %v", w.domain, delErr)
		}
	}
}
