package downloader

// Stage color hints consumed by the event observer. The UI layer decides
// how to render them; the worker only names them.
const (
	ColorDownloading = "#32CD32"
	ColorSlicing     = "#0080FF"
	ColorGrouping    = "#FFA500"
	ColorError       = "red"
)

// Event is the closed set of notifications a download worker emits while it
// runs. Observers switch on the concrete type.
type Event interface {
	isEvent()
}

// Progress reports completion of the current stage, 0 to 100.
type Progress struct {
	Percent int
}

// Stage announces a new stage with its display label and color hint.
type Stage struct {
	Name  string
	Color string
}

// Failure carries the single human-readable error line for a failed
// download. It is terminal: no events follow it.
type Failure struct {
	Message string
}

func (Progress) isEvent() {}
func (Stage) isEvent()    {}
func (Failure) isEvent()  {}

// Observer receives worker events. Implementations must be safe to call
// from worker goroutines.
type Observer func(Event)
