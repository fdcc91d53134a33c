package partials

// Toast tones understood by the static script.
const (
	ToneSuccess = "success"
	ToneError   = "error"
	ToneInfo    = "info"
)

// Toast is a transient notification. It is serialised into HX-Trigger headers and the
// data-initial-toast attribute, so the JSON shape is shared with catalog.js.
type Toast struct {
	Message string `json:"message"`
	Tone    string `json:"tone"`
}
