package descriptor

// ReturnSelfMarker is the interface-file spelling of ReturnReceiver.
const ReturnSelfMarker = "->self"

// PostprocKind enumerates postprocessing markers.
type PostprocKind uint8

const (
	PostprocNone PostprocKind = iota
	PostprocReturnReceiver
	PostprocOther
)

// Postproc is a per-function annotation altering the wrapper's return.
// Text is only meaningful for PostprocOther.
type Postproc struct {
	Kind PostprocKind
	Text string
}

// NoPostproc is the zero marker.
func NoPostproc() Postproc { return Postproc{} }

// ReturnReceiver makes the wrapper return self.
func ReturnReceiver() Postproc { return Postproc{Kind: PostprocReturnReceiver} }

// OtherPostproc carries a marker this generator passes through untouched.
func OtherPostproc(text string) Postproc {
	return Postproc{Kind: PostprocOther, Text: text}
}

// ParsePostproc maps the textual marker used by interface files.
func ParsePostproc(s string) Postproc {
	switch s {
	case "":
		return NoPostproc()
	case ReturnSelfMarker:
		return ReturnReceiver()
	default:
		return OtherPostproc(s)
	}
}

// String returns the textual form accepted by ParsePostproc.
func (p Postproc) String() string {
	switch p.Kind {
	case PostprocReturnReceiver:
		return ReturnSelfMarker
	case PostprocOther:
		return p.Text
	default:
		return ""
	}
}

// ReturnsReceiver reports whether the wrapper must return self.
func (p Postproc) ReturnsReceiver() bool {
	return p.Kind == PostprocReturnReceiver
}
