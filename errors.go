package billboard

// #cgo pkg-config: libavutil
// #include <libavutil/avutil.h>
// #include <libavutil/error.h>
import "C"
import (
	"fmt"
	"strings"
)

// ErrorType is a libav status code.
type ErrorType int

const (
	// ErrorAgain means the output is not available in the
	// current state and more input must be sent first.
	ErrorAgain ErrorType = -11
	// ErrorInvalidValue means an argument was rejected.
	ErrorInvalidValue ErrorType = -22
	// ErrorEndOfFile means the input has no more data.
	ErrorEndOfFile ErrorType = -541478725
)

// TimeBase is the internal time base of libav, in units per second.
const TimeBase int64 = C.AV_TIME_BASE

// Error returns the libav description of the code.
func (e ErrorType) Error() string {
	buf := make([]C.char, C.AV_ERROR_MAX_STRING_SIZE)
	if C.av_strerror(C.int(e), &buf[0], C.size_t(len(buf))) < 0 {
		return fmt.Sprintf("libav error %d", int(e))
	}

	return strings.TrimSpace(C.GoString(&buf[0]))
}

// statusError formats a failed libav call the same way everywhere in
// the package: the sentinel first, then the code and what failed.
func statusError(sentinel error, r C.int, what string) error {
	return fmt.Errorf("%w: %d: couldn't %s: %v", sentinel, int(r), what, ErrorType(r))
}

// rewindPosition converts a position in stream time base units
// into a seek target.
func rewindPosition(dur int64) C.int64_t {
	return C.int64_t(dur)
}
