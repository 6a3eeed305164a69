package billboard

// #cgo pkg-config: libavformat
// #include <libavformat/avformat.h>
import "C"
import (
	"errors"
	"strings"
	"time"
)

// networkTimeout bounds connecting to a network input.
const networkTimeout = 10 * time.Second

var errNetwork = errors.New("network initialization failed")

// NetworkInitialize initializes the network protocols of libavformat.
// It must be called before opening URL inputs.
func NetworkInitialize() error {
	if code := C.avformat_network_init(); code < 0 {
		return statusError(errNetwork, code, "initialize the network")
	}

	return nil
}

// NetworkDeinitialize undoes NetworkInitialize.
func NetworkDeinitialize() error {
	if code := C.avformat_network_deinit(); code < 0 {
		return statusError(errNetwork, code, "deinitialize the network")
	}

	return nil
}

// IsNetworkURL reports whether path is a URL with a non-file scheme,
// such as rtsp:// or https://.
func IsNetworkURL(path string) bool {
	scheme, _, ok := strings.Cut(path, "://")
	return ok && scheme != "" && scheme != "file"
}
