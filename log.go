package billboard

// #cgo pkg-config: libavutil
// #include <libavutil/log.h>
import "C"
import "github.com/sirupsen/logrus"

// SetLogLevel sets the level of the messages libav prints to stderr.
// Debug and trace map to libav's verbose and debug levels.
func SetLogLevel(level logrus.Level) {
	C.av_log_set_level(avLogLevel(level))
}

func avLogLevel(level logrus.Level) C.int {
	switch level {
	case logrus.PanicLevel:
		return C.AV_LOG_PANIC
	case logrus.FatalLevel:
		return C.AV_LOG_FATAL
	case logrus.ErrorLevel:
		return C.AV_LOG_ERROR
	case logrus.WarnLevel:
		return C.AV_LOG_WARNING
	case logrus.InfoLevel:
		return C.AV_LOG_INFO
	case logrus.DebugLevel:
		return C.AV_LOG_VERBOSE
	default:
		return C.AV_LOG_DEBUG
	}
}
