package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// testClipArgs renders a 10 second 640x480 30 fps test pattern.
var testClipArgs = []string{
	"-y",
	"-f", "lavfi",
	"-i", "testsrc=size=640x480:rate=30:duration=10",
	"-c:v", "libx264",
	"-pix_fmt", "yuv420p",
}

// ensureClip makes sure path exists, generating a test clip with the
// ffmpeg command when generate is set.
func ensureClip(path string, generate bool, log *logrus.Logger) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if !generate {
		return fmt.Errorf("%s does not exist", path)
	}

	entry := log.WithFields(logrus.Fields{
		"function": "ensureClip",
		"path":     path,
	})
	entry.Info("Generating test clip")

	cmd := exec.Command("ffmpeg", append(testClipArgs, path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		entry.WithField("output", string(out)).Debug("ffmpeg output")
		return fmt.Errorf("couldn't generate test clip: %w", err)
	}

	entry.Info("Test clip generated")

	return nil
}
