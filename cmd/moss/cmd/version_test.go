package cmd

import (
	"strings"
	"testing"
)

func TestVersionCmdPrintsVersionFields(t *testing.T) {
	output := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})

	for _, want := range []string{Version, GitCommit, BuildDate} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q missing %q", output, want)
		}
	}
}
