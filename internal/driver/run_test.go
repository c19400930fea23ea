package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRunAbortsOnUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permission bits, cannot force a read failure this way")
	}

	root := t.TempDir()
	bad := filepath.Join(root, "rustc.foo-bar.003-027.PreCodegen.after.mir")
	if err := os.WriteFile(bad, []byte("fn foo() -> () {\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(bad, 0000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(bad, 0644)

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	_, err := Run(context.Background(), root, logger)
	if err == nil {
		t.Fatal("expected Run to propagate the file read error, got nil")
	}
}
