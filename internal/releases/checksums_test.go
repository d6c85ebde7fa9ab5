package releases

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bep/workers"
	qt "github.com/frankban/quicktest"
)

func TestCreateDigests(t *testing.T) {
	c := qt.New(t)

	w := workers.New(runtime.NumCPU())

	tempDir := t.TempDir()

	var filenames []string

	for i := 0; i < 3; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("mod%d.jar", i))
		err := os.WriteFile(filename, []byte(fmt.Sprintf("hello%d", i)), 0644)
		c.Assert(err, qt.IsNil)
		filenames = append(filenames, filename)
	}

	digests, err := CreateDigests(w, filenames...)
	c.Assert(err, qt.IsNil)
	c.Assert(digests, qt.HasLen, 3)
	c.Assert(digests[filenames[0]].SHA1, qt.Equals, "3a57dee5416aebc1ca12fa6206cdf090dd3ade88")
	c.Assert(digests[filenames[1]].SHA1, qt.Equals, "88fdd585121a4ccb3d1540527aee53a77c77abb8")
	c.Assert(digests[filenames[2]].SHA1, qt.Equals, "0f1defd5135596709273b3a1a07e466ea2bf4fff")
	c.Assert(digests[filenames[0]].SHA512, qt.Equals, "1fb42d3b9c0601833c23148d3e5eb6ed9f50d6af423c26bd6fdd9b36f0437010fec5bab8884e4a2a619799ce4363976b3cc6246f2c2c901863f79e3a5017ec15")

	_, err = CreateDigests(w, filepath.Join(tempDir, "missing.jar"))
	c.Assert(err, qt.Not(qt.IsNil))
}
