package releases

import (
	"context"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"github.com/bep/workers"
)

// Digest holds the lowercase hex encoded digests of a file,
// the set Modrinth reports for every uploaded file.
type Digest struct {
	SHA1   string
	SHA512 string
}

// CreateDigests calculates the digests of filenames in parallel.
// The result is keyed by filename.
func CreateDigests(w *workers.Workforce, filenames ...string) (map[string]Digest, error) {
	var mu sync.Mutex
	result := make(map[string]Digest, len(filenames))

	r, _ := w.Start(context.Background())

	createDigest := func(filename string) (Digest, error) {
		f, err := os.Open(filename)
		if err != nil {
			return Digest{}, err
		}
		defer f.Close()
		h1, h512 := sha1.New(), sha512.New()
		if _, err := io.Copy(io.MultiWriter(h1, h512), f); err != nil {
			return Digest{}, err
		}
		return Digest{
			SHA1:   hex.EncodeToString(h1.Sum(nil)),
			SHA512: hex.EncodeToString(h512.Sum(nil)),
		}, nil
	}

	for _, filename := range filenames {
		filename := filename
		r.Run(func() error {
			d, err := createDigest(filename)
			if err != nil {
				return err
			}
			mu.Lock()
			result[filename] = d
			mu.Unlock()
			return nil
		})
	}

	if err := r.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
