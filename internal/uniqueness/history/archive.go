package history

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

var (
	zipMagic   = []byte("PK\x03\x04")
	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	armorMagic = []byte("-----BEGIN PGP")
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
)

// maxNesting bounds container-in-container unwrapping (e.g. a zip inside gzip).
const maxNesting = 3

// decryptArtifact returns the plaintext of an OpenPGP symmetrically encrypted
// artifact. Artifacts that are not OpenPGP messages, or pointers without a
// passphrase, are returned unchanged.
func decryptArtifact(r io.Reader, passphrase string, limit int64) ([]byte, error) {
	raw, err := readLimited(r, limit)
	if err != nil {
		return nil, err
	}
	if passphrase == "" || !looksEncrypted(raw) {
		return raw, nil
	}

	var src io.Reader = bytes.NewReader(raw)
	if bytes.HasPrefix(raw, armorMagic) {
		block, err := armor.Decode(src)
		if err != nil {
			return nil, fmt.Errorf("decode armor: %w", err)
		}
		src = block.Body
	}

	prompted := false
	prompt := func(_ []openpgp.Key, symmetric bool) ([]byte, error) {
		if !symmetric || prompted {
			return nil, ErrBadPassphrase
		}
		prompted = true
		return []byte(passphrase), nil
	}

	md, err := openpgp.ReadMessage(src, openpgp.EntityList{}, prompt, nil)
	if err != nil {
		if errors.Is(err, ErrBadPassphrase) {
			return nil, ErrBadPassphrase
		}
		return nil, fmt.Errorf("read pgp message: %w", err)
	}
	return readLimited(md.UnverifiedBody, limit)
}

// looksEncrypted reports whether b starts like an OpenPGP message: ASCII armor
// or a binary packet header (tag byte with the high bit set).
func looksEncrypted(b []byte) bool {
	if bytes.HasPrefix(b, armorMagic) {
		return true
	}
	return len(b) > 0 && b[0]&0x80 != 0 && !bytes.HasPrefix(b, utf8BOM)
}

// extractDocument finds the JSON document inside a decrypted artifact, which
// may be the document itself or a zip, gzip or zstd container holding it.
func extractDocument(data []byte, limit int64) ([]byte, error) {
	return extract(data, limit, 0)
}

func extract(data []byte, limit int64, depth int) ([]byte, error) {
	if depth > maxNesting {
		return nil, ErrNoDocument
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		doc, err := fromZip(data, limit)
		if err != nil {
			return nil, err
		}
		return extract(doc, limit, depth+1)

	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer zr.Close()
		inner, err := readLimited(zr, limit)
		if err != nil {
			return nil, err
		}
		return extract(inner, limit, depth+1)

	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(uint64(limit)))
		if err != nil {
			return nil, fmt.Errorf("open zstd: %w", err)
		}
		defer dec.Close()
		inner, err := readLimited(dec, limit)
		if err != nil {
			return nil, err
		}
		return extract(inner, limit, depth+1)
	}

	doc := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(doc) == 0 || doc[0] != '{' {
		return nil, ErrNoDocument
	}
	return doc, nil
}

// fromZip returns the first .json entry, skipping directories and macOS
// resource forks.
func fromZip(data []byte, limit int64) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || !strings.EqualFold(path.Ext(base), ".json") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		doc, err := readLimited(rc, limit)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	return nil, ErrNoDocument
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrArtifactTooLarge
	}
	return b, nil
}
