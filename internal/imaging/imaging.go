// Package imaging validates and stages image files before they are attached
// to an item. Staging is local only; nothing is uploaded until the item is
// submitted.
package imaging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PpairNode/LibStock/internal/model"
)

// MaxImageBytes is the largest accepted image payload. The server rejects
// anything bigger with a 413, so oversized files fail fast locally.
const MaxImageBytes = 16 << 20

var (
	ErrInvalidImageType = errors.New("unsupported image type, expected png, jpeg or gif")
	ErrImageTooLarge    = fmt.Errorf("image exceeds %d MB", MaxImageBytes>>20)
	ErrImageLoadFailed  = errors.New("image could not be read")
)

// mimeExt maps an accepted sniffed content type to its canonical extension.
var mimeExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// Staged is a validated image ready to travel with an item submit or an
// export document.
type Staged struct {
	// Base64Data is the raw file content, standard base64.
	Base64Data string
	// Extension is the dot-prefixed lowercase extension, e.g. ".png".
	Extension string
	// ContentType is the sniffed MIME type.
	ContentType string
	// Size is the raw byte count before encoding.
	Size int64
}

// StageFile reads and validates the image at path. Filesystem problems are
// reported as ErrImageLoadFailed with the cause wrapped.
func StageFile(path string) (*Staged, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoadFailed, err)
	}
	if info.Size() > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoadFailed, err)
	}
	return Stage(filepath.Base(path), data)
}

// Stage validates raw image bytes. The content type is sniffed from the
// bytes, never trusted from the name; the name only supplies the preferred
// extension.
func Stage(name string, data []byte) (*Staged, error) {
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrImageLoadFailed)
	}

	ct := http.DetectContentType(data)
	canonical, ok := mimeExt[ct]
	if !ok {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidImageType, ct)
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		ext = canonical
	}

	return &Staged{
		Base64Data:  base64.StdEncoding.EncodeToString(data),
		Extension:   ext,
		ContentType: ct,
		Size:        int64(len(data)),
	}, nil
}

// Bytes decodes the staged payload back into raw file content.
func (s *Staged) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(s.Base64Data)
}

// DataURL renders the staged image as a displayable data URL, the immediate
// feedback form before anything reaches the server.
func (s *Staged) DataURL() string {
	return "data:" + s.ContentType + ";base64," + s.Base64Data
}


// Resolve picks the image reference an item submit should carry: a freshly
// staged image wins over the path already stored on the server, and with
// neither the item goes out image-less.
func Resolve(existingPath string, staged *Staged) model.ImageRef {
	if staged != nil {
		return model.ImageUpload(staged.Base64Data, staged.Extension)
	}
	return model.ImagePath(existingPath)
}
