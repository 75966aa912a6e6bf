package model

// noImageSentinel is the server-side placeholder path meaning "no image".
const noImageSentinel = "not-image.png"

type imageKind int

const (
	imageNone imageKind = iota
	imagePath
	imageUpload
)

// ImageRef is the image attachment of an item: either a reference to an
// already-stored server path, or a new base64 upload with its file extension.
// At most one representation exists at a time.
type ImageRef struct {
	kind imageKind
	path string
	data string
	ext  string
}

func NoImage() ImageRef { return ImageRef{} }

// ImagePath references an image already stored by the server. An empty path
// or the server's placeholder collapse to NoImage.
func ImagePath(path string) ImageRef {
	if path == "" || path == noImageSentinel {
		return ImageRef{}
	}
	return ImageRef{kind: imagePath, path: path}
}

// ImageUpload carries a freshly staged image as base64 plus its dot-prefixed
// lower-case extension (e.g. ".png").
func ImageUpload(base64Data, extension string) ImageRef {
	if base64Data == "" {
		return ImageRef{}
	}
	return ImageRef{kind: imageUpload, data: base64Data, ext: extension}
}

func (r ImageRef) HasImage() bool { return r.kind != imageNone }

func (r ImageRef) Path() (string, bool) {
	if r.kind != imagePath {
		return "", false
	}
	return r.path, true
}

func (r ImageRef) Upload() (base64Data, extension string, ok bool) {
	if r.kind != imageUpload {
		return "", "", false
	}
	return r.data, r.ext, true
}
