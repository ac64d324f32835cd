package service

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sxc/scholarhub/internal/core/domain"
)

const genericMIME = "application/octet-stream"

// filePayload is a decoded upload.
type filePayload struct {
	Data      []byte
	MIME      string
	Extension string
}

// decodeFileContent accepts "data:<mime>;base64,<payload>" or bare base64.
// declared overrides the data URL type; when both are empty or generic the
// type is sniffed from the content.
func decodeFileContent(raw, declared string) (*filePayload, error) {
	payload := raw
	var urlMIME string
	if strings.HasPrefix(raw, "data:") {
		header, data, ok := strings.Cut(raw[len("data:"):], ",")
		if !ok {
			return nil, &domain.ValidationError{Message: "Invalid file content", Details: "malformed data URL"}
		}
		mediaType, isBase64 := strings.CutSuffix(header, ";base64")
		if !isBase64 {
			return nil, &domain.ValidationError{Message: "Invalid file content", Details: "data URL must be base64 encoded"}
		}
		urlMIME = mediaType
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, &domain.ValidationError{Message: "Invalid file content", Details: "payload is not valid base64"}
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Message: "Invalid file content", Details: "file is empty"}
	}

	detected := mimetype.Detect(data)
	out := &filePayload{Data: data, MIME: declared, Extension: detected.Extension()}
	if out.MIME == "" {
		out.MIME = urlMIME
	}
	if out.MIME == "" || out.MIME == genericMIME {
		out.MIME = detected.String()
	}
	return out, nil
}

// defaultFileName derives a download name from the resource title.
func defaultFileName(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "resource"
	}
	return name + ext
}
