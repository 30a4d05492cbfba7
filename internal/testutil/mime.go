package testutil

import (
	"errors"
	"mime"
)

func parseBoundary(contentType string) (string, string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", err
	}
	boundary, ok := params["boundary"]
	if !ok {
		return "", "", errors.New("missing boundary")
	}
	return mediaType, boundary, nil
}
