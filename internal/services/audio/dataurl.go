package audio

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const dataScheme = "data:"

// IsDataURL reports whether s is an inline data URL
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataScheme)
}

// EncodeDataURL embeds data as a base64 data URL
func EncodeDataURL(data []byte, mimeType string) string {
	return dataScheme + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL parses "data:[<mime>][;params][;base64],<payload>".
// The media type defaults to text/plain like browsers do.
func DecodeDataURL(s string) (Payload, error) {
	if !IsDataURL(s) {
		return Payload{}, fmt.Errorf("%w: missing data scheme", ErrInvalidDataURL)
	}
	header, body, ok := strings.Cut(s[len(dataScheme):], ",")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURL)
	}

	params := strings.Split(header, ";")
	mimeType := params[0]
	isBase64 := false
	if n := len(params); n > 1 && strings.EqualFold(params[n-1], "base64") {
		isBase64 = true
		params = params[:n-1]
	}
	if len(params) > 1 {
		mimeType = strings.Join(params, ";")
	}
	if params[0] == "" {
		mimeType = "text/plain;charset=US-ASCII"
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(body)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		data = []byte(unescaped)
	}
	return Payload{Data: data, MimeType: mimeType}, nil
}

// isRemote reports whether u points at a network resource
func isRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
