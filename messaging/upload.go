// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxImageSize is the largest decoded image the upload endpoint accepts.
const MaxImageSize = 5 << 20

// UploadImage stores an image and returns its public URL. image is
// either bare base64 or a data: URL. The backend also sets the image as
// the caller's avatar.
func (c *Client) UploadImage(ctx context.Context, image string) (string, error) {
	var response struct {
		URL string `json:"url"`
	}
	if err := c.call(ctx, actionUploadImage, nil, map[string]string{"image": image}, &response); err != nil {
		return "", err
	}
	if response.URL == "" {
		return "", fmt.Errorf("messaging: upload response has no url")
	}
	return response.URL, nil
}

// DecodeImage strips an optional data: URL prefix and decodes the
// base64 payload. Callers use it to check size before uploading.
func DecodeImage(image string) ([]byte, error) {
	payload := image
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, fmt.Errorf("messaging: malformed data URL")
		}
		payload = payload[comma+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid base64 image: %w", err)
	}
	return decoded, nil
}

// EncodeImage returns a data: URL for raw image bytes with the given
// MIME type.
func EncodeImage(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
