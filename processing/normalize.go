package processing

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"artfolio/config"
)

const jpegQuality = 90

// Result reports the non-fatal outcome of a normalization attempt, kept
// separate from the upload's primary outcome so callers (and tests) can
// inspect it independently.
type Result struct {
	Attempted bool
	Converted bool
	Err       error
}

// IsHEIC matches Apple's HEIC/HEIF containers by declared MIME type or
// file extension
func IsHEIC(mimeType, fileName string) bool {
	switch strings.ToLower(mimeType) {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence":
		return true
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

// NormalizeImage transcodes HEIC/HEIF input to JPEG so browsers can
// display it. Best effort: when both the in-process decode and the
// ffmpeg fallback fail, the original bytes come back unchanged and the
// failure is carried in Result.Err.
func NormalizeImage(fileName, mimeType string, data []byte) ([]byte, string, string, Result) {
	if !IsHEIC(mimeType, fileName) {
		return data, fileName, mimeType, Result{}
	}
	result := Result{Attempted: true}
	converted, err := decodeToJPEG(data)
	if err != nil {
		// The Go image stack has no HEIF decoder, so this is the usual path
		converted, err = ffmpegToJPEG(data)
	}
	if err != nil {
		log.Printf("HEIC conversion failed for %s, storing original: %v", fileName, err)
		result.Err = err
		return data, fileName, mimeType, result
	}
	result.Converted = true
	newName := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".jpg"
	return converted, newName, "image/jpeg", result
}

func decodeToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err = jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func ffmpegToJPEG(data []byte) ([]byte, error) {
	base := filepath.Join(config.TMP_DIR, "heic_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	in := base + ".heic"
	out := base + ".jpg"
	if err := os.WriteFile(in, data, 0600); err != nil {
		return nil, err
	}
	defer os.Remove(in)
	defer os.Remove(out)

	cmd := exec.Command(config.FFMPEG_BIN, "-y", "-i", in, "-q:v", "2", out)
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return os.ReadFile(out)
}
