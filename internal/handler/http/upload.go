package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

var errFileTooLarge = errors.New("file is too large")

// readFormFile reads a multipart file field fully, refusing anything larger
// than limit bytes. A missing field returns http.ErrMissingFile. The part's
// Content-Type header is client-controlled and ignored.
func readFormFile(r *http.Request, field string, limit int64) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	if int64(len(content)) > limit {
		return nil, "", errFileTooLarge
	}
	return content, header.Filename, nil
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed so that DTO validation reports it.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
