package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Pagination carries the standard list query parameters.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// PageInfo is embedded in list responses.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	TotalSize     int64  `json:"total_size,omitempty"`
}

// Limit normalizes the requested page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

// Offset decodes the page token into a row offset. Malformed tokens read as
// offset zero rather than failing the request.
func (p Pagination) Offset() int {
	offset, ok := decodeToken(p.PageToken)
	if !ok {
		return 0
	}
	return offset
}

// NextToken encodes the follow-up token, or empty when the page was short.
func (p Pagination) NextToken(returned int) string {
	if returned < p.Limit() {
		return ""
	}
	return encodeToken(p.Offset() + returned)
}

func encodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(offset)))
}

func decodeToken(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, false
	}
	value, ok := strings.CutPrefix(string(raw), "o:")
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(value)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}
