package storage

import (
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ReportPrefix is the folder holding one user's archived reports.
func ReportPrefix(keyPrefix, username string) string {
	base := strings.Trim(keyPrefix, "/")
	user := url.PathEscape(username)
	if base == "" {
		return user + "/"
	}
	return base + "/" + user + "/"
}

// ReportKey names a new archived report object.
func ReportKey(keyPrefix, username, fileName string) string {
	return ReportPrefix(keyPrefix, username) + uuid.NewString() + "_" + path.Base(fileName)
}
