package api

import (
	"fmt"
	"net/url"
)

// AvatarThumbSize is the fixed thumbnail size requested for avatar URLs.
const AvatarThumbSize = "100x100"

// FileURL builds the public URL of a file stored on a record. Returns an
// empty string when the record has no file in that field. Pure string
// construction; no network calls.
func (c *Client) FileURL(collection, recordID, filename, thumb string) string {
	if filename == "" {
		return ""
	}

	fileURL := fmt.Sprintf("%s/api/files/%s/%s/%s",
		c.baseURL, url.PathEscape(collection), url.PathEscape(recordID), url.PathEscape(filename))
	if thumb != "" {
		fileURL += "?thumb=" + url.QueryEscape(thumb)
	}
	return fileURL
}
