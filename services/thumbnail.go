package services

import (
	"fmt"
	"net/url"
	"strings"
)

const thumbnailHost = "https://raw.githubusercontent.com"

// ThumbnailURL returns where a project's thumbnail.png lives on the raw
// GitHub host. The repository name is the last segment of the repository URL
// without ".git"; title is used when the URL has no usable segment.
func ThumbnailURL(gitUsername, github, title string) string {
	repo := repoName(github)
	if repo == "" {
		repo = title
	}
	return fmt.Sprintf("%s/%s/%s/main/thumbnail.png",
		thumbnailHost, url.PathEscape(gitUsername), url.PathEscape(repo))
}

func repoName(github string) string {
	github = strings.TrimSpace(github)
	if u, err := url.Parse(github); err == nil && u.Path != "" {
		github = u.Path
	}
	github = strings.TrimRight(github, "/")
	if i := strings.LastIndex(github, "/"); i >= 0 {
		github = github[i+1:]
	}
	return strings.TrimSuffix(github, ".git")
}
