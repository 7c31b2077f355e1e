package domain

import "time"

// RepoInfo is the metadata returned for a GitHub repository lookup.
type RepoInfo struct {
	FullName      string     `json:"full_name"`
	Description   string     `json:"description,omitempty"`
	DefaultBranch string     `json:"default_branch"`
	Private       bool       `json:"private"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	OpenIssues    int        `json:"open_issues"`
	Language      string     `json:"language,omitempty"`
	HTMLURL       string     `json:"html_url"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
}
