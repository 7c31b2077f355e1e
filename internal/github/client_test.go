package github

import (
	"errors"
	"testing"
)

func TestParseRepoIdentifier(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain slug", "octocat/hello-world", "octocat/hello-world"},
		{"surrounding whitespace", "  octocat/hello-world  ", "octocat/hello-world"},
		{"https url", "https://github.com/octocat/hello-world", "octocat/hello-world"},
		{"http url", "http://github.com/octocat/hello-world", "octocat/hello-world"},
		{"bare host prefix", "github.com/octocat/hello-world", "octocat/hello-world"},
		{"git suffix", "https://github.com/octocat/hello-world.git", "octocat/hello-world"},
		{"trailing slash", "https://github.com/octocat/hello-world/", "octocat/hello-world"},
		{"dots and dashes", "some-org/repo.name_v2", "some-org/repo.name_v2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRepoIdentifier(tc.input)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("parse %q: got %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseRepoIdentifier_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no owner", "hello-world"},
		{"too many segments", "github.com/octocat/hello-world/pulls"},
		{"spaces inside", "octo cat/hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRepoIdentifier(tc.input); !errors.Is(err, ErrInvalidRepo) {
				t.Fatalf("parse %q: expected ErrInvalidRepo, got %v", tc.input, err)
			}
		})
	}
}
