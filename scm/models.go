package scm

// Request summarizes an open merge or pull request.
type Request struct {
	// ID is the project-scoped request number (GitLab IID, GitHub PR number).
	ID           int    `json:"id"`
	SourceBranch string `json:"source_branch"`
	Title        string `json:"title"`
}
