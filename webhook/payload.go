package webhook

// Payload types model only the fields the normalizers read. Optional
// nested objects are pointers so absence is checked explicitly instead
// of reading through zero values.

type pushPayload struct {
	Ref        string `json:"ref"`
	HeadCommit *struct {
		ID     string `json:"id"`
		Author struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"head_commit"`
}

type pullRequestPayload struct {
	Action      string `json:"action"`
	PullRequest *struct {
		ID     int64 `json:"id"`
		Merged bool  `json:"merged"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
		MergedBy *struct {
			Login string `json:"login"`
		} `json:"merged_by"`
		Head struct {
			Ref string `json:"ref"`
		} `json:"head"`
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
	} `json:"pull_request"`
}
