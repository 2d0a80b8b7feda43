package model

// Timestamps are kept as the RFC 3339 strings GitHub returns; sync markers compare them verbatim.

type Commit struct {
	SHA         string `json:"sha"`
	Message     string `json:"message"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	AuthorLogin string `json:"author_login,omitempty"`
	Date        string `json:"date"` // committer date
	URL         string `json:"url"`
}

// Commenter is the author of at least one comment on an issue or pull request.
type Commenter struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url"`
	// CommentedAt is the updated_at of the comment the commenter was first seen on.
	CommentedAt string `json:"commented_at"`
}

type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	URL           string `json:"url"`
	Contributions int    `json:"contributions"`
}

type Issue struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	Author    string   `json:"author"`
	URL       string   `json:"url"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url"`
	Company   string `json:"company,omitempty"`
	Blog      string `json:"blog,omitempty"`
	Location  string `json:"location,omitempty"`
	Bio       string `json:"bio,omitempty"`
}
