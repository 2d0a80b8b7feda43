package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sidvishnoi/respec-github-apis/internal/service"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

type GitHubHandler struct {
	commits      service.CommitService
	commenters   service.CommenterService
	contributors service.ContributorService
	issues       service.IssueService
	users        service.UserService
}

func NewGitHubHandler(
	commits service.CommitService,
	commenters service.CommenterService,
	contributors service.ContributorService,
	issues service.IssueService,
	users service.UserService,
) *GitHubHandler {
	return &GitHubHandler{
		commits:      commits,
		commenters:   commenters,
		contributors: contributors,
		issues:       issues,
		users:        users,
	}
}

// Commits lists the commits of a repository since ?from, on ?ref.
func (h *GitHubHandler) Commits(c *gin.Context) {
	seq := h.commits.Commits(c.Request.Context(), c.Param("owner"), c.Param("repo"), c.Query("from"), c.Query("ref"))
	writeSequence(c, seq)
}

// Commenters lists the distinct commenters of an issue or pull request.
func (h *GitHubHandler) Commenters(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		response.BadRequest(c, "invalid issue number")
		return
	}
	writeSequence(c, h.commenters.Commenters(c.Request.Context(), c.Param("owner"), c.Param("repo"), number))
}

func (h *GitHubHandler) Contributors(c *gin.Context) {
	contributors, err := h.contributors.Contributors(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, contributors)
}

func (h *GitHubHandler) Issues(c *gin.Context) {
	issues, err := h.issues.Issues(c.Request.Context(), c.Param("owner"), c.Param("repo"), c.Query("state"), c.Query("labels"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, issues)
}

// Users looks up ?logins=a,b,c.
func (h *GitHubHandler) Users(c *gin.Context) {
	users, err := h.users.Users(c.Request.Context(), strings.Split(c.Query("logins"), ","))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, users)
}
