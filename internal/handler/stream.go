package handler

import (
	"encoding/json"
	"iter"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sidvishnoi/respec-github-apis/internal/incremental"
	"github.com/sidvishnoi/respec-github-apis/pkg/response"
)

const contentTypeNDJSON = "application/x-ndjson"

func wantsNDJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), contentTypeNDJSON)
}

// writeSequence sends seq as one enveloped JSON array, or line by line when the client
// accepts NDJSON. A streamed pass that fails after the first line ends with an
// {"error": "..."} line. A failed write stops consuming seq.
func writeSequence[T any](c *gin.Context, seq iter.Seq2[T, error]) {
	if !wantsNDJSON(c) {
		items, err := incremental.Collect(seq)
		if err != nil {
			writeError(c, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		response.Success(c, items)
		return
	}

	enc := json.NewEncoder(c.Writer)
	started := false
	for item, err := range seq {
		if err != nil {
			if !started {
				writeError(c, err)
				return
			}
			_ = c.Error(err)
			_ = enc.Encode(gin.H{"error": err.Error()})
			return
		}
		if !started {
			c.Header("Content-Type", contentTypeNDJSON)
			c.Status(http.StatusOK)
			started = true
		}
		if enc.Encode(item) != nil {
			return
		}
		c.Writer.Flush()
	}
	if !started {
		c.Header("Content-Type", contentTypeNDJSON)
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
	}
}
