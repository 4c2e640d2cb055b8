package ai

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var errInvalidReply = errors.New("reply is not a JSON object")

// extractJSON strips what chat models tend to wrap around a JSON object:
// markdown code fences and a leading sentence before the opening brace.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
		content = strings.TrimPrefix(strings.TrimSpace(content), "json")
		content = strings.TrimSpace(content)
	}

	if !strings.HasPrefix(content, "{") {
		if i := strings.Index(content, "{"); i >= 0 {
			content = content[i:]
		}
	}
	if j := strings.LastIndex(content, "}"); j >= 0 && j < len(content)-1 {
		content = content[:j+1]
	}
	return content
}

// decodeReply reads the four reply keys. List keys may come back as a
// single string instead of an array; both are accepted.
func decodeReply(text string) (aiReply, error) {
	if !gjson.Valid(text) {
		return aiReply{}, errInvalidReply
	}
	r := gjson.Parse(text)
	if !r.IsObject() {
		return aiReply{}, errInvalidReply
	}
	return aiReply{
		Summary:         strings.TrimSpace(r.Get("summary").String()),
		Strengths:       stringList(r.Get("strengths")),
		Concerns:        stringList(r.Get("concerns")),
		Recommendations: stringList(r.Get("recommendations")),
	}, nil
}

func stringList(v gjson.Result) []string {
	var out []string
	if v.IsArray() {
		v.ForEach(func(_, item gjson.Result) bool {
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	if s := strings.TrimSpace(v.String()); s != "" {
		out = append(out, s)
	}
	return out
}
