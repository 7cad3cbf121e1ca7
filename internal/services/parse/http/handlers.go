// Package http provides http transport for parse
package http

import (
	stdhttp "net/http"

	"voicelog/internal/modkit/httpkit"
	"voicelog/internal/services/parse/domain"
)

// Register mounts the router
func Register(r httpkit.Router, parser domain.ParserPort) {
	h := &handlers{parser: parser}
	httpkit.PostJSON[domain.ParseRequest](r, "/", h.parse)
}

type handlers struct{ parser domain.ParserPort }

func (h *handlers) parse(r *stdhttp.Request, in domain.ParseRequest) (any, error) {
	return h.parser.Parse(r.Context(), domain.ParseInput{
		Text:     in.Text,
		Projects: in.Projects,
		Locale:   in.Locale,
	})
}
