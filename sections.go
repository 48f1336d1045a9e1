package report

import (
	"log/slog"

	"github.com/vovanec/report/handler"
	"github.com/vovanec/report/section"
)

// Section appends s to the report when its handler renders sections.
// Other handlers drop it; the drop is logged at debug level.
func (r *Report) Section(s section.Section) *Report {
	if r == nil {
		return nil
	}
	if a, ok := r.handler.(handler.SectionAppender); ok {
		a.AppendSection(s)
		return r
	}
	slog.Debug("report section dropped",
		slog.String("handler", handler.NameOf(r.handler)),
		slog.String("section", s.Label()))
	return r
}

func (r *Report) Note(text string) *Report {
	return r.Section(section.Note(text))
}

func (r *Report) Warning(text string) *Report {
	return r.Section(section.Warning(text))
}

func (r *Report) Suggestion(text string) *Report {
	return r.Section(section.Suggestion(text))
}

// ErrorSection appends err and its causes as an "Error:" section, for
// secondary failures such as a cleanup error.
func (r *Report) ErrorSection(err error) *Report {
	if err == nil {
		return r
	}
	return r.Section(section.Error(err))
}
