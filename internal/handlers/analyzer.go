package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"densitydesk/internal/analysis"
	"densitydesk/internal/config"
	"densitydesk/internal/inflight"
	"densitydesk/internal/keywords"
	"densitydesk/internal/models"
	"densitydesk/internal/state"
)

// AnalyzerHandler serves the density analyzer page and its HTMX actions.
type AnalyzerHandler struct {
	state   *state.Dispatcher
	client  *analysis.Client
	flights *inflight.Group
	cfg     *config.Config
}

// NewAnalyzerHandler creates a new analyzer handler.
func NewAnalyzerHandler(dispatcher *state.Dispatcher, client *analysis.Client, flights *inflight.Group, cfg *config.Config) *AnalyzerHandler {
	return &AnalyzerHandler{state: dispatcher, client: client, flights: flights, cfg: cfg}
}

// Index renders the analyzer. A shared analysis ID in ?id= replaces the
// session's analyzer state before rendering.
func (h *AnalyzerHandler) Index(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	var loadError string
	if id := c.Query("id"); id != "" {
		bundle, err := h.client.GetAnalysis(c.Context(), id)
		if err != nil {
			slog.Warn("failed to load shared analysis", "id", id, "error", err)
			loadError = analysis.UserMessage(analysis.OpGet, err)
		} else if _, err := h.state.Dispatch(c.Context(), key, state.LoadShared{Bundle: *bundle}); err != nil {
			return err
		}
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return err
	}

	mode := ModeEdit
	if c.Query("mode") != "" {
		mode = normalizeMode(c.Query("mode"))
	} else if st.Analysis != nil && st.Text != "" {
		mode = ModeView
	}

	data := h.pageData(key, st, mode, "")
	data["Title"] = "Keyword density"
	data["LoadError"] = loadError
	return c.Render("index", MergeBranding(data, h.cfg))
}

// SaveText stores the analyzer text and returns the updated counters.
func (h *AnalyzerHandler) SaveText(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Dispatch(c.Context(), key, state.SetText{Text: c.FormValue("text")})
	if err != nil {
		return htmxError(c, "Failed to save text")
	}

	return c.Render("partials/text_stats", fiber.Map{
		"Stats": keywords.CalculateStats(st.Text),
	}, "")
}

// Analyze sends the text to the remote analyzer and renders the results.
func (h *AnalyzerHandler) Analyze(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.syncText(c, key)
	if err != nil {
		return htmxError(c, "Failed to save text")
	}
	if st.Text == "" {
		return htmxError(c, "Enter some text to analyze")
	}

	result, _, err := inflight.Do(h.flights, key, inflight.KindAnalyze, st.Text, func() (*models.AnalysisResult, error) {
		return h.client.Analyze(c.Context(), st.Text)
	})
	if err != nil {
		slog.Warn("analysis failed", "error", err)
		return htmxError(c, analysis.UserMessage(analysis.OpAnalyze, err))
	}

	st, err = h.state.Dispatch(c.Context(), key, state.SetAnalysis{Result: result})
	if err != nil {
		return htmxError(c, "Failed to save analysis")
	}

	c.Set("HX-Trigger", "analysis-updated")
	return c.Render("partials/analysis", h.pageData(key, st, ModeView, ""), "")
}

// SpamCheck scores the text for keyword stuffing.
func (h *AnalyzerHandler) SpamCheck(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.syncText(c, key)
	if err != nil {
		return htmxError(c, "Failed to save text")
	}
	if st.Text == "" {
		return htmxError(c, "Enter some text to check")
	}

	result, _, err := inflight.Do(h.flights, key, inflight.KindSpamCheck, st.Text, func() (*models.SpamRiskResult, error) {
		return h.client.CheckSpamRisk(c.Context(), st.Text)
	})
	if err != nil {
		slog.Warn("spam check failed", "error", err)
		return htmxError(c, analysis.UserMessage(analysis.OpSpamCheck, err))
	}

	st, err = h.state.Dispatch(c.Context(), key, state.SetSpamRisk{Result: result})
	if err != nil {
		return htmxError(c, "Failed to save spam check")
	}

	return c.Render("partials/spam_risk", fiber.Map{
		"SpamRisk": st.SpamRisk,
	}, "")
}

// Share saves the current analysis remotely and returns its link.
func (h *AnalyzerHandler) Share(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return htmxError(c, "Failed to load analysis")
	}
	if st.Text == "" || st.Analysis == nil {
		return htmxError(c, "Analyze the text before sharing")
	}

	id, _, err := inflight.Do(h.flights, key, inflight.KindShare, st.Text, func() (string, error) {
		return h.client.SaveAnalysis(c.Context(), models.SavedAnalysis{
			Text:           st.Text,
			AnalysisResult: st.Analysis,
			SpamRiskResult: st.SpamRisk,
		})
	})
	if err != nil {
		slog.Warn("share failed", "error", err)
		return htmxError(c, analysis.UserMessage(analysis.OpSave, err))
	}

	return c.Render("partials/share", fiber.Map{
		"ShareURL": h.cfg.ShareURL(id),
	}, "")
}

// Highlight returns the annotated text with the given keyword hovered.
func (h *AnalyzerHandler) Highlight(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return htmxError(c, "Failed to load analysis")
	}

	hovered := normalizeHover(c.Query("hover"))
	return c.Render("partials/highlighted", fiber.Map{
		"Highlighted": highlightedText(st.Text, st.Analysis, h.cfg.Limits.HighlightFloor, hovered),
	}, "")
}

// ExportAnalysis downloads the density tables as CSV.
func (h *AnalyzerHandler) ExportAnalysis(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return err
	}
	if st.Analysis == nil {
		return fiber.NewError(fiber.StatusNotFound, "No analysis to export")
	}

	body, err := keywords.ExportAnalysisCSV(st.Analysis)
	if err != nil {
		return err
	}
	return attachment(c, "text/csv; charset=utf-8", exportName("analysis", "csv", time.Now()), body)
}

// syncText stores the submitted text, when the form carries one, and
// returns the resulting state.
func (h *AnalyzerHandler) syncText(c fiber.Ctx, key string) (models.AppState, error) {
	if c.Request().PostArgs().Has("text") {
		return h.state.Dispatch(c.Context(), key, state.SetText{Text: c.FormValue("text")})
	}
	return h.state.Load(c.Context(), key)
}

func (h *AnalyzerHandler) pageData(key string, st models.AppState, mode, hovered string) fiber.Map {
	// Without an analysis Highlighted is the escaped text with no annotations.
	data := fiber.Map{
		"State":       st,
		"Mode":        mode,
		"Stats":       keywords.CalculateStats(st.Text),
		"Busy":        h.flights.Flags(key),
		"SpamRisk":    st.SpamRisk,
		"Highlighted": highlightedText(st.Text, st.Analysis, h.cfg.Limits.HighlightFloor, hovered),
	}
	if st.Analysis != nil {
		data["Analysis"] = st.Analysis
		data["SingleRows"] = densityRows(st.Analysis.SingleKeywords, hovered)
		data["StopwordRows"] = densityRows(st.Analysis.Stopwords, hovered)
		data["Phrases"] = st.Analysis.Phrases
	}
	return data
}
