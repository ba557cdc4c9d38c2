package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"

	"densitydesk/internal/analysis"
	"densitydesk/internal/config"
	"densitydesk/internal/inflight"
	"densitydesk/internal/keywords"
	"densitydesk/internal/models"
	"densitydesk/internal/state"
	"densitydesk/internal/validation"
)

// messagesTarget is where generator errors are shown.
const messagesTarget = "#messages"

// GeneratorHandler serves the description generator workspace.
type GeneratorHandler struct {
	state   *state.Dispatcher
	client  *analysis.Client
	flights *inflight.Group
	cfg     *config.Config
}

// NewGeneratorHandler creates a new generator handler.
func NewGeneratorHandler(dispatcher *state.Dispatcher, client *analysis.Client, flights *inflight.Group, cfg *config.Config) *GeneratorHandler {
	return &GeneratorHandler{state: dispatcher, client: client, flights: flights, cfg: cfg}
}

// Show renders the generator page.
func (h *GeneratorHandler) Show(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return err
	}

	data := h.workspaceData(key, st)
	data["Title"] = "Description generator"
	return c.Render("generator", MergeBranding(data, h.cfg))
}

// UpdateFields stores the form fields and reports their validation state.
func (h *GeneratorHandler) UpdateFields(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Dispatch(c.Context(), key, state.SetFields{
		ExtensionName:    c.FormValue("extension_name"),
		ShortDescription: c.FormValue("short_description"),
		UserPrompt:       c.FormValue("user_prompt"),
	})
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to save fields")
	}

	return c.Render("partials/generator_status", h.workspaceData(key, st), "")
}

// Generate asks the remote generator for a description.
func (h *GeneratorHandler) Generate(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to load workspace")
	}
	if ok, msg := validation.CanGenerate(st.ExtensionName, st.ShortDescription, h.cfg.Limits); !ok {
		return htmxErrorTo(c, messagesTarget, msg)
	}

	req := analysis.NewGenerateRequest(st)
	input, _ := json.Marshal(req)
	text, _, err := inflight.Do(h.flights, key, inflight.KindGenerate, string(input), func() (string, error) {
		return h.client.GenerateDescription(c.Context(), req)
	})
	if err != nil {
		slog.Warn("description generation failed", "error", err)
		return htmxErrorTo(c, messagesTarget, analysis.UserMessage(analysis.OpGenerate, err))
	}

	st, err = h.state.Dispatch(c.Context(), key, state.SetGeneratedText{Text: truncate(text, h.cfg.Limits.GeneratedTextMax)})
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to save description")
	}

	return c.Render("partials/generate_response", h.workspaceData(key, st), "")
}

// UpdateText stores an edited description and recounts keyword usage.
func (h *GeneratorHandler) UpdateText(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	text := truncate(c.FormValue("generated_text"), h.cfg.Limits.GeneratedTextMax)
	st, err := h.state.Dispatch(c.Context(), key, state.SetGeneratedText{Text: text})
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to save description")
	}

	return c.Render("partials/keyword_tables", h.workspaceData(key, st), "")
}

// Import appends the rows of an uploaded CSV file to a keyword table.
func (h *GeneratorHandler) Import(c fiber.Ctx) error {
	key, table, err := h.tableParams(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "CSV file is required")
	}
	if ok, msg := validation.ValidateCSVUpload(file.Filename, file.Size, h.cfg.Limits); !ok {
		return htmxErrorTo(c, messagesTarget, msg)
	}

	f, err := file.Open()
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to read CSV file")
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, h.cfg.Limits.CSVMaxBytes+1))
	if err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to read CSV file")
	}
	if !utf8.Valid(raw) {
		return htmxErrorTo(c, messagesTarget, "CSV file must be UTF-8 text")
	}

	records := keywords.ToRecords(keywords.ParseCSV(string(raw)))
	slog.Info("imported keywords", "table", table, "rows", len(records))

	return h.apply(c, key, table, state.ImportKeywords{Table: table, Records: records})
}

// AddRow appends an empty keyword row.
func (h *GeneratorHandler) AddRow(c fiber.Ctx) error {
	key, table, err := h.tableParams(c)
	if err != nil {
		return err
	}
	record := keywords.NewRecord(c.FormValue("key"), c.FormValue("volume"), c.FormValue("kd"))
	return h.apply(c, key, table, state.AddRow{Table: table, Record: record})
}

// UpdateRow edits one field of a keyword row.
func (h *GeneratorHandler) UpdateRow(c fiber.Ctx) error {
	key, table, err := h.tableParams(c)
	if err != nil {
		return err
	}
	return h.apply(c, key, table, state.UpdateRow{
		Table: table,
		ID:    c.Params("id"),
		Field: c.FormValue("field"),
		Value: c.FormValue("value"),
	})
}

// DeleteRow removes a keyword row.
func (h *GeneratorHandler) DeleteRow(c fiber.Ctx) error {
	key, table, err := h.tableParams(c)
	if err != nil {
		return err
	}
	return h.apply(c, key, table, state.DeleteRow{Table: table, ID: c.Params("id")})
}

// ClearTable removes every row of a keyword table.
func (h *GeneratorHandler) ClearTable(c fiber.Ctx) error {
	key, table, err := h.tableParams(c)
	if err != nil {
		return err
	}
	return h.apply(c, key, table, state.ClearTable{Table: table})
}

// Clean resets the whole workspace.
func (h *GeneratorHandler) Clean(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	if _, err := h.state.Dispatch(c.Context(), key, state.Reset{}); err != nil {
		return htmxErrorTo(c, messagesTarget, "Failed to clean workspace")
	}

	if isHTMX(c) {
		c.Set("HX-Redirect", "/generator")
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect().To("/generator")
}

// ExportState downloads the workspace as JSON.
func (h *GeneratorHandler) ExportState(c fiber.Ctx) error {
	key, err := sessionKey(c)
	if err != nil {
		return err
	}

	st, err := h.state.Load(c.Context(), key)
	if err != nil {
		return err
	}

	now := time.Now()
	body, err := json.MarshalIndent(models.StateExport{
		AppState:   st,
		Stats:      keywords.CalculateStats(st.GeneratedText),
		ExportDate: now.UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return attachment(c, fiber.MIMEApplicationJSONCharsetUTF8, exportName("description", "json", now), body)
}

func (h *GeneratorHandler) tableParams(c fiber.Ctx) (string, string, error) {
	key, err := sessionKey(c)
	if err != nil {
		return "", "", err
	}
	table := c.Params("table")
	if !models.IsValidTable(table) {
		return "", "", fiber.NewError(fiber.StatusNotFound, "Unknown keyword table")
	}
	return key, table, nil
}

// apply dispatches a table action and renders the table.
func (h *GeneratorHandler) apply(c fiber.Ctx, key, table string, action state.Action) error {
	st, err := h.state.Dispatch(c.Context(), key, action)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrRowNotFound):
			return htmxErrorTo(c, messagesTarget, "Keyword row not found")
		case errors.Is(err, state.ErrUnknownField):
			return htmxErrorTo(c, messagesTarget, "That field cannot be edited")
		}
		return htmxErrorTo(c, messagesTarget, "Failed to update keywords")
	}

	return c.Render("partials/keyword_table", keywordTable(table, st.Table(table)), "")
}

func (h *GeneratorHandler) workspaceData(key string, st models.AppState) fiber.Map {
	limits := h.cfg.Limits
	data := fiber.Map{
		"State":      st,
		"Limits":     limits,
		"MainTable":  keywordTable(models.TableMain, st.MainKeywords),
		"ExtraTable": keywordTable(models.TableExtra, st.ExtraKeywords),
		"TextStats":  keywords.CalculateStats(st.GeneratedText),
		"Busy":       h.flights.Busy(key, inflight.KindGenerate),
	}

	// Only report problems with fields the user has started filling in.
	if st.ExtensionName != "" {
		if ok, msg := validation.ValidateExtensionName(st.ExtensionName, limits); !ok {
			data["NameError"] = msg
		}
	}
	if st.ShortDescription != "" {
		if ok, msg := validation.ValidateShortDescription(st.ShortDescription, limits); !ok {
			data["DescriptionError"] = msg
		}
	}
	canGenerate, _ := validation.CanGenerate(st.ExtensionName, st.ShortDescription, limits)
	data["CanGenerate"] = canGenerate
	return data
}

// truncate cuts s to at most max runes. A non-positive max disables it.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
