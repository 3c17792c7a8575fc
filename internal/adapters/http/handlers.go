package web

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"fitplan/internal/adapters/http/middleware"
	"fitplan/internal/adapters/ics"
	"fitplan/internal/adapters/planai"
	"fitplan/internal/application/listutil"
	"fitplan/internal/application/orchestrators"
	"fitplan/internal/application/projections"
	"fitplan/internal/domain/account"
	"fitplan/internal/domain/event"
	"fitplan/internal/domain/location"
	"fitplan/internal/domain/plan"
	"fitplan/internal/domain/suggestion"
	templateDomain "fitplan/internal/domain/template"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts markdown to sanitized HTML, falling back to the
// escaped source on conversion errors.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// generateToken creates a 64-hex-char activation token.
func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(bytes)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorJSON writes an error payload.
func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireSession extracts the session or writes 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "authentication required")
		return middleware.Session{}, false
	}
	return sess, true
}

const previewCookieName = "fitplan_preview"

// previewToken returns the visitor's preview token, minting one (and setting
// the cookie) when absent. The token keys preview state across reloads.
func previewToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(previewCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := generateToken()
	http.SetCookie(w, &http.Cookie{
		Name:     previewCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   7 * 86400,
	})
	return token
}

// existingPreviewToken returns the preview token only if the cookie is set.
func existingPreviewToken(r *http.Request) string {
	if cookie, err := r.Cookie(previewCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// registerRoutes attaches all API routes.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/signup", handleSignup)
	mux.HandleFunc("/api/activate", handleActivate)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/me", handleMe)
	mux.HandleFunc("/api/password", handleChangePassword)
	mux.HandleFunc("/api/profile", handleProfile)

	mux.HandleFunc("/api/plan/build", handleBuildPlan)
	mux.HandleFunc("/api/plan/preview", handlePreview)
	mux.HandleFunc("/api/plan/preview/events", handlePreviewEvent)
	mux.HandleFunc("/api/plan/save", handleSavePlan)
	mux.HandleFunc("/api/plan/migrate", handleMigrate)

	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/reschedule", handleRescheduleEvent)
	mux.HandleFunc("/api/events/status", handleUpdateEventStatus)
	mux.HandleFunc("/api/milestones/update", handleUpdateMilestone)
	mux.HandleFunc("/api/milestones/upcoming", handleUpcomingMilestones)

	mux.HandleFunc("/api/suggestions", handleSuggestions)
	mux.HandleFunc("/api/templates", handleTemplates)
	mux.HandleFunc("/api/locations", handleLocations)
	mux.HandleFunc("/api/calendar.ics", handleCalendarICS)
}

// handleSignup handles POST /api/signup
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.SignupInput
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	deps := orchestrators.SignupDeps{
		AccountStore:  stores.AccountStore,
		EmailSender:   emailSender,
		GenerateID:    generateID,
		GenerateToken: generateToken,
		Now:           timeNow,
		BaseURL:       baseURL,
		FromAddress:   emailFromAddress,
	}

	accountID, err := orchestrators.ExecuteSignup(r.Context(), input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
			errorJSON(w, http.StatusConflict, err.Error())
			return
		}
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"accountId": accountID})
}

// handleActivate handles GET /api/activate?token=... (the emailed link)
// and POST /api/activate with a JSON body.
func handleActivate(w http.ResponseWriter, r *http.Request) {
	var token string
	switch r.Method {
	case "GET":
		token = r.URL.Query().Get("token")
	case "POST":
		var body struct {
			Token string `json:"token"`
		}
		if err := strictDecode(r, &body); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		token = body.Token
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := orchestrators.ActivateDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	}
	result, err := orchestrators.ExecuteActivate(r.Context(), orchestrators.ActivateInput{Token: token}, deps)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": result.AccountID,
		"email":     result.Email,
		"role":      result.Role,
	})
}

// handleLogin handles POST /api/login. A successful login with pending
// preview data triggers the one-shot preview migration.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked),
			errors.Is(err, orchestrators.ErrPendingActivation):
			errorJSON(w, http.StatusForbidden, err.Error())
		default:
			errorJSON(w, http.StatusUnauthorized, orchestrators.ErrInvalidCredentials.Error())
		}
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	// Auto-migrate any preview plan parked under this visitor's token.
	migrated := false
	if pt := existingPreviewToken(r); pt != "" && previewManager != nil {
		migrated, err = previewManager.SetAuthenticated(r.Context(), pt, result.AccountID, true)
		if err != nil {
			slog.Warn("preview_event", "event", "migration_failed_on_login", "account_id", result.AccountID, "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": result.AccountID,
		"email":     result.Email,
		"role":      result.Role,
		"migrated":  migrated,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie("fitplan_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": sess.AccountID,
		"email":     sess.Email,
		"role":      sess.Role,
	})
}

// handleChangePassword handles POST /api/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}, orchestrators.ChangePasswordDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, orchestrators.ErrNewPasswordSame),
			errors.Is(err, account.ErrPasswordTooShort):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleProfile handles GET (fetch) and PUT (save) for /api/profile
func handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		p, err := stores.ProfileStore.GetProfile(r.Context(), sess.AccountID)
		if err != nil {
			errorJSON(w, http.StatusNotFound, "no profile saved yet")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"businessType": p.BusinessType,
			"city":         p.City,
		})

	case "PUT", "POST":
		var body struct {
			BusinessType string `json:"businessType"`
			City         string `json:"city"`
		}
		if err := strictDecode(r, &body); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid request")
			return
		}
		p, err := orchestrators.ExecuteSaveProfile(r.Context(), orchestrators.SaveProfileInput{
			AccountID:    sess.AccountID,
			BusinessType: body.BusinessType,
			City:         body.City,
		}, orchestrators.SaveProfileDeps{
			ProfileStore: stores.ProfileStore,
			Now:          timeNow,
		})
		if err != nil {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"businessType": p.BusinessType,
			"city":         p.City,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// recommendedEventJSON is the wire shape of a drafted event.
type recommendedEventJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Quarter     int       `json:"quarter"`
	Template    string    `json:"template,omitempty"`
	Selected    bool      `json:"selected"`
}

func toRecommendedJSON(events []plan.RecommendedEvent) []recommendedEventJSON {
	out := make([]recommendedEventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, recommendedEventJSON{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			Description: e.Description,
			Date:        e.SuggestedDate,
			Quarter:     e.Quarter(),
			Template:    e.Template,
			Selected:    e.Selected,
		})
	}
	return out
}

func fromRecommendedJSON(events []recommendedEventJSON) []plan.RecommendedEvent {
	out := make([]plan.RecommendedEvent, 0, len(events))
	for _, e := range events {
		out = append(out, plan.RecommendedEvent{
			ID:            e.ID,
			Name:          e.Name,
			Type:          e.Type,
			Description:   e.Description,
			SuggestedDate: e.Date,
			Template:      e.Template,
			Selected:      e.Selected,
		})
	}
	return out
}

// handleBuildPlan handles POST /api/plan/build. Unauthenticated visitors get
// the first quarter plus a preview cookie; the full plan waits in the preview
// manager for migration after signup.
func handleBuildPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		BusinessType string `json:"businessType"`
		City         string `json:"city"`
		Year         int    `json:"year"`
		FocusAreas   struct {
			Apparel   bool `json:"apparel"`
			Community bool `json:"community"`
			Holidays  bool `json:"holidays"`
			Business  bool `json:"business"`
		} `json:"focusAreas"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	_, authenticated := middleware.GetSessionFromContext(r.Context())

	input := orchestrators.BuildPlanInput{
		Profile: plan.Profile{
			BusinessType:   body.BusinessType,
			City:           body.City,
			FocusApparel:   body.FocusAreas.Apparel,
			FocusCommunity: body.FocusAreas.Community,
			FocusHolidays:  body.FocusAreas.Holidays,
			FocusBusiness:  body.FocusAreas.Business,
		},
		Year:          body.Year,
		Authenticated: authenticated,
	}
	if !authenticated {
		input.PreviewToken = previewToken(w, r)
	}

	result, err := orchestrators.ExecuteBuildPlan(r.Context(), input, orchestrators.BuildPlanDeps{
		Source:  planSource,
		Preview: previewManager,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrIncompleteProfile):
			errorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, planai.ErrServiceUnavailable):
			errorJSON(w, http.StatusServiceUnavailable, "plan drafting service unavailable, try again")
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":          result.Title,
		"summary":        result.Summary,
		"summaryHtml":    renderMarkdown(result.Summary),
		"highlights":     result.Highlights,
		"lockedQuarters": result.LockedQuarters,
		"events":         toRecommendedJSON(result.Events),
	})
}

// handlePreview handles GET /api/plan/preview — the parked preview state for
// this visitor's token, including the saved form side channel.
func handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	token := existingPreviewToken(r)
	if token == "" || previewManager == nil || !previewManager.HasPreviewData(token) {
		errorJSON(w, http.StatusNotFound, "no preview plan")
		return
	}

	resp := map[string]any{
		"events":    toRecommendedJSON(previewManager.PreviewEvents(token)),
		"migrating": previewManager.IsMigrating(token),
	}
	if form, ok := previewManager.FormDataFor(token); ok {
		resp["businessType"] = form.BusinessType
		resp["city"] = form.City
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePreviewEvent handles POST /api/plan/preview/events — toggling
// selection or moving a single drafted event inside the preview.
func handlePreviewEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		EventID  string  `json:"eventId"`
		Selected *bool   `json:"selected"`
		Date     *string `json:"date"`
	}
	if err := strictDecode(r, &body); err != nil || body.EventID == "" {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	var newDate time.Time
	if body.Date != nil {
		var err error
		newDate, err = parseDate(*body.Date)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid date")
			return
		}
	}

	token := existingPreviewToken(r)
	if token == "" || previewManager == nil {
		errorJSON(w, http.StatusNotFound, "no preview plan")
		return
	}

	ok := previewManager.UpdatePreviewEvent(token, body.EventID, func(e *plan.RecommendedEvent) {
		if body.Selected != nil {
			e.Selected = *body.Selected
		}
		if body.Date != nil {
			e.SuggestedDate = newDate
		}
	})
	if !ok {
		errorJSON(w, http.StatusNotFound, "event not in preview")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSavePlan handles POST /api/plan/save — the authenticated direct-save
// path for a reviewed plan.
func handleSavePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		BusinessType string                 `json:"businessType"`
		City         string                 `json:"city"`
		Events       []recommendedEventJSON `json:"events"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	saved, err := orchestrators.ExecuteSavePlan(r.Context(), orchestrators.SavePlanInput{
		AccountID:    sess.AccountID,
		BusinessType: body.BusinessType,
		City:         body.City,
		Events:       fromRecommendedJSON(body.Events),
	}, orchestrators.SavePlanDeps{
		PlanStore:  stores.PlanStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNothingSelected) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"saved": saved})
}

// handleMigrate handles POST /api/plan/migrate — explicit migration of the
// parked preview plan into the authenticated account.
func handleMigrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	token := existingPreviewToken(r)
	if token == "" || previewManager == nil {
		errorJSON(w, http.StatusNotFound, "no preview plan")
		return
	}

	migrated, err := previewManager.MigratePreviewData(r.Context(), token, sess.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"migrated": migrated})
}

// handleEvents handles GET /api/events?from=YYYY-MM-DD&to=YYYY-MM-DD —
// the saved calendar with nested milestones and quarter buckets.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	query := projections.GetCalendarQuery{AccountID: sess.AccountID}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid from date")
			return
		}
		query.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid to date")
			return
		}
		query.To = t
	}

	result, err := projections.QueryGetCalendar(r.Context(), query, projections.GetCalendarDeps{
		PlanStore: stores.PlanStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	// Filter, sort and page the flat list; ByQuarter always covers the
	// full unfiltered range.
	lp := listutil.ParseListParams(r.URL.Query(), eventSortColumns, eventFilterKeys)
	events := filterCalendarEvents(result.Events, lp.FilterParams)
	sortCalendarEvents(events, lp.SortParams)
	info := listutil.NewPageInfo(lp.Page, lp.PerPage, len(events))
	writeJSON(w, http.StatusOK, map[string]any{
		"Events":    events[info.Offset():info.EndRow()],
		"ByQuarter": result.ByQuarter,
		"Page":      info,
	})
}

var (
	eventSortColumns = []string{"date", "name", "status"}
	eventFilterKeys  = []string{"type", "status"}
)

// filterCalendarEvents applies exact-match filters and the free-text name
// search from the query string.
func filterCalendarEvents(events []projections.EventWithMilestones, fp listutil.FilterParams) []projections.EventWithMilestones {
	out := make([]projections.EventWithMilestones, 0, len(events))
	search := strings.ToLower(fp.Search)
	for _, e := range events {
		if t := fp.Filters["type"]; t != "" && e.Event.Type != t {
			continue
		}
		if s := fp.Filters["status"]; s != "" && e.Event.Status != s {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Event.Name), search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// sortCalendarEvents reorders in place. The projection returns events date
// ascending, so an empty sort column is a no-op.
func sortCalendarEvents(events []projections.EventWithMilestones, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	less := func(a, b projections.EventWithMilestones) bool {
		switch sp.Sort {
		case "name":
			return a.Event.Name < b.Event.Name
		case "status":
			return a.Event.Status < b.Event.Status
		default:
			return a.Event.Date.Before(b.Event.Date)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if sp.Dir == "desc" {
			return less(events[j], events[i])
		}
		return less(events[i], events[j])
	})
}

// handleRescheduleEvent handles POST /api/events/reschedule
func handleRescheduleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		EventID string `json:"eventId"`
		NewDate string `json:"newDate"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}
	newDate, err := parseDate(body.NewDate)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid date")
		return
	}

	updated, err := orchestrators.ExecuteRescheduleEvent(r.Context(), orchestrators.RescheduleEventInput{
		AccountID: sess.AccountID,
		EventID:   body.EventID,
		NewDate:   newDate,
	}, orchestrators.RescheduleEventDeps{
		PlanStore: stores.PlanStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEventNotFound):
			errorJSON(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrNotYourEvent):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, event.ErrNoAnchorDate):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleUpdateEventStatus handles POST /api/events/status
func handleUpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		EventID string `json:"eventId"`
		Status  string `json:"status"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := orchestrators.ExecuteUpdateEventStatus(r.Context(), orchestrators.UpdateEventStatusInput{
		AccountID: sess.AccountID,
		EventID:   body.EventID,
		Status:    body.Status,
	}, orchestrators.UpdateEventStatusDeps{
		PlanStore: stores.PlanStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEventNotFound):
			errorJSON(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrNotYourEvent):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, event.ErrInvalidStatus):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleUpdateMilestone handles POST /api/milestones/update
func handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		MilestoneID string  `json:"milestoneId"`
		Status      *string `json:"status"`
		Owner       *string `json:"owner"`
		Notes       *string `json:"notes"`
	}
	if err := strictDecode(r, &body); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := orchestrators.ExecuteUpdateMilestone(r.Context(), orchestrators.UpdateMilestoneInput{
		AccountID:   sess.AccountID,
		MilestoneID: body.MilestoneID,
		Status:      body.Status,
		Owner:       body.Owner,
		Notes:       body.Notes,
	}, orchestrators.UpdateMilestoneDeps{
		PlanStore: stores.PlanStore,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrMilestoneNotFound):
			errorJSON(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orchestrators.ErrNotYourEvent):
			errorJSON(w, http.StatusForbidden, err.Error())
		case errors.Is(err, event.ErrInvalidMilestoneStatus):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleUpcomingMilestones handles GET /api/milestones/upcoming?days=N
func handleUpcomingMilestones(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	query := projections.GetUpcomingMilestonesQuery{AccountID: sess.AccountID}
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			errorJSON(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		query.Days = n
	}

	result, err := projections.QueryGetUpcomingMilestones(r.Context(), query, projections.GetUpcomingMilestonesDeps{
		PlanStore: stores.PlanStore,
		Now:       timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSuggestions handles GET /api/suggestions?businessType=...&city=...
// Authenticated callers fall back to their saved profile for missing params.
func handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	businessType := r.URL.Query().Get("businessType")
	city := r.URL.Query().Get("city")

	if businessType == "" || city == "" {
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			if p, err := stores.ProfileStore.GetProfile(r.Context(), sess.AccountID); err == nil {
				if businessType == "" {
					businessType = p.BusinessType
				}
				if city == "" {
					city = p.City
				}
			}
		}
	}
	if businessType == "" || city == "" {
		errorJSON(w, http.StatusBadRequest, "businessType and city are required")
		return
	}

	suggestions := suggestion.GenerateSuggestions(businessType, city, timeNow())
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"preferences": suggestion.Preferences(businessType),
	})
}

// handleTemplates handles GET /api/templates — the built-in template catalog.
func handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if id := r.URL.Query().Get("id"); id != "" {
		t, ok := templateDomain.ByID(id)
		if !ok {
			errorJSON(w, http.StatusNotFound, "unknown template")
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templateDomain.Builtin()})
}

// handleLocations handles GET /api/locations and /api/locations?city=...
func handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if city := r.URL.Query().Get("city"); city != "" {
		c, ok := location.Lookup(city)
		if !ok {
			errorJSON(w, http.StatusNotFound, "unknown city")
			return
		}
		writeJSON(w, http.StatusOK, c)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cities": location.Supported()})
}

// handleCalendarICS handles GET /api/calendar.ics — the saved plan as an
// iCalendar file for import into external calendar apps.
func handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	events, err := stores.PlanStore.GetEventsByAccount(r.Context(), sess.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}

	milestones := make(map[string][]event.Milestone, len(events))
	for _, e := range events {
		ms, err := stores.PlanStore.GetMilestonesByEvent(r.Context(), e.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		milestones[e.ID] = ms
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fitplan.ics"`)
	fmt.Fprint(w, ics.ExportCalendar(events, milestones, timeNow()))
}
