package handlers

import (
	"log/slog"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/blob"
	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
	"github.com/conley21p/alpine-outdoor-living/internal/web/middleware"
	"github.com/conley21p/alpine-outdoor-living/internal/web/render"
)

// AdminHandler serves the owner's dashboard: pipeline views plus the two
// approval queues.
type AdminHandler struct {
	render        *render.Renderer
	dashboard     *crm.DashboardService
	contacts      *crm.ContactService
	leads         *crm.LeadService
	appointments  *crm.AppointmentService
	jobs          *crm.JobService
	employees     *crm.EmployeeService
	emails        *crm.EmailService
	payments      *crm.PaymentService
	logs          store.AgentLogStore
	blobs         blob.Store
	secureCookies bool
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	renderer *render.Renderer,
	dashboard *crm.DashboardService,
	contacts *crm.ContactService,
	leads *crm.LeadService,
	appointments *crm.AppointmentService,
	jobs *crm.JobService,
	employees *crm.EmployeeService,
	emails *crm.EmailService,
	payments *crm.PaymentService,
	logs store.AgentLogStore,
	blobs blob.Store,
	secureCookies bool,
) *AdminHandler {
	return &AdminHandler{
		render:        renderer,
		dashboard:     dashboard,
		contacts:      contacts,
		leads:         leads,
		appointments:  appointments,
		jobs:          jobs,
		employees:     employees,
		emails:        emails,
		payments:      payments,
		logs:          logs,
		blobs:         blobs,
		secureCookies: secureCookies,
	}
}

// pageData seeds template data with the signed-in user and any pending
// flash message.
func (h *AdminHandler) pageData(w http.ResponseWriter, r *http.Request) map[string]interface{} {
	data := map[string]interface{}{"Admin": true}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		data["User"] = user
	}
	if msg, flashType := consumeFlash(w, r, h.secureCookies); msg != "" {
		data["Flash"] = msg
		data["FlashType"] = flashType
	}
	return data
}

// ShowDashboard renders the summary page.
func (h *AdminHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load dashboard stats", "error", err)
		stats = &crm.DashboardStats{}
	}
	data["Stats"] = stats

	h.render.Render(w, r, "dashboard.html", data)
}

// ShowAgentLog renders the agent activity log.
func (h *AdminHandler) ShowAgentLog(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	entries, total, err := h.logs.ListAgentLogs(r.Context(), 100, 0)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load agent log", "error", err)
	}
	data["Entries"] = entries
	data["Total"] = total

	h.render.Render(w, r, "agent_log.html", data)
}
