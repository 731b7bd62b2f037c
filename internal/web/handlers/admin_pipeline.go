package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/blob"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

// ShowLeads renders the lead pipeline.
func (h *AdminHandler) ShowLeads(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	status := r.URL.Query().Get("status")
	leads, total, err := h.leads.List(r.Context(), models.LeadQuery{Status: status, Limit: 100})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load leads", "error", err)
	}
	data["Leads"] = leads
	data["Total"] = total
	data["Status"] = status

	h.render.Render(w, r, "leads.html", data)
}

// HandleUpdateLead processes lead edits from the dashboard.
func (h *AdminHandler) HandleUpdateLead(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/leads", http.StatusSeeOther)
		return
	}

	_, err = h.leads.Update(r.Context(), publicID, models.LeadUpdateParams{
		Status:     r.FormValue("status"),
		OwnerNotes: r.FormValue("owner_notes"),
		AssignedTo: r.FormValue("assigned_to"),
	})
	if err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Lead updated.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/leads", http.StatusSeeOther)
}

// ShowAppointments renders the schedule.
func (h *AdminHandler) ShowAppointments(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	status := r.URL.Query().Get("status")
	appts, total, err := h.appointments.List(r.Context(), models.AppointmentQuery{Status: status, Limit: 100})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load appointments", "error", err)
	}
	data["Appointments"] = appts
	data["Total"] = total
	data["Status"] = status

	h.render.Render(w, r, "appointments.html", data)
}

// HandleUpdateAppointment processes appointment edits from the dashboard.
func (h *AdminHandler) HandleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/appointments", http.StatusSeeOther)
		return
	}

	_, err = h.appointments.Update(r.Context(), publicID, models.AppointmentUpdateParams{
		Status:     r.FormValue("status"),
		AssignedTo: r.FormValue("assigned_to"),
		Notes:      r.FormValue("notes"),
	})
	if err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Appointment updated.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/appointments", http.StatusSeeOther)
}

// ShowJobs renders the job board.
func (h *AdminHandler) ShowJobs(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	status := r.URL.Query().Get("status")
	jobs, total, err := h.jobs.List(r.Context(), models.JobQuery{Status: status, Limit: 100})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load jobs", "error", err)
	}
	data["Jobs"] = jobs
	data["Total"] = total
	data["Status"] = status

	h.render.Render(w, r, "jobs.html", data)
}

// HandleUpdateJob processes job edits from the dashboard.
func (h *AdminHandler) HandleUpdateJob(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}

	_, err = h.jobs.Update(r.Context(), publicID, models.JobUpdateParams{
		Status:        r.FormValue("status"),
		AssignedTo:    r.FormValue("assigned_to"),
		CompletedDate: r.FormValue("completed_date"),
		Notes:         r.FormValue("notes"),
	})
	if err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Job updated.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
}

// HandleUploadJobPhoto accepts a multipart photo upload, stores it in the
// blob store and attaches it to the job's gallery.
func (h *AdminHandler) HandleUploadJobPhoto(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// 10 MB cap per upload.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		setFlashError(w, "Upload too large or malformed.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		setFlashError(w, "No photo in upload.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		setFlashError(w, "Failed to read upload.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}

	contentType := http.DetectContentType(body)
	if !blob.AllowedImageType(contentType) {
		setFlashError(w, "Only JPEG, PNG, GIF or WebP photos are allowed.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("jobs/%s/%d%s", publicID, time.Now().UnixNano(), ext)
	if err := h.blobs.Put(r.Context(), key, contentType, body); err != nil {
		slog.ErrorContext(r.Context(), "failed to store job photo", "error", err)
		setFlashError(w, "Failed to store photo.", h.secureCookies)
		http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
		return
	}

	if _, err := h.jobs.Update(r.Context(), publicID, models.JobUpdateParams{AddPhoto: key}); err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Photo added.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/jobs", http.StatusSeeOther)
}
