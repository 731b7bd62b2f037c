package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

// ShowEmployees renders the crew roster.
func (h *AdminHandler) ShowEmployees(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	employees, err := h.employees.List(r.Context(), false)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load employees", "error", err)
	}
	data["Employees"] = employees

	h.render.Render(w, r, "employees.html", data)
}

// HandleCreateEmployee adds a crew member.
func (h *AdminHandler) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
		return
	}

	_, err := h.employees.Create(r.Context(), models.Employee{
		Name:       r.FormValue("name"),
		Phone:      r.FormValue("phone"),
		Email:      r.FormValue("email"),
		CalendarID: r.FormValue("calendar_id"),
		Role:       r.FormValue("role"),
		Notes:      r.FormValue("notes"),
	})
	if err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Employee added.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
}

// HandleToggleEmployee flips an employee's active flag.
func (h *AdminHandler) HandleToggleEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		setFlashError(w, "Invalid employee.", h.secureCookies)
		http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
		return
	}
	active := r.FormValue("active") == "true"

	if err := h.employees.SetActive(r.Context(), id, active); err != nil {
		setFlashError(w, err.Error(), h.secureCookies)
	} else {
		setFlashSuccess(w, "Employee updated.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/employees", http.StatusSeeOther)
}
