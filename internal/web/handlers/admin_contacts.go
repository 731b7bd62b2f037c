package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

// ShowContacts renders the contact book.
func (h *AdminHandler) ShowContacts(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	contacts, total, err := h.contacts.List(r.Context(), models.ContactQuery{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Limit:  100,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load contacts", "error", err)
	}
	data["Contacts"] = contacts
	data["Total"] = total
	data["Search"] = r.URL.Query().Get("search")

	h.render.Render(w, r, "contacts.html", data)
}

// HandleExportContacts streams the full contact book as CSV.
func (h *AdminHandler) HandleExportContacts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts-`+time.Now().Format("2006-01-02")+`.csv"`)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"First Name", "Last Name", "Email", "Phone", "Source", "Status", "Notes", "Created"})

	offset := 0
	for {
		contacts, _, err := h.contacts.List(r.Context(), models.ContactQuery{Limit: 100, Offset: offset})
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to export contacts", "error", err)
			return
		}
		if len(contacts) == 0 {
			return
		}
		for _, c := range contacts {
			cw.Write([]string{
				c.FirstName, c.LastName, c.Email, c.Phone,
				c.Source, c.Status, c.Notes,
				c.CreatedAt.Format("2006-01-02"),
			})
		}
		offset += len(contacts)
	}
}
