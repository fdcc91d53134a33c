package ui

import (
	"encoding/json"
	"net/http"

	"finitefield.org/catalog-admin/internal/admin/templates/partials"
)

// htmx client events dispatched through HX-Trigger.
const (
	eventToast         = "toast"
	eventCatalogReload = "catalog:reload"
	eventModalClose    = "modal:close"
)

type triggers map[string]any

func toastTrigger(message, tone string) triggers {
	return triggers{eventToast: partials.Toast{Message: message, Tone: tone}}
}

func (t triggers) with(event string) triggers {
	t[event] = true
	return t
}

// setTriggers writes the HX-Trigger header. Encoding failures drop the header rather than the response.
func setTriggers(w http.ResponseWriter, t triggers) {
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}
