package controllers

import (
	"net/http"

	"github.com/getclientflow/clientflow-backend/api/responses"
	"github.com/getclientflow/clientflow-backend/api/validators"
	"github.com/getclientflow/clientflow-backend/internal/webhooks"
	"github.com/getclientflow/clientflow-backend/pkg/enums"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/getclientflow/clientflow-backend/pkg/pagination"
)

type createWebhookRequest struct {
	URL         string   `json:"url" validate:"required,url"`
	Events      []string `json:"events" validate:"required,min=1"`
	Description string   `json:"description"`
}

type updateWebhookRequest struct {
	URL         *string  `json:"url" validate:"omitempty,url"`
	Events      []string `json:"events" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Active      *bool    `json:"active"`
}

// CreateWebhook registers a tenant endpoint. This is the only response that
// carries the full signing secret.
func CreateWebhook(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createWebhookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		endpoint, err := svc.Create(r.Context(), tenantID, webhooks.CreateParams{
			URL:         body.URL,
			Events:      toEvents(body.Events),
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, webhooks.EndpointFromModel(endpoint, true))
	}
}

// ListWebhooks returns the tenant's endpoints with masked secrets.
func ListWebhooks(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		endpoints, err := svc.List(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, webhooks.EndpointsFromModels(endpoints))
	}
}

func GetWebhook(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endpointID, err := pathUUID(r, "webhookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		endpoint, err := svc.Get(r.Context(), tenantID, endpointID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, webhooks.EndpointFromModel(endpoint, false))
	}
}

func UpdateWebhook(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endpointID, err := pathUUID(r, "webhookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateWebhookRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := webhooks.UpdateParams{
			URL:         body.URL,
			Description: body.Description,
			Active:      body.Active,
		}
		if body.Events != nil {
			params.Events = toEvents(body.Events)
		}

		endpoint, err := svc.Update(r.Context(), tenantID, endpointID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, webhooks.EndpointFromModel(endpoint, false))
	}
}

func DeleteWebhook(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endpointID, err := pathUUID(r, "webhookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), tenantID, endpointID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ListWebhookDeliveries returns the paginated attempt history for an endpoint.
func ListWebhookDeliveries(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endpointID, err := pathUUID(r, "webhookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListDeliveries(r.Context(), tenantID, endpointID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// TestWebhook fires a synchronous test event and reports the outcome without
// touching the delivery history.
func TestWebhook(svc webhooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endpointID, err := pathUUID(r, "webhookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.SendTest(r.Context(), tenantID, endpointID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func toEvents(raw []string) []enums.WebhookEvent {
	events := make([]enums.WebhookEvent, 0, len(raw))
	for _, value := range raw {
		events = append(events, enums.WebhookEvent(value))
	}
	return events
}
