package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/getclientflow/clientflow-backend/api/responses"
	"github.com/getclientflow/clientflow-backend/api/validators"
	"github.com/getclientflow/clientflow-backend/internal/bookings"
	"github.com/getclientflow/clientflow-backend/pkg/logger"
	"github.com/google/uuid"
)

type createBookingRequest struct {
	ClientID        uuid.UUID       `json:"client_id" validate:"required"`
	ServiceName     string          `json:"service_name" validate:"required"`
	ScheduledAt     time.Time       `json:"scheduled_at" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"omitempty,min=1"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Notes           string          `json:"notes"`
}

type rescheduleBookingRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

func CreateBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createBookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), tenantID, bookings.CreateParams{
			ClientID:        body.ClientID,
			ServiceName:     body.ServiceName,
			ScheduledAt:     body.ScheduledAt,
			DurationMinutes: body.DurationMinutes,
			TotalPrice:      body.TotalPrice,
			Notes:           body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bookings.FromModel(booking))
	}
}

func ListBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookings.FromModels(rows))
	}
}

func GetBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), tenantID, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookings.FromModel(booking))
	}
}

// bookingTransition adapts the confirm/cancel/complete service calls into a
// shared handler shape.
func bookingTransition(
	transition func(r *http.Request, tenantID, bookingID uuid.UUID) (any, error),
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := transition(r, tenantID, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ConfirmBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(func(r *http.Request, tenantID, bookingID uuid.UUID) (any, error) {
		booking, err := svc.Confirm(r.Context(), tenantID, bookingID)
		return bookings.FromModel(booking), err
	}, logg)
}

func CancelBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(func(r *http.Request, tenantID, bookingID uuid.UUID) (any, error) {
		booking, err := svc.Cancel(r.Context(), tenantID, bookingID)
		return bookings.FromModel(booking), err
	}, logg)
}

func CompleteBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(func(r *http.Request, tenantID, bookingID uuid.UUID) (any, error) {
		booking, err := svc.Complete(r.Context(), tenantID, bookingID)
		return bookings.FromModel(booking), err
	}, logg)
}

func RescheduleBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bookingID, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rescheduleBookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Reschedule(r.Context(), tenantID, bookingID, body.ScheduledAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookings.FromModel(booking))
	}
}
