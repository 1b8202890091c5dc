package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/metrics"
)

// NewRouter builds the relay's HTTP surface. The storefront frontend and
// the outbox publisher both speak this contract, so the shapes here stay
// flat JSON rather than the storefront API's envelope.
func NewRouter(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeRelayJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/send-welcome", sendWelcomeHandler(svc, logg, mets))
	r.Post("/send-order", sendOrderHandler(svc, logg, mets))
	r.Post("/send-delivered", sendDeliveredHandler(svc, logg, mets))
	r.Post("/send-back-in-stock", sendBackInStockHandler(svc, logg, mets))
	r.Post("/send-login-alert", sendLoginAlertHandler(svc, logg, mets))

	return r
}

func sendWelcomeHandler(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WelcomeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRelayError(w, logg, r, "send-welcome", err)
			return
		}
		start := time.Now()
		if err := svc.SendWelcome(r.Context(), req); err != nil {
			writeRelayError(w, logg, r, "send-welcome", err)
			return
		}
		mets.ObserveRelaySend("send-welcome", time.Since(start))
		writeRelayJSON(w, http.StatusOK, map[string]string{"message": "Personalized Welcome Email Sent!"})
	}
}

func sendOrderHandler(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRelayError(w, logg, r, "send-order", err)
			return
		}
		start := time.Now()
		if err := svc.SendOrder(r.Context(), req); err != nil {
			writeRelayError(w, logg, r, "send-order", err)
			return
		}
		mets.ObserveRelaySend("send-order", time.Since(start))
		writeRelayJSON(w, http.StatusOK, map[string]string{"message": "Order Email Sent!"})
	}
}

func sendDeliveredHandler(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeliveredRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRelayError(w, logg, r, "send-delivered", err)
			return
		}
		start := time.Now()
		if err := svc.SendDelivered(r.Context(), req); err != nil {
			writeRelayError(w, logg, r, "send-delivered", err)
			return
		}
		mets.ObserveRelaySend("send-delivered", time.Since(start))
		writeRelayJSON(w, http.StatusOK, map[string]string{"message": "Delivery Email Sent!"})
	}
}

func sendBackInStockHandler(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BackInStockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRelayError(w, logg, r, "send-back-in-stock", err)
			return
		}
		start := time.Now()
		if err := svc.SendBackInStock(r.Context(), req); err != nil {
			writeRelayError(w, logg, r, "send-back-in-stock", err)
			return
		}
		mets.ObserveRelaySend("send-back-in-stock", time.Since(start))
		writeRelayJSON(w, http.StatusOK, map[string]string{"message": "Stock Alert Sent!"})
	}
}

func sendLoginAlertHandler(svc Service, logg *logger.Logger, mets *metrics.StorefrontMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRelayError(w, logg, r, "send-login-alert", err)
			return
		}
		start := time.Now()
		if err := svc.SendLoginAlert(r.Context(), req); err != nil {
			writeRelayError(w, logg, r, "send-login-alert", err)
			return
		}
		mets.ObserveRelaySend("send-login-alert", time.Since(start))
		writeRelayJSON(w, http.StatusOK, map[string]string{"message": "Security Alert Sent!"})
	}
}

func writeRelayError(w http.ResponseWriter, logg *logger.Logger, r *http.Request, endpoint string, err error) {
	if logg != nil {
		ctx := logg.WithField(r.Context(), "endpoint", endpoint)
		logg.Error(ctx, "relay send failed", err)
	}
	writeRelayJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeRelayJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode relay response","err":"%v"}`, err)
	}
}
