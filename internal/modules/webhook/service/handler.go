package service

import (
	"io"
	"net/http"

	"signal_gate/internal/engine"
	healthsvc "signal_gate/internal/modules/health/service"
	"signal_gate/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/opentracing/opentracing-go"
)

const maxBodyBytes = 1 << 20

// Handler принимает алерты TradingView и гонит их через движок.
type Handler struct {
	engine *engine.Engine
	state  *healthsvc.State
}

func NewHandler(e *engine.Engine, state *healthsvc.State) *Handler {
	return &Handler{engine: e, state: state}
}

func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/webhook/tradingview", h.handleSignal)
	mux.HandleFunc("/api/webhook/url", h.handleURL)
	return mux
}

func (h *Handler) handleSignal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	span, ctx := opentracing.StartSpanFromContext(r.Context(), "webhook.signal")
	defer span.Finish()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	sig, err := ParseSignal(body, r.URL.Query().Get("userId"))
	if err != nil {
		// невалидный вебхук тоже оставляет error-запись в журнале
		logger.Error("webhook validation: %v", err)
		summary := h.engine.Reject(ctx, sig, nil, err)
		writeJSON(w, http.StatusBadRequest, summary)
		return
	}

	h.state.TouchSignal()
	summary := h.engine.ProcessSignal(ctx, sig)
	writeJSON(w, http.StatusOK, summary)
}

// handleURL — информационный эндпоинт: куда прописать вебхук в TradingView.
func (h *Handler) handleURL(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url": scheme + "://" + r.Host + "/api/webhook/tradingview?userId=" + userID,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
