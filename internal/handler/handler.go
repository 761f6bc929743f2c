package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/card-ledger/internal/config"
	"github.com/Dan9191/card-ledger/internal/middleware"
	"github.com/Dan9191/card-ledger/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler translates HTTP requests into ledger service calls
type Handler struct {
	svc *service.Service
	cfg *config.Config
	log *logrus.Logger
}

func NewHandler(svc *service.Service, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

// Router builds the HTTP routes. Login, registration and rates are public;
// the rest require a bearer token when cfg.AuthRequired is set.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(h.log), middleware.CORS(h.cfg.CORSOrigin))

	// Public routes
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/user/create", h.CreateUser).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rates", h.Rates).Methods(http.MethodGet, http.MethodOptions)

	// Protected routes
	api := r.PathPrefix("/").Subrouter()
	if h.cfg.AuthRequired {
		api.Use(middleware.AuthMiddleware(h.cfg))
	}
	api.HandleFunc("/user/{id:[0-9]+}", h.GetUserByID).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/user/phone/{phone}", h.GetUserByPhone).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/user", h.UpdateUser).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/user/delete/{id:[0-9]+}", h.DeleteUser).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/card/user/{id:[0-9]+}", h.GetCardsByUser).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/card/number/{number:[0-9]+}", h.GetCardByNumber).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/card/create", h.CreateCard).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card", h.UpdateCard).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card/delete/{number:[0-9]+}", h.DeleteCard).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card/topup", h.TopUp).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card/withdraw", h.Withdraw).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card/transfer", h.Transfer).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/card/operations/{number:[0-9]+}", h.GetOperations).Methods(http.MethodGet, http.MethodOptions)

	return r
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// Login checks credentials and issues a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	token, err := middleware.IssueToken(h.cfg, user.ID, time.Now())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: user.ID})
}

// Rates returns the conversion table in use
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Rates().Quotes())
}
