package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	ChargeReport      http.HandlerFunc
	Transactions      http.HandlerFunc
	MyTransactions    http.HandlerFunc
	MyChargeTags      http.HandlerFunc
	ListUsers         http.HandlerFunc
	CreateUser        http.HandlerFunc
	UpdateUser        http.HandlerFunc
	DeleteUser        http.HandlerFunc
	AssignChargeTag   http.HandlerFunc
	SyncChargePoints  http.HandlerFunc
	Health            http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.ChargeReport != nil {
		mux.Handle("/reports/charge", method(http.MethodGet, routes.ChargeReport))
	}
	if routes.Transactions != nil {
		mux.Handle("/transactions", method(http.MethodGet, routes.Transactions))
	}
	if routes.MyTransactions != nil {
		mux.Handle("/transactions/me", method(http.MethodGet, routes.MyTransactions))
	}
	if routes.MyChargeTags != nil {
		mux.Handle("/charge-tags/me", method(http.MethodGet, routes.MyChargeTags))
	}
	if routes.ListUsers != nil || routes.CreateUser != nil || routes.UpdateUser != nil || routes.DeleteUser != nil {
		mux.Handle("/users", byMethod(map[string]http.HandlerFunc{
			http.MethodGet:    routes.ListUsers,
			http.MethodPost:   routes.CreateUser,
			http.MethodPut:    routes.UpdateUser,
			http.MethodDelete: routes.DeleteUser,
		}))
	}
	if routes.AssignChargeTag != nil {
		mux.Handle("/users/charge-tag", method(http.MethodPost, routes.AssignChargeTag))
	}
	if routes.SyncChargePoints != nil {
		mux.Handle("/users/charge-points", method(http.MethodPost, routes.SyncChargePoints))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func byMethod(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok && handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
