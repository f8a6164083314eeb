package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.List).Methods("GET")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Replace).Methods("PUT")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/category", deps.TransactionHandler.Categories).Methods("GET")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.List).Methods("GET")
	r.HandleFunc("/api/budget", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budget/status", deps.BudgetHandler.Status).Methods("GET")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/summary", deps.StatsHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/stats/summary/csv", deps.StatsHandler.GetStatsCsv).Methods("GET")

	// Investments
	r.HandleFunc("/api/investment/portfolio", deps.InvestmentHandler.Portfolio).Methods("GET")

	// Settings
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
}
