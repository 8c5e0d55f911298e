package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/teelane/budget-manager/internal/metrics"
	"github.com/teelane/budget-manager/internal/models"
	"github.com/teelane/budget-manager/internal/repo"
)

// ==========================
// ExpenseHandler
// ==========================
type ExpenseHandler struct {
	Repo *repo.ExpenseRepo
}

// ==========================
// Create Expense
// ==========================
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	// Amount and UserID are pointers so that an absent field and a zero
	// value are distinguishable.
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description" validate:"required"`
		Amount      *int   `json:"amount" validate:"required"`
		Category    string `json:"category" validate:"required"`
		UserID      *int   `json:"user_id" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = "required"
			}
		}
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	e := &models.Expense{
		Title:       input.Title,
		Description: input.Description,
		Amount:      *input.Amount,
		Date:        time.Now().Format("2006-01-02"), // stamped server-side
		Category:    input.Category,
		UserID:      *input.UserID,
	}

	id, err := h.Repo.Create(r.Context(), e)
	if err != nil {
		log.Printf("CreateExpense: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncExpensesCreated(e.Category)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "expense added successfully",
		"id":      id,
	})
}

// ==========================
// List Expenses (optional ?user_id= filter)
// ==========================
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var userID *int
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			JSONError(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		userID = &id
	}

	expenses, err := h.Repo.List(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if expenses == nil {
		expenses = []models.Expense{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenses)
}

// ==========================
// Get Expense
// ==========================
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	expense, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "expense not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expense)
}

// ==========================
// Update Expense (date and user_id are immutable)
// ==========================
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description" validate:"required"`
		Amount      *int   `json:"amount" validate:"required"`
		Category    string `json:"category" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = "required"
			}
		}
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	if err := h.Repo.Update(r.Context(), id, input.Title, input.Description, *input.Amount, input.Category); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "expense not found", http.StatusNotFound)
			return
		}
		log.Printf("UpdateExpense: %v", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONAck(w, "expense updated successfully", http.StatusOK)
}

// ==========================
// Delete Expense
// ==========================
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "expense not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSONAck(w, "expense deleted successfully", http.StatusOK)
}
