package api

import "net/http"

type listLoansResponse struct {
	Loans         []loanView `json:"loans"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// RequestLoan handles POST /loans/request.
func (h *APIHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var body loanFeaturesBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	loan, err := h.loans.Request(r.Context(), principal(r.Context()), body.toDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loanToAPI(*loan))
}

// LoanHistory handles GET /loans/history.
func (h *APIHandler) LoanHistory(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	loans, total, err := h.loans.History(r.Context(), principal(r.Context()), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	views := make([]loanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, loanToAPI(l))
	}
	writeJSON(w, http.StatusOK, listLoansResponse{Loans: views, NextPageToken: nextPageToken(page, total)})
}
