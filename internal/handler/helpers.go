package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// parseDateFilter reads the ?date= or ?start_date=&end_date= query params
// and returns an inclusive date range. With no params both bounds are today,
// so every filtered listing defaults to the current day.
func parseDateFilter(r *http.Request) (pgtype.Date, pgtype.Date, error) {
	const layout = "2006-01-02"

	today := time.Now()
	start := pgtype.Date{Time: today, Valid: true}
	end := pgtype.Date{Time: today, Valid: true}

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD")
		}
		return pgtype.Date{Time: t, Valid: true}, pgtype.Date{Time: t, Valid: true}, nil
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("invalid start_date format, expected YYYY-MM-DD")
		}
		start = pgtype.Date{Time: t, Valid: true}
		end = pgtype.Date{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("invalid end_date format, expected YYYY-MM-DD")
		}
		end = pgtype.Date{Time: t, Valid: true}
	}

	if start.Time.After(end.Time) {
		return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("start_date must not be after end_date")
	}
	return start, end, nil
}
