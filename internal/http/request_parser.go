package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DashboardRequest holds the parsed inputs of a dashboard request.
type DashboardRequest struct {
	UserID string
	// Year is empty when the query carried no usable year.
	Year string
}

func parseDashboardRequest(r *http.Request) DashboardRequest {
	return DashboardRequest{
		UserID: strings.TrimSpace(r.PathValue("userId")),
		Year:   ParseYearParam(r.URL.Query()),
	}
}

// ParseYearParam returns the ?year= value when it is a positive integer and
// "" otherwise, so bad values behave like an absent parameter.
func ParseYearParam(query url.Values) string {
	v := strings.TrimSpace(query.Get("year"))
	if v == "" {
		return ""
	}
	y, err := strconv.Atoi(v)
	if err != nil || y <= 0 {
		return ""
	}
	return strconv.Itoa(y)
}
