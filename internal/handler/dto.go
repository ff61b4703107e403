package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/service"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// EmployeesResponse is the filtered table with the count shown above it.
type EmployeesResponse struct {
	Year    domain.Year             `json:"year"`
	Count   int                     `json:"count"`
	Columns []string                `json:"columns"`
	Records []domain.EmployeeRecord `json:"records"`
}

// queryValues returns every value of a multi-valued query parameter.
// Repeated keys and comma-separated lists are both accepted; blanks are dropped.
func queryValues(c echo.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryParams()[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// queryRange reads a numeric interval from min/max parameters. A missing bound is left
// open; with neither bound present the range is unconstrained.
func queryRange(c echo.Context, minName, maxName string) (*domain.Range, error) {
	minRaw, maxRaw := c.QueryParam(minName), c.QueryParam(maxName)
	if minRaw == "" && maxRaw == "" {
		return nil, nil
	}
	r := &domain.Range{Min: -math.MaxFloat64, Max: math.MaxFloat64}
	var err error
	if minRaw != "" {
		if r.Min, err = parseBound(minName, minRaw); err != nil {
			return nil, err
		}
	}
	if maxRaw != "" {
		if r.Max, err = parseBound(maxName, maxRaw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// parseBound parses one range bound. NaN and infinities are rejected.
func parseBound(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// parseYear reads the year parameter; the first supported year is the default.
func parseYear(c echo.Context) (domain.Year, error) {
	raw := c.QueryParam("year")
	if raw == "" {
		return domain.Years[0], nil
	}
	return domain.ParseYear(raw)
}

// parseQuery builds a service query from the request's query string.
func parseQuery(c echo.Context) (service.Query, error) {
	year, err := parseYear(c)
	if err != nil {
		return service.Query{}, err
	}
	salary, err := queryRange(c, "min_salary", "max_salary")
	if err != nil {
		return service.Query{}, err
	}
	compa, err := queryRange(c, "min_compa", "max_compa")
	if err != nil {
		return service.Query{}, err
	}
	cmp, _ := strconv.ParseBool(c.QueryParam("compare"))

	return service.Query{
		Year: year,
		Predicate: domain.FilterPredicate{
			Departments: queryValues(c, "department"),
			JobLevels:   queryValues(c, "job_level"),
			Genders:     queryValues(c, "gender"),
			Ethnicities: queryValues(c, "ethnicity"),
			BaseSalary:  salary,
			CompaRatio:  compa,
		},
		Compare: cmp,
	}, nil
}

// parseSelected reads the selected record IDs.
func parseSelected(c echo.Context) ([]int, error) {
	raw := queryValues(c, "selected")
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid selected id %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
