// Package ops serves operational dashboards for studio staff.
package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/glowdesk/salonbook/pkg/logging"
)

// ActivityDay captures booking counts by status for one calendar day,
// keyed by the day the booking was created.
type ActivityDay struct {
	Day       time.Time `json:"-"`
	DayLabel  string    `json:"day"`
	Pending   int64     `json:"pending"`
	Accepted  int64     `json:"accepted"`
	Completed int64     `json:"completed"`
	Declined  int64     `json:"declined"`
	Total     int64     `json:"total"`
}

// LatencySnapshot summarizes the HTTP request latency histogram.
type LatencySnapshot struct {
	Total   int64           `json:"total"`
	P90Ms   float64         `json:"p90_ms"`
	P95Ms   float64         `json:"p95_ms"`
	Buckets []LatencyBucket `json:"buckets"`
}

type LatencyBucket struct {
	LeSeconds float64 `json:"le_seconds"`
	Label     string  `json:"label,omitempty"`
	Count     int64   `json:"count"`
}

// Dashboard is the operational overview for one artist.
type Dashboard struct {
	ArtistID       string          `json:"artist_id"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	TotalBookings  int64           `json:"total_bookings"`
	AcceptedTotal  int64           `json:"accepted_total"`
	DeclinedTotal  int64           `json:"declined_total"`
	AcceptanceRate float64         `json:"acceptance_rate_pct"`
	RequestLatency LatencySnapshot `json:"request_latency"`
	Daily          []ActivityDay   `json:"daily"`
}

type activityRepo interface {
	BookingActivityByDay(ctx context.Context, artistID string, start, end time.Time) ([]ActivityDay, error)
}

// DashboardRepository queries booking activity from the database.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	if db == nil {
		panic("ops: sql db required for dashboard")
	}
	return &DashboardRepository{db: db}
}

// BookingActivityByDay groups bookings created inside the window by day and
// status. Legacy alias statuses count toward their canonical column.
func (r *DashboardRepository) BookingActivityByDay(ctx context.Context, artistID string, start, end time.Time) ([]ActivityDay, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, fmt.Errorf("ops dashboard: artist_id required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("ops dashboard: invalid time range")
	}

	query := `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		       COUNT(*) FILTER (WHERE status IN ('accepted', 'confirmed')) AS accepted,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COUNT(*) FILTER (WHERE status IN ('declined', 'cancelled', 'canceled')) AS declined,
		       COUNT(*) AS total
		FROM bookings
		WHERE artist_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.QueryContext(ctx, query, artistID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ops dashboard: query activity: %w", err)
	}
	defer rows.Close()

	var results []ActivityDay
	for rows.Next() {
		var d ActivityDay
		var day time.Time
		if err := rows.Scan(&day, &d.Pending, &d.Accepted, &d.Completed, &d.Declined, &d.Total); err != nil {
			return nil, fmt.Errorf("ops dashboard: scan activity: %w", err)
		}
		d.Day = day.UTC()
		d.DayLabel = d.Day.Format("2006-01-02")
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ops dashboard: iterate activity: %w", err)
	}
	return results, nil
}

// DashboardHandler serves the operational dashboard JSON.
type DashboardHandler struct {
	repo     activityRepo
	gatherer prometheus.Gatherer
	logger   *logging.Logger
}

func NewDashboardHandler(repo activityRepo, gatherer prometheus.Gatherer, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &DashboardHandler{
		repo:     repo,
		gatherer: gatherer,
		logger:   logger,
	}
}

// GetDashboard returns booking activity for an artist.
// GET /ops/artists/{artistID}/dashboard
// Query params:
//   - start: RFC3339 timestamp (optional, requires end)
//   - end: RFC3339 timestamp (optional, requires start)
//   - days: integer window (default 7) when start/end omitted
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	artistID := chi.URLParam(r, "artistID")
	if strings.TrimSpace(artistID) == "" {
		http.Error(w, `{"error":"artist_id required"}`, http.StatusBadRequest)
		return
	}
	if h.repo == nil {
		http.Error(w, `{"error":"dashboard disabled (db not configured)"}`, http.StatusServiceUnavailable)
		return
	}

	start, end, err := parseWindow(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	daily, err := h.repo.BookingActivityByDay(r.Context(), artistID, start, end)
	if err != nil {
		h.logger.Error("failed to query booking activity", "artist_id", artistID, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	daily = fillMissingDays(daily, start, end)

	var total, accepted, declined int64
	for _, day := range daily {
		total += day.Total
		accepted += day.Accepted + day.Completed
		declined += day.Declined
	}

	acceptanceRate := 0.0
	if decided := accepted + declined; decided > 0 {
		acceptanceRate = (float64(accepted) / float64(decided)) * 100.0
	}

	resp := Dashboard{
		ArtistID:       artistID,
		PeriodStart:    start.UTC().Format(time.RFC3339),
		PeriodEnd:      end.UTC().Format(time.RFC3339),
		TotalBookings:  total,
		AcceptedTotal:  accepted,
		DeclinedTotal:  declined,
		AcceptanceRate: acceptanceRate,
		RequestLatency: snapshotRequestLatency(h.gatherer),
		Daily:          daily,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	startRaw := strings.TrimSpace(q.Get("start"))
	endRaw := strings.TrimSpace(q.Get("end"))
	if (startRaw == "") != (endRaw == "") {
		return time.Time{}, time.Time{}, fmt.Errorf("both start and end must be provided, or neither")
	}
	if startRaw != "" {
		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time, use RFC3339 format")
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end time, use RFC3339 format")
		}
		if !end.After(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("end must be after start")
		}
		return start.UTC(), end.UTC(), nil
	}

	days := 7
	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid days; must be 1-90")
		}
		days = parsed
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)
	return start, end, nil
}

func fillMissingDays(existing []ActivityDay, start, end time.Time) []ActivityDay {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	lookup := map[string]ActivityDay{}
	for _, d := range existing {
		lookup[d.Day.UTC().Format("2006-01-02")] = d
	}

	out := make([]ActivityDay, 0, int(endDay.Sub(startDay).Hours()/24)+1)
	for day := startDay; day.Before(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if found, ok := lookup[key]; ok {
			out = append(out, found)
			continue
		}
		out = append(out, ActivityDay{Day: day, DayLabel: key})
	}
	return out
}

func snapshotRequestLatency(gatherer prometheus.Gatherer) LatencySnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return LatencySnapshot{}
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == "salonbook_http_request_duration_seconds" {
			family = mf
			break
		}
	}
	if family == nil {
		return LatencySnapshot{}
	}

	// Aggregate histograms across routes.
	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64

	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		h := metric.GetHistogram()
		if h == nil {
			continue
		}
		sampleCount += h.GetSampleCount()
		for _, b := range h.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if sampleCount == 0 || len(cumulativeByUpper) == 0 {
		return LatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	buckets := make([]LatencyBucket, 0, len(uppers))
	var prev uint64
	var lastFiniteUpper float64
	for _, upper := range uppers {
		cum := cumulativeByUpper[upper]
		count := int64(0)
		if cum >= prev {
			count = int64(cum - prev)
		} else {
			count = int64(cum)
		}
		if math.IsInf(upper, 1) {
			if count > 0 {
				buckets = append(buckets, LatencyBucket{
					LeSeconds: lastFiniteUpper,
					Label:     fmt.Sprintf(">%s", formatSeconds(lastFiniteUpper)),
					Count:     count,
				})
			}
			prev = cum
			continue
		}
		lastFiniteUpper = upper
		buckets = append(buckets, LatencyBucket{LeSeconds: upper, Count: count})
		prev = cum
	}

	return LatencySnapshot{
		Total:   int64(sampleCount),
		P90Ms:   histogramQuantile(0.90, sampleCount, uppers, cumulativeByUpper) * 1000.0,
		P95Ms:   histogramQuantile(0.95, sampleCount, uppers, cumulativeByUpper) * 1000.0,
		Buckets: buckets,
	}
}

func histogramQuantile(q float64, total uint64, uppers []float64, cumulativeByUpper map[float64]uint64) float64 {
	if total == 0 || q <= 0 {
		return 0
	}
	if q >= 1 {
		for i := len(uppers) - 1; i >= 0; i-- {
			if !math.IsInf(uppers[i], 1) {
				return uppers[i]
			}
		}
		return 0
	}

	target := q * float64(total)
	var prevUpper float64
	var prevCum float64

	for _, upper := range uppers {
		cum := float64(cumulativeByUpper[upper])
		if cum < target {
			prevUpper = upper
			prevCum = cum
			continue
		}

		// If we can't interpolate, return the bucket upper bound.
		bucketCount := cum - prevCum
		if bucketCount <= 0 || upper == prevUpper {
			return upper
		}
		if math.IsInf(upper, 1) {
			return prevUpper
		}

		fraction := (target - prevCum) / bucketCount
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		return prevUpper + fraction*(upper-prevUpper)
	}

	return uppers[len(uppers)-1]
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 1 {
		return fmt.Sprintf("%.2fs", seconds)
	}
	if seconds < 10 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	return fmt.Sprintf("%.0fs", seconds)
}
