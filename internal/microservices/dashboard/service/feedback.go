package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"restaurant-dashboard/internal/common/logger"
	"restaurant-dashboard/internal/domain"
)

// Feedback rating filters.
const (
	FeedbackAll       = "all"
	FeedbackExcellent = "excellent"
	FeedbackGood      = "good"
	FeedbackAverage   = "average"
	FeedbackPoor      = "poor"
)

type FeedbackStats struct {
	Total         int     `json:"total"`
	Excellent     int     `json:"excellent"`
	Good          int     `json:"good"`
	Average       int     `json:"average"`
	Poor          int     `json:"poor"`
	AverageRating float64 `json:"average_rating"`
}

type FeedbackView struct {
	Items    []domain.Feedback `json:"items"`
	Stats    FeedbackStats     `json:"stats"`
	Fallback bool              `json:"fallback,omitempty"`
}

type FeedbackServiceInterface interface {
	List(ctx context.Context, filter, search string) (FeedbackView, error)
}

type FeedbackService struct {
	gw  Gateway
	log *logger.Logger
	now func() time.Time
}

func NewFeedbackService(gw Gateway, log *logger.Logger, now func() time.Time) *FeedbackService {
	return &FeedbackService{gw: gw, log: log, now: now}
}

func (s *FeedbackService) List(ctx context.Context, filter, search string) (FeedbackView, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "", FeedbackAll, FeedbackExcellent, FeedbackGood, FeedbackAverage, FeedbackPoor:
	default:
		return FeedbackView{}, fmt.Errorf("%w: unknown feedback filter %q", ErrBadRequest, filter)
	}

	items, err := s.gw.FetchFeedback(ctx)
	fallback := false
	if err != nil {
		s.log.Error("feedback_fetch_failed", err, map[string]any{"fallback": true})
		items, fallback = SampleFeedback(s.now()), true
	}

	today := s.now().Format(time.DateOnly)
	for i := range items {
		if strings.TrimSpace(items[i].Date) == "" {
			items[i].Date = today
		}
	}

	view := FeedbackView{Stats: FeedbackStatsOf(items), Fallback: fallback}
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, f := range items {
		if !matchRating(f.Rating, filter) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(f.Text), needle) {
			continue
		}
		view.Items = append(view.Items, f)
	}
	sortNewest(view.Items)
	return view, nil
}

func matchRating(r int, filter string) bool {
	switch filter {
	case FeedbackExcellent:
		return r == 5
	case FeedbackGood:
		return r == 4
	case FeedbackAverage:
		return r == 3
	case FeedbackPoor:
		return r == 1 || r == 2
	}
	return true
}

// FeedbackStatsOf buckets ratings. A zero rating means unrated and is left out
// of the buckets and the average.
func FeedbackStatsOf(items []domain.Feedback) FeedbackStats {
	st := FeedbackStats{Total: len(items)}
	sum, rated := 0, 0
	for _, f := range items {
		switch {
		case f.Rating == 5:
			st.Excellent++
		case f.Rating == 4:
			st.Good++
		case f.Rating == 3:
			st.Average++
		case f.Rating == 1 || f.Rating == 2:
			st.Poor++
		}
		if f.Rating > 0 {
			sum += f.Rating
			rated++
		}
	}
	if rated > 0 {
		st.AverageRating = math.Round(float64(sum)/float64(rated)*10) / 10
	}
	return st
}

func sortNewest(items []domain.Feedback) {
	at := func(f domain.Feedback) time.Time {
		for _, layout := range []string{time.RFC3339, time.DateOnly, "01/02/2006"} {
			if t, err := time.Parse(layout, f.Date); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	sort.SliceStable(items, func(i, j int) bool { return at(items[i]).After(at(items[j])) })
}

// SampleFeedback is shown when the backend is unreachable.
func SampleFeedback(now time.Time) []domain.Feedback {
	day := func(n int) string { return now.AddDate(0, 0, -n).Format(time.DateOnly) }
	return []domain.Feedback{
		{ID: "FB-1", Text: "Amazing food and quick service!", OrderID: "ORD-101", CustomerID: "CUST-1", Rating: 5, Date: day(0)},
		{ID: "FB-2", Text: "Good taste but the portion was small.", OrderID: "ORD-102", CustomerID: "CUST-2", Rating: 4, Date: day(1)},
		{ID: "FB-3", Text: "Average experience, food was cold.", OrderID: "ORD-103", CustomerID: "CUST-3", Rating: 3, Date: day(2)},
		{ID: "FB-4", Text: "Waited too long for the order.", OrderID: "ORD-104", CustomerID: "CUST-4", Rating: 2, Date: day(3)},
		{ID: "FB-5", Text: "Loved the desserts, will come again.", OrderID: "ORD-105", CustomerID: "CUST-5", Rating: 5, Date: day(4)},
	}
}
