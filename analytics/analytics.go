// ABOUTME: Read-only analytics over activities and records
// ABOUTME: Rolling-window activity series, record counts and the daily streak
package analytics

import (
	"context"
	"strconv"
	"strings"

	"github.com/harperreed/prospect/apperr"
	"github.com/harperreed/prospect/models"
)

const (
	DefaultDays = 7
	MaxDays     = 365
)

// ParseDays turns a raw window length into days. An empty value yields def;
// anything that is not an integer in [1, max] is invalid input.
func ParseDays(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput("days must be an integer, got %q", raw)
	}
	if days <= 0 || days > max {
		return 0, apperr.InvalidInput("days must be between 1 and %d", max)
	}
	return days, nil
}

// Store is the read side of the record store the aggregator needs.
type Store interface {
	CountActivitiesByDay(ctx context.Context, from, to models.Date) (map[models.Date]int, error)
	HasActivityOn(ctx context.Context, day models.Date) (bool, error)
	CountActivitiesByStatus(ctx context.Context) (organized, unorganized int, err error)
	CountContactsByType(ctx context.Context) (map[models.ContactType]int, error)
	CountConversions(ctx context.Context) (int, error)
}

// Aggregator computes analytics. It never writes.
type Aggregator struct {
	store    Store
	calendar models.Calendar
}

func NewAggregator(store Store, calendar models.Calendar) *Aggregator {
	return &Aggregator{store: store, calendar: calendar}
}

// Window returns the timeframe of days calendar days ending today.
func (a *Aggregator) Window(days int) models.Timeframe {
	today := a.calendar.Today()
	return models.Timeframe{Days: days, From: today.AddDays(-(days - 1)), To: today}
}

// ActivityMetrics returns one entry per day of the window, oldest first,
// with zero counts for days without activity.
func (a *Aggregator) ActivityMetrics(ctx context.Context, days int) (models.ActivityMetrics, error) {
	if days <= 0 {
		return models.ActivityMetrics{}, apperr.InvalidInput("days must be positive")
	}

	return a.activityIn(ctx, a.Window(days))
}

func (a *Aggregator) activityIn(ctx context.Context, window models.Timeframe) (models.ActivityMetrics, error) {
	counts, err := a.store.CountActivitiesByDay(ctx, window.From, window.To)
	if err != nil {
		return models.ActivityMetrics{}, apperr.StoreFailure("count activities by day", err)
	}

	metrics := models.ActivityMetrics{Days: make([]models.DayCount, 0, window.Days)}
	for day := window.From; !day.After(window.To); day = day.AddDays(1) {
		n := counts[day]
		metrics.Days = append(metrics.Days, models.DayCount{Date: day, Count: n})
		metrics.Total += n
		if n > 0 {
			metrics.ActiveDays++
		}
	}
	return metrics, nil
}

// ContactMetrics counts records and activities over the full history.
func (a *Aggregator) ContactMetrics(ctx context.Context) (models.ContactMetrics, error) {
	byType, err := a.store.CountContactsByType(ctx)
	if err != nil {
		return models.ContactMetrics{}, apperr.StoreFailure("count records", err)
	}
	conversions, err := a.store.CountConversions(ctx)
	if err != nil {
		return models.ContactMetrics{}, apperr.StoreFailure("count conversions", err)
	}
	organized, unorganized, err := a.store.CountActivitiesByStatus(ctx)
	if err != nil {
		return models.ContactMetrics{}, apperr.StoreFailure("count activities", err)
	}

	m := models.ContactMetrics{
		Leads:                 byType[models.TypeLead],
		Contacts:              byType[models.TypeContact],
		Conversions:           conversions,
		OrganizedActivities:   organized,
		UnorganizedActivities: unorganized,
	}
	m.Total = m.Leads + m.Contacts
	return m, nil
}

// ActivityStreak counts consecutive days ending today with at least one
// activity. It is 0 when today has none. A streak of n costs n+1 lookups.
func (a *Aggregator) ActivityStreak(ctx context.Context) (int, error) {
	return a.streakFrom(ctx, a.calendar.Today())
}

func (a *Aggregator) streakFrom(ctx context.Context, day models.Date) (int, error) {
	streak := 0
	for {
		has, err := a.store.HasActivityOn(ctx, day)
		if err != nil {
			return 0, apperr.StoreFailure("activity streak", err)
		}
		if !has {
			return streak, nil
		}
		streak++
		day = day.AddDays(-1)
	}
}

// Snapshot combines every metric for a window of days. Every part is
// computed against the same today.
func (a *Aggregator) Snapshot(ctx context.Context, days int) (*models.Analytics, error) {
	if days <= 0 {
		return nil, apperr.InvalidInput("days must be positive")
	}

	window := a.Window(days)
	activity, err := a.activityIn(ctx, window)
	if err != nil {
		return nil, err
	}
	contacts, err := a.ContactMetrics(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := a.streakFrom(ctx, window.To)
	if err != nil {
		return nil, err
	}

	return &models.Analytics{
		ActivityMetrics: activity,
		ContactMetrics:  contacts,
		ActivityStreak:  streak,
		Timeframe:       window,
	}, nil
}
