// Package service assembles the dashboard summary from the species, user and
// report services.
package service

import (
	"context"
	"sort"
	"time"

	reportdomain "github.com/terraverde/terraverde-api/internal/reports/domain"
	"github.com/terraverde/terraverde-api/internal/species/query"
	userdomain "github.com/terraverde/terraverde-api/internal/users/domain"
)

const (
	recentPerSource = 5
	recentTotal     = 10
)

type SpeciesStats interface {
	Statistics(ctx context.Context) (query.Statistics, error)
}

type UserStats interface {
	Stats(ctx context.Context) (userdomain.Stats, error)
	Recent(ctx context.Context, limit int) ([]userdomain.User, error)
}

type ReportStats interface {
	Stats(ctx context.Context) (reportdomain.Stats, error)
}

type Activity struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type Summary struct {
	Species        query.Statistics   `json:"species"`
	Users          userdomain.Stats   `json:"users"`
	Reports        reportdomain.Stats `json:"reports"`
	RecentActivity []Activity         `json:"recent_activity"`
}

type DashboardService struct {
	species SpeciesStats
	users   UserStats
	reports ReportStats
}

func NewDashboardService(species SpeciesStats, users UserStats, reports ReportStats) *DashboardService {
	return &DashboardService{species: species, users: users, reports: reports}
}

func (s *DashboardService) Summary(ctx context.Context) (Summary, error) {
	species, err := s.species.Statistics(ctx)
	if err != nil {
		return Summary{}, err
	}
	users, err := s.users.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	reports, err := s.reports.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	recentUsers, err := s.users.Recent(ctx, recentPerSource)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Species:        species,
		Users:          users,
		Reports:        reports,
		RecentActivity: recentActivity(species.RecentAdditions, recentUsers),
	}, nil
}

// recentActivity merges the newest species and users, newest first.
func recentActivity(species []query.Recent, users []userdomain.User) []Activity {
	out := make([]Activity, 0, recentTotal)
	for i, sp := range species {
		if i == recentPerSource {
			break
		}
		title := sp.CommonName
		if title == "" {
			title = sp.ScientificName
		}
		out = append(out, Activity{Type: "species", ID: sp.ID, Title: title, Timestamp: sp.RegisteredAt})
	}
	for i, u := range users {
		if i == recentPerSource {
			break
		}
		out = append(out, Activity{Type: "user", ID: u.ID, Title: u.Name, Timestamp: u.RegisteredAt})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > recentTotal {
		out = out[:recentTotal]
	}
	return out
}
